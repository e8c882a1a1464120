package fixture

import "context"

// Source supplies what a Fixture needs to reach its database and the
// statements it installs and removes. Statements are read on every
// execution and run in the returned order.
type Source interface {
	ConnectionString() string
	SetupStatements() []string
	TeardownStatements() []string
}

// Named is optionally implemented by a Source to name its fixture.
type Named interface {
	Name() string
}

// StaticSource is a Source over fixed values.
type StaticSource struct {
	DSN      string
	Setup    []string
	Teardown []string
}

func (s StaticSource) ConnectionString() string   { return s.DSN }
func (s StaticSource) SetupStatements() []string    { return s.Setup }
func (s StaticSource) TeardownStatements() []string { return s.Teardown }

// Executor runs statements in order inside one transaction on a
// connection opened from connString. Nothing is committed unless every
// statement succeeds.
type Executor interface {
	Execute(ctx context.Context, connString string, statements []string) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, connString string, statements []string) error

// Execute calls fn.
func (fn ExecutorFunc) Execute(ctx context.Context, connString string, statements []string) error {
	return fn(ctx, connString, statements)
}

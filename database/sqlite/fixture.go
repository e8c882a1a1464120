package sqlite

import (
	"context"
	"errors"

	"github.com/kbukum/dbfixture/database"
	"github.com/kbukum/dbfixture/fixture"
	"github.com/kbukum/dbfixture/logger"
)

// New creates a fixture over a SQLite file at path and installs it unless
// fixture.WithoutAutoInsert is given. When the automatic insert fails the
// file is deleted.
func New(ctx context.Context, path string, setup, teardown []string, opts ...fixture.Option) (*fixture.Fixture, error) {
	src := &FileSource{Path: path, Setup: setup, Teardown: teardown}
	return NewWithSource(ctx, src, nil, opts...)
}

// NewWithSource is New for a prepared FileSource. A nil log uses the
// global logger.
func NewWithSource(ctx context.Context, src *FileSource, log *logger.Logger, opts ...fixture.Option) (*fixture.Fixture, error) {
	exec := database.NewExecutor(Dialector, database.Config{Driver: "sqlite"}, log)
	if log != nil {
		opts = append([]fixture.Option{fixture.WithLogger(log)}, opts...)
	}

	f, err := fixture.New(ctx, exec, src, opts...)
	if err != nil {
		return nil, errors.Join(err, src.Close())
	}
	return f, nil
}

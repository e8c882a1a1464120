package fixture

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/dbfixture/component"
	apperrors "github.com/kbukum/dbfixture/errors"
	"github.com/kbukum/dbfixture/logger"
	"github.com/kbukum/dbfixture/observability"
)

// Batch names one of the two statement batches of a fixture.
type Batch string

const (
	BatchSetup    Batch = "setup"
	BatchTeardown Batch = "teardown"
)

const defaultName = "fixture"

// Fixture installs the setup statements of a Source and removes them with
// its teardown statements, remembering whether the fixture is installed.
//
// The installed flag flips only after a batch commits: a failed insert
// leaves the fixture uninstalled, a failed removal leaves it installed.
// Calls are serialized.
type Fixture struct {
	mu        sync.Mutex
	exec      Executor
	src       Source
	name      string
	log       *logger.Logger
	metrics   *observability.FixtureMetrics
	installed bool
}

// New creates a fixture over src and, unless WithoutAutoInsert is given,
// installs it. If the automatic insert fails New returns no fixture and
// the insert error.
func New(ctx context.Context, exec Executor, src Source, opts ...Option) (*Fixture, error) {
	if exec == nil {
		return nil, apperrors.MissingField("executor")
	}
	if src == nil {
		return nil, apperrors.MissingField("source")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	name := o.name
	if name == "" {
		if n, ok := src.(Named); ok && n.Name() != "" {
			name = n.Name()
		} else {
			name = defaultName
		}
	}

	log := o.log
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	f := &Fixture{
		exec:    exec,
		src:     src,
		name:    name,
		log:     log.WithComponent(defaultName).WithFields(logger.Fields(logger.FieldFixture, name)),
		metrics: o.metrics,
	}

	if o.autoInsert {
		if err := f.InsertFixtures(ctx); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Installed reports whether the setup batch is currently installed.
func (f *Fixture) Installed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.installed
}

// InsertFixtures runs the setup batch unless the fixture is already
// installed.
func (f *Fixture) InsertFixtures(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(ctx)
}

// RemoveFixtures runs the teardown batch if the fixture is installed.
func (f *Fixture) RemoveFixtures(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remove(ctx)
}

// Dispose removes the fixture and then closes the Source if it is an
// io.Closer. A failed teardown returns its error without closing the
// Source, so the fixture stays installed and its backing resource intact;
// Dispose may be called again.
func (f *Fixture) Dispose(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.remove(ctx); err != nil {
		return err
	}

	if c, ok := f.src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			f.log.Warn("Failed to close fixture source", logger.ErrorFields("dispose", err))
			return fmt.Errorf("closing fixture source: %w", err)
		}
	}
	return nil
}

func (f *Fixture) insert(ctx context.Context) error {
	if f.installed {
		return nil
	}
	if err := f.run(ctx, BatchSetup, f.src.SetupStatements()); err != nil {
		return err
	}
	f.installed = true
	return nil
}

func (f *Fixture) remove(ctx context.Context) error {
	if !f.installed {
		return nil
	}
	if err := f.run(ctx, BatchTeardown, f.src.TeardownStatements()); err != nil {
		return err
	}
	f.installed = false
	return nil
}

// run executes one batch and records it in the span, metrics and log.
func (f *Fixture) run(ctx context.Context, batch Batch, statements []string) error {
	ctx, span := observability.StartSpan(ctx, "fixture."+string(batch), trace.WithAttributes(
		attribute.String(observability.AttrFixture, f.name),
		attribute.String(observability.AttrBatch, string(batch)),
		attribute.Int(observability.AttrStatements, len(statements)),
	))

	start := time.Now()
	err := f.exec.Execute(ctx, f.src.ConnectionString(), statements)
	elapsed := time.Since(start)

	var appErr *apperrors.AppError
	if err != nil {
		appErr = classify(err, batch, f.name)
	}

	status := "ok"
	if appErr != nil {
		status = "error"
		observability.EndSpan(span, appErr)
	} else {
		observability.EndSpan(span, nil)
	}
	if f.metrics != nil {
		f.metrics.RecordBatch(ctx, f.name, string(batch), status, len(statements), elapsed)
	}

	log := f.log.WithContext(ctx)
	fields := logger.Fields(
		logger.FieldBatch, string(batch),
		logger.FieldStatements, len(statements),
		logger.FieldDuration, elapsed.Milliseconds(),
	)
	if appErr != nil {
		log.Error("Fixture batch failed", logger.MergeWithError(fields, appErr))
		return appErr
	}

	switch batch {
	case BatchSetup:
		log.Info("Fixtures inserted", fields)
	default:
		log.Info("Fixtures removed", fields)
	}
	return nil
}

// --- component.Component ---

// Name returns the fixture name.
func (f *Fixture) Name() string { return f.name }

// Start installs the fixture.
func (f *Fixture) Start(ctx context.Context) error { return f.InsertFixtures(ctx) }

// Stop disposes the fixture.
func (f *Fixture) Stop(ctx context.Context) error { return f.Dispose(ctx) }

// Health reports healthy while the fixture is installed.
func (f *Fixture) Health(_ context.Context) component.Health {
	if f.Installed() {
		return component.Health{Name: f.name, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    f.name,
		Status:  component.StatusUnhealthy,
		Message: "fixtures not installed",
	}
}

// Describe returns a summary of the fixture for display.
func (f *Fixture) Describe() component.Description {
	return component.Description{
		Name: f.name,
		Type: defaultName,
		Details: fmt.Sprintf("setup=%d teardown=%d",
			len(f.src.SetupStatements()), len(f.src.TeardownStatements())),
	}
}

// --- testutil.TestComponent ---

// Reset removes the fixture if installed and installs it again.
func (f *Fixture) Reset(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.remove(ctx); err != nil {
		return err
	}
	return f.insert(ctx)
}

// Snapshot returns the installed flag.
func (f *Fixture) Snapshot(_ context.Context) (interface{}, error) {
	return f.Installed(), nil
}

// Restore inserts or removes the fixture so that its installed flag
// matches a value returned by Snapshot.
func (f *Fixture) Restore(ctx context.Context, snapshot interface{}) error {
	want, ok := snapshot.(bool)
	if !ok {
		return apperrors.InvalidInput("snapshot", fmt.Sprintf("expected bool, got %T", snapshot))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if want {
		return f.insert(ctx)
	}
	return f.remove(ctx)
}

package fixture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/dbfixture/component"
	apperrors "github.com/kbukum/dbfixture/errors"
	"github.com/kbukum/dbfixture/logger"
)

// recordingExecutor records every batch and fails batches whose first
// statement is a key of fail.
type recordingExecutor struct {
	calls [][]string
	fail  map[string]error
}

func (r *recordingExecutor) Execute(_ context.Context, _ string, statements []string) error {
	r.calls = append(r.calls, statements)
	if len(statements) > 0 {
		if err, ok := r.fail[statements[0]]; ok {
			return err
		}
	}
	return nil
}

type closingSource struct {
	StaticSource
	closed   int
	closeErr error
}

func (c *closingSource) Close() error {
	c.closed++
	return c.closeErr
}

type namedSource struct {
	StaticSource
}

func (namedSource) Name() string { return "users" }

var testSource = StaticSource{
	DSN:      "file:test.db",
	Setup:    []string{"CREATE TABLE test (id INT, name TEXT)", "INSERT INTO test VALUES (1, 'Name')"},
	Teardown: []string{"DROP TABLE test"},
}

func newTestFixture(t *testing.T, exec Executor, src Source, opts ...Option) *Fixture {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	f, err := New(context.Background(), exec, src, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return f
}

func TestNew_AutoInsert(t *testing.T) {
	exec := &recordingExecutor{}
	f := newTestFixture(t, exec, testSource)

	if !f.Installed() {
		t.Error("expected fixture to be installed after New")
	}
	if len(exec.calls) != 1 || len(exec.calls[0]) != 2 {
		t.Fatalf("expected one setup batch of 2 statements, got %v", exec.calls)
	}
	if exec.calls[0][0] != testSource.Setup[0] {
		t.Errorf("statements out of order: %v", exec.calls[0])
	}
}

func TestNew_WithoutAutoInsert(t *testing.T) {
	exec := &recordingExecutor{}
	f := newTestFixture(t, exec, testSource, WithoutAutoInsert())

	if f.Installed() {
		t.Error("expected fixture not to be installed")
	}
	if len(exec.calls) != 0 {
		t.Errorf("expected no executions, got %v", exec.calls)
	}
}

func TestNew_MissingArguments(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, nil, testSource); !apperrors.HasCode(err, apperrors.ErrCodeMissingField) {
		t.Errorf("expected MISSING_FIELD for nil executor, got %v", err)
	}
	if _, err := New(ctx, &recordingExecutor{}, nil); !apperrors.HasCode(err, apperrors.ErrCodeMissingField) {
		t.Errorf("expected MISSING_FIELD for nil source, got %v", err)
	}
}

func TestNew_AutoInsertFailure(t *testing.T) {
	exec := &recordingExecutor{fail: map[string]error{
		testSource.Setup[0]: apperrors.StatementFailed(0, testSource.Setup[0]),
	}}

	f, err := New(context.Background(), exec, testSource, WithLogger(logger.Nop()))
	if f != nil {
		t.Error("expected no fixture when the automatic insert fails")
	}
	if !errors.Is(err, ErrStatement) {
		t.Fatalf("expected ErrStatement, got %v", err)
	}

	appErr, _ := apperrors.AsAppError(err)
	if appErr.Details["batch"] != "setup" {
		t.Errorf("batch detail = %v, want setup", appErr.Details["batch"])
	}
	if appErr.Details["fixture"] != defaultName {
		t.Errorf("fixture detail = %v, want %s", appErr.Details["fixture"], defaultName)
	}
}

func TestInsertFixtures_Idempotent(t *testing.T) {
	exec := &recordingExecutor{}
	f := newTestFixture(t, exec, testSource)

	if err := f.InsertFixtures(context.Background()); err != nil {
		t.Fatalf("second InsertFixtures failed: %v", err)
	}
	if len(exec.calls) != 1 {
		t.Errorf("expected setup to run once, ran %d times", len(exec.calls))
	}
}

// countingExecutor counts executions and is safe for concurrent use.
type countingExecutor struct {
	mu    sync.Mutex
	count map[string]int
}

func (c *countingExecutor) Execute(_ context.Context, _ string, statements []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == nil {
		c.count = make(map[string]int)
	}
	if len(statements) > 0 {
		c.count[statements[0]]++
	}
	return nil
}

func (c *countingExecutor) calls(first string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count[first]
}

func TestInsertFixtures_Concurrent(t *testing.T) {
	exec := &countingExecutor{}
	f := newTestFixture(t, exec, testSource, WithoutAutoInsert())

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.InsertFixtures(context.Background())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("InsertFixtures failed: %v", err)
		}
	}
	if got := exec.calls(testSource.Setup[0]); got != 1 {
		t.Errorf("expected setup to run once, ran %d times", got)
	}
	if !f.Installed() {
		t.Error("expected fixture to be installed")
	}
}

func TestRemoveFixtures_Concurrent(t *testing.T) {
	exec := &countingExecutor{}
	f := newTestFixture(t, exec, testSource)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f.RemoveFixtures(context.Background()); err != nil {
				t.Errorf("RemoveFixtures failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := exec.calls(testSource.Teardown[0]); got != 1 {
		t.Errorf("expected teardown to run once, ran %d times", got)
	}
	if f.Installed() {
		t.Error("expected fixture to be removed")
	}
}

func TestRemoveFixtures(t *testing.T) {
	exec := &recordingExecutor{}
	f := newTestFixture(t, exec, testSource)

	if err := f.RemoveFixtures(context.Background()); err != nil {
		t.Fatalf("RemoveFixtures failed: %v", err)
	}
	if f.Installed() {
		t.Error("expected fixture not to be installed after removal")
	}
	if len(exec.calls) != 2 || exec.calls[1][0] != testSource.Teardown[0] {
		t.Errorf("expected teardown batch second, got %v", exec.calls)
	}

	if err := f.RemoveFixtures(context.Background()); err != nil {
		t.Fatalf("second RemoveFixtures failed: %v", err)
	}
	if len(exec.calls) != 2 {
		t.Errorf("expected teardown to run once, ran %d batches", len(exec.calls))
	}
}

func TestRemoveFixtures_NotInstalledIsNoop(t *testing.T) {
	exec := &recordingExecutor{}
	f := newTestFixture(t, exec, testSource, WithoutAutoInsert())

	if err := f.RemoveFixtures(context.Background()); err != nil {
		t.Fatalf("RemoveFixtures failed: %v", err)
	}
	if len(exec.calls) != 0 {
		t.Errorf("expected no executions, got %v", exec.calls)
	}
}

func TestRemoveFixtures_FailureKeepsInstalled(t *testing.T) {
	exec := &recordingExecutor{fail: map[string]error{
		testSource.Teardown[0]: apperrors.CommitFailed(),
	}}
	f := newTestFixture(t, exec, testSource)

	err := f.RemoveFixtures(context.Background())
	if !errors.Is(err, ErrCommit) {
		t.Fatalf("expected ErrCommit, got %v", err)
	}
	if !f.Installed() {
		t.Error("expected fixture to stay installed after a failed teardown")
	}
}

func TestInsertFixtures_ErrorClassification(t *testing.T) {
	cause := fmt.Errorf("driver exploded")
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"connection", apperrors.ConnectionFailed("sqlite", "ping"), ErrConnection},
		{"statement", apperrors.StatementFailed(1, "INSERT"), ErrStatement},
		{"commit", apperrors.CommitFailed(), ErrCommit},
		{"unclassified", cause, ErrExecution},
		{"foreign app error", apperrors.NotFound("table", "test"), ErrExecution},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exec := &recordingExecutor{fail: map[string]error{testSource.Setup[0]: tc.err}}
			f := newTestFixture(t, exec, testSource, WithoutAutoInsert())

			err := f.InsertFixtures(context.Background())
			if !errors.Is(err, tc.sentinel) {
				t.Errorf("expected %v, got %v", tc.sentinel, err)
			}
			if !IsExecutionError(err) {
				t.Error("expected IsExecutionError to be true")
			}
			if f.Installed() {
				t.Error("expected fixture not to be installed after a failed insert")
			}
		})
	}
}

func TestInsertFixtures_UnclassifiedKeepsCause(t *testing.T) {
	cause := fmt.Errorf("driver exploded")
	exec := &recordingExecutor{fail: map[string]error{testSource.Setup[0]: cause}}
	f := newTestFixture(t, exec, testSource, WithoutAutoInsert())

	if err := f.InsertFixtures(context.Background()); !errors.Is(err, cause) {
		t.Errorf("expected the cause to stay in the chain, got %v", err)
	}
}

func TestInsertFixtures_SentinelErrorNotModified(t *testing.T) {
	exec := ExecutorFunc(func(context.Context, string, []string) error {
		return ErrStatement
	})
	f := newTestFixture(t, exec, testSource, WithoutAutoInsert(), WithName("users"))

	err := f.InsertFixtures(context.Background())
	if !errors.Is(err, ErrStatement) {
		t.Fatalf("expected ErrStatement, got %v", err)
	}
	appErr, _ := apperrors.AsAppError(err)
	if appErr == ErrStatement {
		t.Fatal("expected a copy of the sentinel, got the sentinel itself")
	}
	if appErr.Details["fixture"] != "users" || appErr.Details["batch"] != "setup" {
		t.Errorf("unexpected details: %v", appErr.Details)
	}
	if ErrStatement.Details != nil {
		t.Errorf("ErrStatement.Details = %v, want nil", ErrStatement.Details)
	}
}

func TestIsExecutionError(t *testing.T) {
	if IsExecutionError(nil) {
		t.Error("nil is not an execution error")
	}
	if IsExecutionError(fmt.Errorf("plain")) {
		t.Error("plain errors are not execution errors")
	}
	if !IsExecutionError(fmt.Errorf("wrapped: %w", apperrors.CommitFailed())) {
		t.Error("expected wrapped commit error to be an execution error")
	}
}

func TestDispose_ClosesSource(t *testing.T) {
	exec := &recordingExecutor{}
	src := &closingSource{StaticSource: testSource}
	f := newTestFixture(t, exec, src)

	if err := f.Dispose(context.Background()); err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}
	if f.Installed() {
		t.Error("expected fixture not to be installed after Dispose")
	}
	if src.closed != 1 {
		t.Errorf("expected source to be closed once, closed %d times", src.closed)
	}
}

func TestDispose_TeardownFailureKeepsSource(t *testing.T) {
	teardownErr := apperrors.StatementFailed(0, testSource.Teardown[0])
	exec := &recordingExecutor{fail: map[string]error{testSource.Teardown[0]: teardownErr}}
	src := &closingSource{StaticSource: testSource}
	f := newTestFixture(t, exec, src)

	err := f.Dispose(context.Background())
	if !errors.Is(err, ErrStatement) {
		t.Errorf("expected teardown error, got %v", err)
	}
	if src.closed != 0 {
		t.Errorf("expected source to stay open after a failed teardown, closed %d times", src.closed)
	}
	if !f.Installed() {
		t.Error("expected fixture to stay installed after a failed teardown")
	}

	// A later Dispose that succeeds closes the source.
	delete(exec.fail, testSource.Teardown[0])
	if err := f.Dispose(context.Background()); err != nil {
		t.Fatalf("second Dispose failed: %v", err)
	}
	if src.closed != 1 {
		t.Errorf("expected source to be closed once, closed %d times", src.closed)
	}
}

func TestDispose_CloseError(t *testing.T) {
	closeErr := fmt.Errorf("file busy")
	src := &closingSource{StaticSource: testSource, closeErr: closeErr}
	f := newTestFixture(t, &recordingExecutor{}, src)

	err := f.Dispose(context.Background())
	if !errors.Is(err, closeErr) {
		t.Errorf("expected close error, got %v", err)
	}
	if f.Installed() {
		t.Error("expected fixture to be removed before the close failed")
	}
}

func TestDispose_NotInstalled(t *testing.T) {
	exec := &recordingExecutor{}
	f := newTestFixture(t, exec, testSource, WithoutAutoInsert())

	if err := f.Dispose(context.Background()); err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}
	if len(exec.calls) != 0 {
		t.Errorf("expected no executions, got %v", exec.calls)
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		opts []Option
		want string
	}{
		{"default", testSource, nil, defaultName},
		{"named source", namedSource{testSource}, nil, "users"},
		{"option wins", namedSource{testSource}, []Option{WithName("orders")}, "orders"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := append([]Option{WithoutAutoInsert()}, tc.opts...)
			f := newTestFixture(t, &recordingExecutor{}, tc.src, opts...)
			if f.Name() != tc.want {
				t.Errorf("Name() = %q, want %q", f.Name(), tc.want)
			}
		})
	}
}

func TestComponentLifecycle(t *testing.T) {
	exec := &recordingExecutor{}
	f := newTestFixture(t, exec, testSource, WithoutAutoInsert())
	ctx := context.Background()

	if h := f.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("Health before Start = %s, want unhealthy", h.Status)
	}
	if err := f.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h := f.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("Health after Start = %s, want healthy", h.Status)
	}
	if err := f.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if f.Installed() {
		t.Error("expected Stop to remove the fixture")
	}

	d := f.Describe()
	if d.Type != "fixture" || d.Details != "setup=2 teardown=1" {
		t.Errorf("unexpected description: %+v", d)
	}
}

func TestResetSnapshotRestore(t *testing.T) {
	exec := &recordingExecutor{}
	f := newTestFixture(t, exec, testSource)
	ctx := context.Background()

	if err := f.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	// setup, teardown, setup
	if len(exec.calls) != 3 || !f.Installed() {
		t.Fatalf("unexpected state after Reset: installed=%v calls=%d", f.Installed(), len(exec.calls))
	}

	snap, err := f.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if err := f.RemoveFixtures(ctx); err != nil {
		t.Fatalf("RemoveFixtures failed: %v", err)
	}
	if err := f.Restore(ctx, snap); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !f.Installed() {
		t.Error("expected Restore to reinstall the fixture")
	}

	if err := f.Restore(ctx, "yes"); !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for a bad snapshot, got %v", err)
	}
}

func TestInsertFixtures_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	f := newTestFixture(t, &recordingExecutor{}, testSource)
	if err := f.RemoveFixtures(context.Background()); err != nil {
		t.Fatalf("RemoveFixtures failed: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != "fixture.setup" || spans[1].Name() != "fixture.teardown" {
		t.Errorf("unexpected span names: %s, %s", spans[0].Name(), spans[1].Name())
	}
}

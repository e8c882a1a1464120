package testutil

import (
	"context"

	"github.com/kbukum/dbfixture/component"
)

// TestComponent extends component.Component with the state operations
// tests need between cases.
type TestComponent interface {
	component.Component

	// Reset returns the component to its freshly started state.
	Reset(ctx context.Context) error

	// Snapshot captures the current state. The value can be passed to
	// Restore.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore returns the component to a state captured by Snapshot.
	Restore(ctx context.Context, snapshot interface{}) error
}

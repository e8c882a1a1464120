package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/kbukum/dbfixture/logger"
)

// Collection shares test components across the tests of a package. Start
// it from TestMain with Run:
//
//	var fixtures = testutil.NewCollection(context.Background())
//
//	func TestMain(m *testing.M) {
//	    fixtures.Add(usersFixture)
//	    os.Exit(fixtures.Run(m))
//	}
type Collection struct {
	ctx        context.Context
	mu         sync.RWMutex
	components []TestComponent
	log        *logger.Logger
}

// NewCollection creates an empty collection.
func NewCollection(ctx context.Context) *Collection {
	return &Collection{
		ctx: ctx,
		log: logger.WithComponent("testutil"),
	}
}

// Add registers a component. Components start in the order they were
// added and stop in reverse.
func (c *Collection) Add(component TestComponent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components = append(c.components, component)
}

// Components returns all registered components.
func (c *Collection) Components() []TestComponent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]TestComponent, len(c.components))
	copy(result, c.components)
	return result
}

// Get returns the component with the given name, or nil.
func (c *Collection) Get(name string) TestComponent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, comp := range c.components {
		if comp.Name() == name {
			return comp
		}
	}
	return nil
}

// StartAll starts every component in order and stops at the first
// failure.
func (c *Collection) StartAll() error {
	for _, comp := range c.Components() {
		if err := comp.Start(c.ctx); err != nil {
			return fmt.Errorf("failed to start component %s: %w", comp.Name(), err)
		}
	}
	return nil
}

// StopAll stops every component in reverse order, continuing past
// failures, and returns all of them joined.
func (c *Collection) StopAll() error {
	comps := c.Components()

	var errs []error
	for i := len(comps) - 1; i >= 0; i-- {
		if err := comps[i].Stop(c.ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop component %s: %w", comps[i].Name(), err))
		}
	}
	return errors.Join(errs...)
}

// ResetAll resets every component in order and stops at the first
// failure.
func (c *Collection) ResetAll() error {
	for _, comp := range c.Components() {
		if err := comp.Reset(c.ctx); err != nil {
			return fmt.Errorf("failed to reset component %s: %w", comp.Name(), err)
		}
	}
	return nil
}

// Run starts the collection, runs the tests and stops the collection. It
// returns the exit code for os.Exit: non-zero when the tests fail or the
// collection cannot be started or stopped.
func (c *Collection) Run(m *testing.M) int {
	if err := c.StartAll(); err != nil {
		c.log.Error("Failed to start test components", logger.ErrorFields("start", err))
		if stopErr := c.StopAll(); stopErr != nil {
			c.log.Error("Failed to stop test components", logger.ErrorFields("stop", stopErr))
		}
		return 1
	}

	code := m.Run()

	if err := c.StopAll(); err != nil {
		c.log.Error("Failed to stop test components", logger.ErrorFields("stop", err))
		if code == 0 {
			code = 1
		}
	}
	return code
}

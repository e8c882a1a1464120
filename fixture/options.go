package fixture

import (
	"github.com/kbukum/dbfixture/logger"
	"github.com/kbukum/dbfixture/observability"
)

// Option configures a Fixture.
type Option func(*options)

type options struct {
	autoInsert bool
	name       string
	log        *logger.Logger
	metrics    *observability.FixtureMetrics
}

func defaultOptions() options {
	return options{autoInsert: true}
}

// WithoutAutoInsert leaves the fixture uninstalled after New. Call
// InsertFixtures to install it.
func WithoutAutoInsert() Option {
	return func(o *options) { o.autoInsert = false }
}

// WithName names the fixture in logs, spans, metrics and errors.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger. The global logger is used by default.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMetrics records every batch execution on m.
func WithMetrics(m *observability.FixtureMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// Package observability provides OpenTelemetry tracing and metrics for
// fixture batch execution.
//
// Library code only talks to the global providers, so nothing is exported
// unless the application installs real ones:
//
//	shutdown, err := observability.Setup(ctx, cfg)
//	defer shutdown(ctx)
//
// Every batch runs in a span named "fixture.setup" or "fixture.teardown";
// FixtureMetrics counts batches and statements and records batch duration.
package observability

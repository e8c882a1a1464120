package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/dbfixture/logger"
)

// Metric names.
const (
	MetricBatchTotal      = "fixture.batch.total"
	MetricBatchDuration   = "fixture.batch.duration"
	MetricStatementsTotal = "fixture.statements.total"
)

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns the module meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// FixtureMetrics holds the instruments recorded for every batch execution.
type FixtureMetrics struct {
	batchTotal      metric.Int64Counter
	batchDuration   metric.Float64Histogram
	statementsTotal metric.Int64Counter
}

// NewFixtureMetrics creates the fixture instruments on meter.
func NewFixtureMetrics(meter metric.Meter) (*FixtureMetrics, error) {
	batchTotal, err := meter.Int64Counter(MetricBatchTotal,
		metric.WithDescription("Number of executed fixture batches"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricBatchTotal, err)
	}

	batchDuration, err := meter.Float64Histogram(MetricBatchDuration,
		metric.WithDescription("Duration of fixture batches in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricBatchDuration, err)
	}

	statementsTotal, err := meter.Int64Counter(MetricStatementsTotal,
		metric.WithDescription("Number of statements submitted in fixture batches"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricStatementsTotal, err)
	}

	return &FixtureMetrics{
		batchTotal:      batchTotal,
		batchDuration:   batchDuration,
		statementsTotal: statementsTotal,
	}, nil
}

// RecordBatch records one batch execution. Status is "ok" or "error".
func (m *FixtureMetrics) RecordBatch(ctx context.Context, fixture, batch, status string, statements int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("fixture", fixture),
		attribute.String("batch", batch),
		attribute.String("status", status),
	)
	m.batchTotal.Add(ctx, 1, attrs)
	m.statementsTotal.Add(ctx, int64(statements), attrs)
	m.batchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("fixture", fixture),
		attribute.String("batch", batch),
	))
}

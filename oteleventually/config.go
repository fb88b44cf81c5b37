// Package oteleventually provides OpenTelemetry instrumentation,
// in the form of metrics and traces, for the library components
// that hit slow or remote paths (Event Stores and Repositories).
package oteleventually

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Migorithm/DDD/oteleventually"

type config struct {
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider
}

func (c config) meter() metric.Meter {
	return c.MeterProvider.Meter(instrumentationName)
}

func (c config) tracer() trace.Tracer {
	return c.TracerProvider.Tracer(instrumentationName)
}

// Option specifies instrumentation configuration options.
type Option interface {
	apply(*config)
}

type meterProviderOption struct{ metric.MeterProvider }

func (o meterProviderOption) apply(c *config) {
	c.MeterProvider = o.MeterProvider
}

// WithMeterProvider specifies the metric.MeterProvider instance to use for the instrumentation.
// By default, the global metric.MeterProvider is used.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return meterProviderOption{provider}
}

type tracerProviderOption struct{ trace.TracerProvider }

func (o tracerProviderOption) apply(c *config) {
	c.TracerProvider = o.TracerProvider
}

// WithTracerProvider specifies the trace.TracerProvider instance to use for the instrumentation.
// By default, the global trace.TracerProvider is used.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return tracerProviderOption{provider}
}

func newConfig(opts ...Option) config {
	c := config{
		MeterProvider:  otel.GetMeterProvider(),
		TracerProvider: otel.GetTracerProvider(),
	}

	for _, opt := range opts {
		opt.apply(&c)
	}

	return c
}

func newDurationHistogram(meter metric.Meter, name, description string) (metric.Int64Histogram, error) {
	return meter.Int64Histogram(name,
		metric.WithUnit("ms"),
		metric.WithDescription(description),
	)
}

// closeSpan ends an instrumented operation: it records the elapsed time
// on the duration histogram, marks the outcome on both the metric and
// the span, then ends the span.
func closeSpan(
	ctx context.Context,
	span trace.Span,
	duration metric.Int64Histogram,
	start time.Time,
	err error,
	attributes ...attribute.KeyValue,
) {
	attributes = append(attributes, ErrorAttribute.Bool(err != nil))
	duration.Record(ctx, time.Since(start).Milliseconds(), metric.WithAttributes(attributes...))

	if err != nil {
		span.RecordError(err)
	}

	span.End()
}

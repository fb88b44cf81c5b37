package oteleventually

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Migorithm/DDD/aggregate"
)

// Attribute keys reported by InstrumentedRepository.
const (
	ErrorAttribute            attribute.Key = "error"
	AggregateTypeAttribute    attribute.Key = "aggregate.type"
	AggregateVersionAttribute attribute.Key = "aggregate.version"
	AggregateIDAttribute      attribute.Key = "aggregate.id"
)

// InstrumentedRepository decorates an aggregate.Repository with
// OpenTelemetry traces and duration metrics.
//
// Use NewInstrumentedRepository to build one.
type InstrumentedRepository[T aggregate.Root] struct {
	aggregateType aggregate.Type
	repository    aggregate.Repository[T]

	tracer       trace.Tracer
	getDuration  metric.Int64Histogram
	saveDuration metric.Int64Histogram
}

// NewInstrumentedRepository decorates the given aggregate.Repository with
// OpenTelemetry instrumentation. The aggregate.Type name is reported as
// an attribute on every span and metric.
//
// An error is returned when the duration metrics cannot be registered
// on the configured metric.MeterProvider.
func NewInstrumentedRepository[T aggregate.Root](
	aggregateType aggregate.Type,
	repository aggregate.Repository[T],
	options ...Option,
) (*InstrumentedRepository[T], error) {
	cfg := newConfig(options...)
	meter := cfg.meter()

	getDuration, err := newDurationHistogram(meter,
		"eventually.repository.get.duration.milliseconds",
		"Duration in milliseconds of aggregate.Repository.Get operations performed.")
	if err != nil {
		return nil, fmt.Errorf("oteleventually.InstrumentedRepository: failed to register metric: %w", err)
	}

	saveDuration, err := newDurationHistogram(meter,
		"eventually.repository.save.duration.milliseconds",
		"Duration in milliseconds of aggregate.Repository.Save operations performed.")
	if err != nil {
		return nil, fmt.Errorf("oteleventually.InstrumentedRepository: failed to register metric: %w", err)
	}

	return &InstrumentedRepository[T]{
		aggregateType: aggregateType,
		repository:    repository,
		tracer:        cfg.tracer(),
		getDuration:   getDuration,
		saveDuration:  saveDuration,
	}, nil
}

// Get delegates to the decorated aggregate.Repository and reports a span
// and the operation duration, tagged with the Aggregate type name.
func (r *InstrumentedRepository[T]) Get(ctx context.Context, id uuid.UUID) (result T, err error) {
	ctx, span := r.tracer.Start(ctx, "aggregate.Repository.Get", trace.WithAttributes(
		AggregateTypeAttribute.String(r.aggregateType.Name),
		AggregateIDAttribute.String(id.String()),
	))

	start := time.Now()
	defer func() {
		closeSpan(ctx, span, r.getDuration, start, err,
			AggregateTypeAttribute.String(r.aggregateType.Name))
	}()

	result, err = r.repository.Get(ctx, id)

	return
}

// Save delegates to the decorated aggregate.Repository and reports a span
// and the operation duration, tagged with the Aggregate type name.
func (r *InstrumentedRepository[T]) Save(ctx context.Context, root T) (err error) {
	ctx, span := r.tracer.Start(ctx, "aggregate.Repository.Save", trace.WithAttributes(
		AggregateTypeAttribute.String(r.aggregateType.Name),
		AggregateIDAttribute.String(root.AggregateID().String()),
		AggregateVersionAttribute.Int64(int64(root.Version())),
	))

	start := time.Now()
	defer func() {
		closeSpan(ctx, span, r.saveDuration, start, err,
			AggregateTypeAttribute.String(r.aggregateType.Name))
	}()

	err = r.repository.Save(ctx, root)

	return
}

package oteleventually

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Migorithm/DDD/event"
	"github.com/Migorithm/DDD/version"
)

// Attribute keys reported by InstrumentedEventStore.
const (
	EventStreamIDKey              attribute.Key = "event_stream.id"
	EventStreamVersionSelectorKey attribute.Key = "event_stream.select_from_version"
	EventStreamExpectedVersionKey attribute.Key = "event_stream.expected_version"
	EventStoreNumEventsKey        attribute.Key = "event_store.num_events"
)

var _ event.Store = &InstrumentedEventStore{}

// InstrumentedEventStore decorates an event.Store with OpenTelemetry
// traces and duration metrics.
//
// Use NewInstrumentedEventStore to build one.
type InstrumentedEventStore struct {
	eventStore event.Store

	tracer         trace.Tracer
	streamDuration metric.Int64Histogram
	appendDuration metric.Int64Histogram
}

// NewInstrumentedEventStore decorates the given event.Store with
// OpenTelemetry instrumentation.
//
// An error is returned when the duration metrics cannot be registered
// on the configured metric.MeterProvider.
func NewInstrumentedEventStore(eventStore event.Store, options ...Option) (*InstrumentedEventStore, error) {
	cfg := newConfig(options...)
	meter := cfg.meter()

	streamDuration, err := newDurationHistogram(meter,
		"eventually.event_store.stream.duration.milliseconds",
		"Duration in milliseconds of event.Store.Stream operations performed.")
	if err != nil {
		return nil, fmt.Errorf("oteleventually.InstrumentedEventStore: failed to register metric: %w", err)
	}

	appendDuration, err := newDurationHistogram(meter,
		"eventually.event_store.append.duration.milliseconds",
		"Duration in milliseconds of event.Store.Append operations performed.")
	if err != nil {
		return nil, fmt.Errorf("oteleventually.InstrumentedEventStore: failed to register metric: %w", err)
	}

	return &InstrumentedEventStore{
		eventStore:     eventStore,
		tracer:         cfg.tracer(),
		streamDuration: streamDuration,
		appendDuration: appendDuration,
	}, nil
}

// Stream delegates to the decorated event.Store and reports a span and
// the operation duration.
func (s *InstrumentedEventStore) Stream(
	ctx context.Context,
	stream event.StreamWrite,
	id event.StreamID,
	selector version.Selector,
) (err error) {
	ctx, span := s.tracer.Start(ctx, "event.Store.Stream", trace.WithAttributes(
		EventStreamIDKey.String(string(id)),
		EventStreamVersionSelectorKey.Int64(int64(selector.From)),
	))

	start := time.Now()
	defer func() { closeSpan(ctx, span, s.streamDuration, start, err) }()

	err = s.eventStore.Stream(ctx, stream, id, selector)

	return
}

// Append delegates to the decorated event.Store and reports a span and
// the operation duration.
func (s *InstrumentedEventStore) Append(
	ctx context.Context,
	id event.StreamID,
	expected version.Check,
	events ...event.Envelope,
) (newVersion version.Version, err error) {
	expectedVersion := int64(-1)
	if v, ok := expected.(version.CheckExact); ok {
		expectedVersion = int64(v)
	}

	ctx, span := s.tracer.Start(ctx, "event.Store.Append", trace.WithAttributes(
		EventStreamIDKey.String(string(id)),
		EventStreamExpectedVersionKey.Int64(expectedVersion),
		EventStoreNumEventsKey.Int(len(events)),
	))

	start := time.Now()
	defer func() { closeSpan(ctx, span, s.appendDuration, start, err) }()

	newVersion, err = s.eventStore.Append(ctx, id, expected, events...)

	return
}

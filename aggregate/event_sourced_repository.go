package aggregate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Migorithm/DDD/event"
	"github.com/Migorithm/DDD/version"
)

// EventSourcedRepository provides an aggregate.Repository interface
// implementation that uses an event.Store to persist and rehydrate the
// state of an Aggregate Root.
//
// No factory is needed: the concrete Aggregate type is recovered through
// the topic recorded in the Created event at the head of the stream.
type EventSourcedRepository[T Root] struct {
	eventStore event.Store
}

// NewEventSourcedRepository returns a new EventSourcedRepository
// implementation to persist and rehydrate Aggregate Roots of type T,
// using the provided event.Store implementation.
func NewEventSourcedRepository[T Root](eventStore event.Store) EventSourcedRepository[T] {
	return EventSourcedRepository[T]{
		eventStore: eventStore,
	}
}

// Get returns the Aggregate Root with the specified id, rehydrated
// by replaying its Event Stream from the beginning.
//
// aggregate.ErrRootNotFound is returned if no Domain Events for the
// specified identity have been found.
//
// An error is returned if the underlying Event Store fails, or if an
// error occurs while folding the Event Stream back into the
// Aggregate Root state.
func (repo EventSourcedRepository[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var zeroValue T

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eventStream := make(event.Stream, 1)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := repo.eventStore.Stream(ctx, eventStream, event.StreamID(id.String()), version.SelectFromBeginning); err != nil {
			return fmt.Errorf("aggregate.EventSourcedRepository: failed while reading events from stream, %w", err)
		}

		return nil
	})

	root, err := RehydrateFromStream(eventStream)
	if err != nil && !errors.Is(err, ErrNoEvents) {
		return zeroValue, fmt.Errorf("aggregate.EventSourcedRepository: failed to rehydrate aggregate root, %w", err)
	}

	if groupErr := group.Wait(); groupErr != nil {
		return zeroValue, groupErr
	}

	if errors.Is(err, ErrNoEvents) {
		return zeroValue, ErrRootNotFound
	}

	typed, ok := root.(T)
	if !ok {
		return zeroValue, fmt.Errorf("aggregate.EventSourcedRepository: unexpected aggregate root type, %T", root)
	}

	return typed, nil
}

// Save persists the Aggregate Root to the Event Store, by appending the
// uncommitted Domain Events drained from its pending buffer, if any.
//
// The Aggregate version is used as optimistic concurrency check: a
// version.ConflictError (wrapped by the Event Store) signals a
// concurrent write on the same Event Stream.
func (repo EventSourcedRepository[T]) Save(ctx context.Context, root T) error {
	events := root.FlushRecordedEvents()
	if len(events) == 0 {
		return nil
	}

	envelopes := make([]event.Envelope, 0, len(events))
	for _, evt := range events {
		envelopes = append(envelopes, event.ToEnvelope(evt))
	}

	streamID := event.StreamID(root.AggregateID().String())
	expectedVersion := version.CheckExact(root.Version() - version.Version(len(events)))

	if _, err := repo.eventStore.Append(ctx, streamID, expectedVersion, envelopes...); err != nil {
		return fmt.Errorf("aggregate.EventSourcedRepository: failed to commit recorded events, %w", err)
	}

	return nil
}

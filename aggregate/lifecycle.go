package aggregate

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Migorithm/DDD/event"
)

// ErrNoEvents is returned when rehydrating an Aggregate Root from an
// empty Domain Event sequence.
var ErrNoEvents = errors.New("aggregate: no domain events to rehydrate from")

// Clock supplies the current time used to stamp new Domain Events.
//
// The default Clock uses time.Now; inject a fixed Clock through WithClock
// for deterministic tests.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

type options struct {
	clock Clock
}

// Option can be used to change the behavior of the Aggregate
// lifecycle operations.
type Option func(*options)

// WithClock overrides the Clock used to stamp the record time
// of new Domain Events.
func WithClock(clock Clock) Option {
	return func(opts *options) {
		if clock != nil {
			opts.clock = clock
		}
	}
}

func newOptions(opts []Option) options {
	options := options{clock: systemClock}

	for _, opt := range opts {
		opt(&options)
	}

	return options
}

// Create gives life to a new Aggregate Root of the provided Type,
// by recording a Created Domain Event carrying the provided payload.
//
// The new instance is stamped with a fresh unique identity and version 1,
// and holds the Created event in its pending buffer, ready to be
// collected for persistence through FlushRecordedEvents.
//
// Create fails only if the Type topic cannot be resolved (i.e. the Type
// has not been registered) or if the Root projection rejects the payload.
func Create(typ Type, kind Kind, opts ...Option) (Root, error) {
	options := newOptions(opts)

	evt := Created{
		Event: Event{
			AggregateID: uuid.New(),
			Version:     1,
			RecordTime:  options.clock(),
			Kind:        kind,
		},
		Topic: typ.Name,
	}

	root, err := evt.Mutate(nil)
	if err != nil {
		return nil, fmt.Errorf("aggregate.Create: failed to create %q aggregate, %w", typ.Name, err)
	}

	root.appendPending(evt)

	return root, nil
}

// RecordThat triggers a new Domain Event of the provided Kind on the
// Aggregate Root, extending its Domain Event sequence.
//
// The event is stamped with the next Aggregate version and the current
// Clock time, applied immediately (advancing the in-memory state), and
// appended to the Root's pending buffer.
//
// Triggering is all-or-nothing: if the projection fails, no event
// is recorded. The version contiguity check inside Mutate remains as the
// single enforcement point, even though the version is computed locally.
func RecordThat(root Root, kind Kind, opts ...Option) error {
	if root == nil {
		return fmt.Errorf("aggregate.RecordThat: %w", ErrNotAnAggregate)
	}

	options := newOptions(opts)

	evt := Event{
		AggregateID: root.AggregateID(),
		Version:     root.Version() + 1,
		RecordTime:  options.clock(),
		Kind:        kind,
	}

	if _, err := evt.Mutate(root); err != nil {
		return fmt.Errorf("aggregate.RecordThat: failed to record %q event, %w", evt.Name(), err)
	}

	root.appendPending(evt)

	return nil
}

// Rehydrate reconstructs an Aggregate Root state by left-folding the
// ordered Domain Event sequence provided in input, starting from the
// absence of state.
//
// The first event must be a Created event: any other ordering fails with
// ErrNotAnAggregate. Replaying the same events is deterministic and
// always yields the same state, with the final version equal to the
// number of events applied.
func Rehydrate(events ...DomainEvent) (Root, error) {
	var root Root

	for i, evt := range events {
		next, err := evt.Mutate(root)
		if err != nil {
			return nil, fmt.Errorf("aggregate.Rehydrate: failed to apply event %d of %d, %w", i+1, len(events), err)
		}

		root = next
	}

	if root == nil {
		return nil, fmt.Errorf("aggregate.Rehydrate: %w", ErrNoEvents)
	}

	return root, nil
}

// RehydrateFromStream reconstructs an Aggregate Root state from a
// read-only stream of persisted Domain Events, the same way Rehydrate
// does for an in-memory sequence.
func RehydrateFromStream(eventStream event.StreamRead) (Root, error) {
	var root Root

	for persisted := range eventStream {
		evt, ok := persisted.Message.(DomainEvent)
		if !ok {
			return nil, fmt.Errorf("aggregate.RehydrateFromStream: unexpected message type, %T", persisted.Message)
		}

		next, err := evt.Mutate(root)
		if err != nil {
			return nil, fmt.Errorf("aggregate.RehydrateFromStream: failed to apply event, %w", err)
		}

		root = next
	}

	if root == nil {
		return nil, fmt.Errorf("aggregate.RehydrateFromStream: %w", ErrNoEvents)
	}

	return root, nil
}

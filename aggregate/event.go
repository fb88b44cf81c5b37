package aggregate

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Migorithm/DDD/message"
	"github.com/Migorithm/DDD/version"
)

// All the errors returned by the mutation protocol.
var (
	// ErrNotAnAggregate is returned when an ordinary Domain Event is applied
	// to an absent prior state. It signals a corrupted or misordered
	// Event Stream, and is fatal to the operation.
	ErrNotAnAggregate = errors.New("aggregate: no prior aggregate state to apply the event to")

	// ErrAlreadyCreated is returned when a Created Domain Event is applied
	// to a prior state that already exists.
	ErrAlreadyCreated = errors.New("aggregate: prior aggregate state already exists")
)

// Kind is the event-type-specific payload carried by a Domain Event.
//
// Kind implementations should be immutable value types, with a unique
// name identifier phrased in the past tense (e.g. "AccountOpened").
type Kind interface {
	message.Message
}

// DomainEvent is an immutable record of a fact that already happened
// to one Aggregate, used as the unit of state change.
//
// This is a sealed interface: the only two variants are aggregate.Event
// for ordinary Domain Events, and aggregate.Created for the event that
// gives life to a new Aggregate Root. Domains customize behavior through
// the Kind payload and the Root.Apply method, not through new variants.
type DomainEvent interface {
	message.Message

	// Mutate produces the next Aggregate Root state by applying the
	// Domain Event to the prior state provided in input, or to the
	// absence of state (nil) for creation events.
	Mutate(prior Root) (Root, error)

	isDomainEvent()
}

var (
	_ DomainEvent = Event{}
	_ DomainEvent = Created{}
)

// Event is the ordinary Domain Event record.
//
// Once constructed, none of its fields may change: construction
// is the only write.
type Event struct {
	// AggregateID is the identity of the Aggregate this event belongs to.
	AggregateID uuid.UUID

	// Version is the version the Aggregate will have after this event
	// is applied. It must be equal to the prior version + 1.
	Version version.Version

	// RecordTime is the creation time of the event, copied onto the
	// Aggregate Root as its modified time on apply.
	RecordTime time.Time

	// Kind is the event-type-specific payload.
	Kind Kind
}

// Name implements message.Message, delegating to the event payload.
func (evt Event) Name() string { return evt.Kind.Name() }

func (Event) isDomainEvent() {}

// Mutate applies the Domain Event to the prior Aggregate Root state,
// returning the same (mutated) instance.
//
// ErrNotAnAggregate is returned when the prior state is absent.
// A version.ConflictError is returned when the event version is not
// contiguous with the prior state version. Both checks run strictly
// before any state mutation: a failed Mutate leaves the prior
// state untouched, save for a failure of the Root.Apply projection itself.
func (evt Event) Mutate(prior Root) (Root, error) {
	if prior == nil {
		return nil, fmt.Errorf("aggregate.Event: cannot apply %q event, %w", evt.Name(), ErrNotAnAggregate)
	}

	if expected := prior.Version() + 1; evt.Version != expected {
		return nil, fmt.Errorf("aggregate.Event: cannot apply %q event, %w", evt.Name(), version.ConflictError{
			Expected: expected,
			Actual:   evt.Version,
		})
	}

	if err := prior.Apply(evt.Kind); err != nil {
		return nil, fmt.Errorf("aggregate.Event: failed to apply %q event, %w", evt.Name(), err)
	}

	prior.advanceTo(evt.Version, evt.RecordTime)

	return prior, nil
}

// Created is the Domain Event variant used exactly once per Aggregate
// lifetime, recording the creation of the Aggregate itself.
type Created struct {
	Event

	// Topic is a stable, resolvable reference to the concrete Aggregate
	// type, recorded so that generic replay machinery can recover the
	// type without knowing it in advance.
	Topic string
}

// Mutate constructs a brand-new Aggregate Root instance from the event,
// resolving the concrete type through the topic registry.
//
// The prior state must be absent (nil): ErrAlreadyCreated is returned
// otherwise. An UnresolvedTopicError is returned when the recorded topic
// has no registered Aggregate type, which usually signals a deployment
// mismatch between the code and the Event Store contents.
func (evt Created) Mutate(prior Root) (Root, error) {
	if prior != nil {
		return nil, fmt.Errorf("aggregate.Created: cannot apply %q event, %w", evt.Name(), ErrAlreadyCreated)
	}

	// Creation always establishes version 1. Anything else recorded in the
	// event means the stream is corrupted.
	if evt.Version != 1 {
		return nil, fmt.Errorf("aggregate.Created: cannot apply %q event, %w", evt.Name(), version.ConflictError{
			Expected: 1,
			Actual:   evt.Version,
		})
	}

	typ, err := DefaultRegistry.Resolve(evt.Topic)
	if err != nil {
		return nil, fmt.Errorf("aggregate.Created: cannot apply %q event, %w", evt.Name(), err)
	}

	root := typ.Factory()
	root.init(evt.AggregateID, evt.Version, evt.RecordTime)

	if err := root.Apply(evt.Kind); err != nil {
		return nil, fmt.Errorf("aggregate.Created: failed to apply %q event, %w", evt.Name(), err)
	}

	return root, nil
}

package aggregate

import (
	"time"

	"github.com/google/uuid"

	"github.com/Migorithm/DDD/version"
)

// Root is the interface describing an Aggregate Root instance.
//
// This interface should be implemented by your Aggregate Root types.
// Make sure your Aggregate Root types embed the aggregate.BaseRoot type
// to complete the implementation of this interface.
type Root interface {
	// AggregateID returns the Aggregate Root identifier,
	// assigned once at creation time.
	AggregateID() uuid.UUID

	// Version returns the current Aggregate Root version.
	// Versions start from 1 on creation and increase by exactly 1
	// for each Domain Event applied.
	Version() version.Version

	// ModifiedAt returns the record time of the most recently
	// applied Domain Event.
	ModifiedAt() time.Time

	// Apply projects the event-specific payload of a Domain Event onto
	// the Aggregate Root state, by causing a state change in the instance.
	//
	// Implementors should use pointer semantics on the method receiver,
	// and restrict the implementation to domain field updates only:
	// version and modified-time bookkeeping is performed by the
	// mutation protocol and cannot be bypassed here.
	//
	// This method should be free of side effects beyond the state change,
	// which is why it does not receive a context.Context instance.
	Apply(kind Kind) error

	// FlushRecordedEvents drains and returns the Domain Events recorded
	// on this Aggregate Root but not yet persisted, oldest first.
	//
	// Once drained, the pending buffer is empty: a second call with
	// no interleaving operation returns nil.
	FlushRecordedEvents() []DomainEvent

	init(id uuid.UUID, v version.Version, at time.Time)
	advanceTo(v version.Version, at time.Time)
	appendPending(events ...DomainEvent)
}

// BaseRoot segregates and completes the aggregate.Root interface implementation
// when embedded to a user-defined Aggregate Root type.
//
// BaseRoot provides the common traits of an Aggregate Root: identity,
// version and modified-time bookkeeping, and the buffer of recorded
// but not-yet-persisted Domain Events.
type BaseRoot struct {
	id         uuid.UUID
	version    version.Version
	modifiedAt time.Time
	pending    []DomainEvent
}

// AggregateID returns the Aggregate Root identifier.
func (br BaseRoot) AggregateID() uuid.UUID { return br.id }

// Version returns the current version of the Aggregate Root instance.
func (br BaseRoot) Version() version.Version { return br.version }

// ModifiedAt returns the record time of the last Domain Event applied.
func (br BaseRoot) ModifiedAt() time.Time { return br.modifiedAt }

// FlushRecordedEvents returns the list of uncommitted, recorded
// Domain Events from the Aggregate Root instance, and empties
// the internal buffer.
func (br *BaseRoot) FlushRecordedEvents() []DomainEvent {
	flushed := br.pending
	br.pending = nil

	return flushed
}

func (br *BaseRoot) init(id uuid.UUID, v version.Version, at time.Time) {
	br.id = id
	br.version = v
	br.modifiedAt = at
}

func (br *BaseRoot) advanceTo(v version.Version, at time.Time) {
	br.version = v
	br.modifiedAt = at
}

func (br *BaseRoot) appendPending(events ...DomainEvent) {
	br.pending = append(br.pending, events...)
}

package event

import (
	"context"
	"sync"

	"github.com/Migorithm/DDD/version"
)

// TrackingEventStore decorates an event.Appender to keep a record of every
// Event successfully committed through it.
//
// Useful for test assertions on the side effects of a command.
type TrackingEventStore struct {
	Appender

	mx       sync.RWMutex
	recorded []Persisted
}

// NewTrackingEventStore decorates the given Appender to capture the Events
// appended through it.
func NewTrackingEventStore(appender Appender) *TrackingEventStore {
	return &TrackingEventStore{Appender: appender}
}

// Recorded returns the Events committed through this store so far,
// in commit order.
func (s *TrackingEventStore) Recorded() []Persisted {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return s.recorded
}

// Append forwards the call to the decorated Appender and, when the append
// succeeds, records the committed Events with their assigned versions.
func (s *TrackingEventStore) Append(
	ctx context.Context,
	id StreamID,
	expected version.Check,
	events ...Envelope,
) (version.Version, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	newVersion, err := s.Appender.Append(ctx, id, expected, events...)
	if err != nil {
		return newVersion, err
	}

	firstVersion := newVersion - version.Version(len(events)) + 1

	for i, evt := range events {
		s.recorded = append(s.recorded, Persisted{
			StreamID: id,
			Version:  firstVersion + version.Version(i),
			Envelope: evt,
		})
	}

	return newVersion, nil
}

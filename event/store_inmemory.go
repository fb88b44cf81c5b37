package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/Migorithm/DDD/version"
)

var _ Store = new(InMemoryStore)

// InMemoryStore is a thread-safe event.Store implementation backed by
// a plain in-memory map, keyed by Event Stream id.
//
// Useful for tests and local development.
type InMemoryStore struct {
	mx      sync.RWMutex
	streams map[StreamID][]Envelope
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		streams: make(map[StreamID][]Envelope),
	}
}

// Stream writes the committed events of the requested Event Stream onto
// the provided channel, starting from the version pointed at by selector.
//
// The call is synchronous: it returns once every selected Event has been
// written to the channel, or as soon as the context gets canceled. Context
// cancellation is the only failure mode.
func (s *InMemoryStore) Stream(
	ctx context.Context,
	eventStream StreamWrite,
	id StreamID,
	selector version.Selector,
) error {
	s.mx.RLock()
	defer s.mx.RUnlock()
	defer close(eventStream)

	events, ok := s.streams[id]
	if !ok {
		return nil
	}

	for i, evt := range events {
		eventVersion := version.Version(i) + 1
		if eventVersion < selector.From {
			continue
		}

		select {
		case eventStream <- Persisted{
			StreamID: id,
			Version:  eventVersion,
			Envelope: evt,
		}:
		case <-ctx.Done():
			return fmt.Errorf("event.InMemoryStore: context canceled while streaming, %w", ctx.Err())
		}
	}

	return nil
}

// Append adds the given Domain Events to the requested Event Stream and
// returns the new Event Stream version.
//
// Pass version.CheckExact with the last known Event Stream version to enable
// Optimistic Concurrency Control on the append, or version.Any to skip
// the version check entirely.
//
// A version.ConflictError is returned when the expected version does not
// match the current version of the Event Stream.
func (s *InMemoryStore) Append(
	_ context.Context,
	id StreamID,
	expected version.Check,
	events ...Envelope,
) (version.Version, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	currentVersion := version.Version(len(s.streams[id]))

	if v, ok := expected.(version.CheckExact); ok && version.Version(v) != currentVersion {
		return 0, fmt.Errorf("event.InMemoryStore: failed to append events, %w", version.ConflictError{
			Expected: version.Version(v),
			Actual:   currentVersion,
		})
	}

	s.streams[id] = append(s.streams[id], events...)

	return version.Version(len(s.streams[id])), nil
}

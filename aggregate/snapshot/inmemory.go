package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Migorithm/DDD/version"
)

var _ Store = &InMemoryStore{}

// InMemoryStore is a map-based, thread-safe in-memory Snapshot store.
//
// Since there is no entry eviction, it is suggested to use this store
// only for test scenarios.
type InMemoryStore struct {
	mx                     sync.RWMutex
	snapshotsByAggregateID map[uuid.UUID]Snapshot
}

// NewInMemoryStore returns a fresh new instance of an InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		snapshotsByAggregateID: make(map[uuid.UUID]Snapshot),
	}
}

// Record adds or overwrites the previous Aggregate Root state in the store.
// This operation cannot fail.
func (s *InMemoryStore) Record(_ context.Context, id uuid.UUID, newVersion version.Version, state any) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	s.snapshotsByAggregateID[id] = Snapshot{
		Version:    newVersion,
		State:      state,
		RecordedAt: time.Now().UTC(),
	}

	return nil
}

// Get returns the latest Snapshot recorded for the given Aggregate id.
// ErrNotFound is returned if no state has been committed to the store yet.
func (s *InMemoryStore) Get(_ context.Context, id uuid.UUID) (Snapshot, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	if snap, ok := s.snapshotsByAggregateID[id]; ok {
		return snap, nil
	}

	return Snapshot{}, ErrNotFound
}

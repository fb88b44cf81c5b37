package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Migorithm/DDD/version"
)

// ErrNotFound is returned by a snapshot.Getter when no snapshot
// has been found in the store for the requested Aggregate Root.
var ErrNotFound = errors.New("snapshot: entry not found")

// Snapshot represents the state of an Aggregate Root
// at a specific version, as found in the store.
type Snapshot struct {
	Version    version.Version `json:"version"`
	State      any             `json:"state"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// Recorder is used to record Snapshots to a durable store.
type Recorder interface {
	Record(ctx context.Context, id uuid.UUID, newVersion version.Version, state any) error
}

// Getter is used to retrieve the most recent Snapshot from a durable store.
type Getter interface {
	Get(ctx context.Context, id uuid.UUID) (Snapshot, error)
}

// Store is both a Recorder and a Getter of Snapshots.
type Store interface {
	Recorder
	Getter
}

package aggregate

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrRootNotFound is returned when the Aggregate Root requested
// through a Repository is not found.
var ErrRootNotFound = errors.New("aggregate: root not found")

// Getter is an Aggregate Repository trait used to fetch
// an Aggregate Root instance by its identity.
type Getter[T Root] interface {
	Get(ctx context.Context, id uuid.UUID) (T, error)
}

// Saver is an Aggregate Repository trait used to persist the latest
// state of an Aggregate Root instance.
type Saver[T Root] interface {
	Save(ctx context.Context, root T) error
}

// Repository is the interface used to fetch and persist Aggregate Root
// instances from and to some storage layer.
type Repository[T Root] interface {
	Getter[T]
	Saver[T]
}

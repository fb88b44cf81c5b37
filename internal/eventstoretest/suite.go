// Package eventstoretest exposes a common integration test suite for
// event.Store and aggregate.Repository implementations.
//
// Only people implementing an event.Store or aggregate.Repository
// implementation should use this package.
package eventstoretest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Migorithm/DDD/aggregate"
	"github.com/Migorithm/DDD/event"
	"github.com/Migorithm/DDD/internal/account"
	"github.com/Migorithm/DDD/version"
)

// A fixed clock keeps record times free of monotonic clock readings,
// which would break deep equality after a serialization round trip.
var fixedTime = time.Date(2020, 7, 14, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func toEnvelopes(events []aggregate.DomainEvent) []event.Envelope {
	envelopes := make([]event.Envelope, 0, len(events))
	for _, evt := range events {
		envelopes = append(envelopes, event.ToEnvelope(evt))
	}

	return envelopes
}

// EventStore returns an executable testing suite running on the event.Store
// value provided in input.
func EventStore(eventStore event.Store) func(t *testing.T) {
	return func(t *testing.T) {
		ctx := context.Background()

		// Testing the Event-sourced repository implementation, which indirectly
		// tests the Event Store instance.
		AggregateRepository(aggregate.NewEventSourcedRepository[*account.Account](eventStore))(t)

		t.Run("append works when used with version.CheckAny", func(t *testing.T) {
			acc, err := account.Open("Dani Ross", "dani@ross.com", aggregate.WithClock(fixedClock))
			require.NoError(t, err)

			require.NoError(t, acc.AppendTransaction(20_00, aggregate.WithClock(fixedClock)))

			eventsToCommit := acc.FlushRecordedEvents()
			expectedVersion := version.Version(len(eventsToCommit))

			newVersion, err := eventStore.Append(
				ctx,
				event.StreamID(acc.AggregateID().String()),
				version.Any,
				toEnvelopes(eventsToCommit)...,
			)

			require.NoError(t, err)
			require.Equal(t, expectedVersion, newVersion)

			// Now let's update the Account event stream once more.

			require.NoError(t, acc.AppendTransaction(-5_00, aggregate.WithClock(fixedClock)))

			newEventsToCommit := acc.FlushRecordedEvents()
			expectedVersion += version.Version(len(newEventsToCommit))

			newVersion, err = eventStore.Append(
				ctx,
				event.StreamID(acc.AggregateID().String()),
				version.Any,
				toEnvelopes(newEventsToCommit)...,
			)

			require.NoError(t, err)
			require.Equal(t, expectedVersion, newVersion)
		})
	}
}

// AggregateRepository returns an executable testing suite running on the
// aggregate.Repository value provided in input.
func AggregateRepository(repository aggregate.Repository[*account.Account]) func(t *testing.T) {
	return func(t *testing.T) {
		ctx := context.Background()

		t.Run("it can load and save aggregates from the database", func(t *testing.T) {
			_, err := repository.Get(ctx, uuid.New())
			if !assert.ErrorIs(t, err, aggregate.ErrRootNotFound) {
				return
			}

			acc, err := account.Open("John Doe", "john@doe.com", aggregate.WithClock(fixedClock))
			if !assert.NoError(t, err) {
				return
			}

			require.NoError(t, acc.AppendTransaction(10_00, aggregate.WithClock(fixedClock)))

			if err := repository.Save(ctx, acc); !assert.NoError(t, err) {
				return
			}

			got, err := repository.Get(ctx, acc.AggregateID())
			assert.NoError(t, err)
			assert.Equal(t, acc, got)
		})

		t.Run("optimistic locking of aggregates is also working fine", func(t *testing.T) {
			acc, err := account.Open("Jane Doe", "jane@doe.com", aggregate.WithClock(fixedClock))
			require.NoError(t, err)

			require.NoError(t, repository.Save(ctx, acc))

			// Load two copies of the same Account, and make them advance
			// the same Event Stream concurrently.
			first, err := repository.Get(ctx, acc.AggregateID())
			require.NoError(t, err)

			second, err := repository.Get(ctx, acc.AggregateID())
			require.NoError(t, err)

			require.NoError(t, first.AppendTransaction(10_00, aggregate.WithClock(fixedClock)))
			require.NoError(t, second.AppendTransaction(25_00, aggregate.WithClock(fixedClock)))

			require.NoError(t, repository.Save(ctx, first))

			err = repository.Save(ctx, second)

			expectedErr := version.ConflictError{
				Expected: 1,
				Actual:   2,
			}

			var conflictErr version.ConflictError
			assert.ErrorAs(t, err, &conflictErr)
			assert.Equal(t, expectedErr, conflictErr)
		})
	}
}

package aggregate_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Migorithm/DDD/aggregate"
	"github.com/Migorithm/DDD/internal/account"
	"github.com/Migorithm/DDD/version"
)

var now = time.Date(2020, 7, 14, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

func TestRoot(t *testing.T) {
	t.Run("create new aggregate root", func(t *testing.T) {
		acc, err := account.Open("John Doe", "john@doe.com", aggregate.WithClock(fixedClock))
		require.NoError(t, err)

		assert.Equal(t, version.Version(1), acc.Version())
		assert.Equal(t, now, acc.ModifiedAt())

		expectedEvents := []aggregate.DomainEvent{
			aggregate.Created{
				Event: aggregate.Event{
					AggregateID: acc.AggregateID(),
					Version:     1,
					RecordTime:  now,
					Kind: account.Opened{
						FullName:     "John Doe",
						EmailAddress: "john@doe.com",
					},
				},
				Topic: "Account",
			},
		}

		assert.Equal(t, expectedEvents, acc.FlushRecordedEvents())
	})

	t.Run("create new aggregate root with invalid fields", func(t *testing.T) {
		acc, err := account.Open("", "john@doe.com")
		assert.ErrorIs(t, err, account.ErrInvalidFullName)
		assert.Nil(t, acc)
	})

	t.Run("each creation establishes a fresh identity", func(t *testing.T) {
		first, err := account.Open("John Doe", "john@doe.com")
		require.NoError(t, err)

		second, err := account.Open("John Doe", "john@doe.com")
		require.NoError(t, err)

		assert.NotEqual(t, first.AggregateID(), second.AggregateID())
	})

	t.Run("update an existing aggregate root", func(t *testing.T) {
		acc, err := account.Open("John Doe", "john@doe.com", aggregate.WithClock(fixedClock))
		require.NoError(t, err)
		acc.FlushRecordedEvents() // NOTE: flushing previously-recorded events to simulate fetching from a repository.

		require.NoError(t, acc.AppendTransaction(10_00, aggregate.WithClock(fixedClock)))

		expectedEvents := []aggregate.DomainEvent{
			aggregate.Event{
				AggregateID: acc.AggregateID(),
				Version:     2,
				RecordTime:  now,
				Kind:        account.TransactionAppended{Amount: 10_00},
			},
		}

		assert.Equal(t, expectedEvents, acc.FlushRecordedEvents())
		assert.Equal(t, version.Version(2), acc.Version())
	})

	t.Run("flushing recorded events drains the buffer", func(t *testing.T) {
		acc, err := account.Open("John Doe", "john@doe.com")
		require.NoError(t, err)

		assert.Len(t, acc.FlushRecordedEvents(), 1)
		assert.Nil(t, acc.FlushRecordedEvents())
	})

	t.Run("a failed command records no event", func(t *testing.T) {
		acc, err := account.Open("John Doe", "john@doe.com")
		require.NoError(t, err)
		acc.FlushRecordedEvents()

		require.ErrorIs(t, acc.AppendTransaction(-10_00), account.ErrInsufficientFunds)

		assert.Nil(t, acc.FlushRecordedEvents())
		assert.Equal(t, version.Version(1), acc.Version())
	})
}

func TestRehydrate(t *testing.T) {
	id := uuid.New()

	domainEvents := []aggregate.DomainEvent{
		aggregate.Created{
			Event: aggregate.Event{
				AggregateID: id,
				Version:     1,
				RecordTime:  now,
				Kind: account.Opened{
					FullName:     "John Doe",
					EmailAddress: "john@doe.com",
				},
			},
			Topic: "Account",
		},
		aggregate.Event{
			AggregateID: id,
			Version:     2,
			RecordTime:  now.Add(time.Minute),
			Kind:        account.TransactionAppended{Amount: 10_00},
		},
		aggregate.Event{
			AggregateID: id,
			Version:     3,
			RecordTime:  now.Add(2 * time.Minute),
			Kind:        account.TransactionAppended{Amount: -3_00},
		},
	}

	t.Run("rehydrates the aggregate root from its event stream", func(t *testing.T) {
		root, err := aggregate.Rehydrate(domainEvents...)
		require.NoError(t, err)

		acc, ok := root.(*account.Account)
		require.True(t, ok)

		assert.Equal(t, id, acc.AggregateID())
		assert.Equal(t, version.Version(3), acc.Version())
		assert.Equal(t, now.Add(2*time.Minute), acc.ModifiedAt())
		assert.Equal(t, "John Doe", acc.FullName())
		assert.Equal(t, int64(7_00), acc.Balance())
		assert.Nil(t, acc.FlushRecordedEvents())
	})

	t.Run("rehydration is deterministic", func(t *testing.T) {
		first, err := aggregate.Rehydrate(domainEvents...)
		require.NoError(t, err)

		second, err := aggregate.Rehydrate(domainEvents...)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("rehydrating recorded events yields the live aggregate state", func(t *testing.T) {
		acc, err := account.Open("John Doe", "john@doe.com", aggregate.WithClock(fixedClock))
		require.NoError(t, err)
		require.NoError(t, acc.AppendTransaction(10_00, aggregate.WithClock(fixedClock)))
		require.NoError(t, acc.SetOverdraftLimit(5_00, aggregate.WithClock(fixedClock)))

		recorded := acc.FlushRecordedEvents()
		require.Len(t, recorded, 3)

		got, err := aggregate.Rehydrate(recorded...)
		require.NoError(t, err)

		assert.Equal(t, acc, got)
	})

	t.Run("fails on an empty event stream", func(t *testing.T) {
		_, err := aggregate.Rehydrate()
		assert.ErrorIs(t, err, aggregate.ErrNoEvents)
	})

	t.Run("fails when the first event is not a creation event", func(t *testing.T) {
		_, err := aggregate.Rehydrate(domainEvents[1:]...)
		assert.ErrorIs(t, err, aggregate.ErrNotAnAggregate)
	})

	t.Run("fails when a creation event appears mid-stream", func(t *testing.T) {
		_, err := aggregate.Rehydrate(domainEvents[0], domainEvents[0])
		assert.ErrorIs(t, err, aggregate.ErrAlreadyCreated)
	})

	t.Run("fails when the event versions are not contiguous", func(t *testing.T) {
		_, err := aggregate.Rehydrate(domainEvents[0], domainEvents[2])

		var conflictErr version.ConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Equal(t, version.ConflictError{Expected: 2, Actual: 3}, conflictErr)
	})

	t.Run("fails when the creation event does not declare version 1", func(t *testing.T) {
		evt := domainEvents[0].(aggregate.Created)
		evt.Version = 2

		_, err := aggregate.Rehydrate(evt)

		var conflictErr version.ConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Equal(t, version.ConflictError{Expected: 1, Actual: 2}, conflictErr)
	})

	t.Run("fails when the recorded topic has no registered type", func(t *testing.T) {
		evt := domainEvents[0].(aggregate.Created)
		evt.Topic = "Acount"

		_, err := aggregate.Rehydrate(evt)

		var topicErr aggregate.UnresolvedTopicError
		require.ErrorAs(t, err, &topicErr)
		assert.Equal(t, "Acount", topicErr.Topic)
	})

	t.Run("a failed rehydration leaves the prior state untouched", func(t *testing.T) {
		root, err := aggregate.Rehydrate(domainEvents[0], domainEvents[1])
		require.NoError(t, err)

		_, err = domainEvents[1].Mutate(root)
		require.Error(t, err)

		var conflictErr version.ConflictError
		assert.ErrorAs(t, err, &conflictErr)

		acc := root.(*account.Account)
		assert.Equal(t, version.Version(2), acc.Version())
		assert.Equal(t, int64(10_00), acc.Balance())
	})
}

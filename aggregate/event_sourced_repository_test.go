package aggregate_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Migorithm/DDD/aggregate"
	"github.com/Migorithm/DDD/event"
	"github.com/Migorithm/DDD/internal/account"
	"github.com/Migorithm/DDD/version"
)

func TestEventSourcedRepository(t *testing.T) {
	ctx := context.Background()
	eventStore := event.NewInMemoryStore()
	accountRepository := aggregate.NewEventSourcedRepository[*account.Account](eventStore)

	_, err := accountRepository.Get(ctx, uuid.New())
	require.ErrorIs(t, err, aggregate.ErrRootNotFound)

	acc, err := account.Open("John Doe", "john@doe.com", aggregate.WithClock(fixedClock))
	require.NoError(t, err)
	require.NoError(t, acc.AppendTransaction(10_00, aggregate.WithClock(fixedClock)))

	require.NoError(t, accountRepository.Save(ctx, acc))

	got, err := accountRepository.Get(ctx, acc.AggregateID())
	require.NoError(t, err)
	assert.Equal(t, acc, got)

	t.Run("saving with no recorded events is a no-op", func(t *testing.T) {
		require.NoError(t, accountRepository.Save(ctx, got))
	})

	t.Run("concurrent writes on the same event stream conflict", func(t *testing.T) {
		first, err := accountRepository.Get(ctx, acc.AggregateID())
		require.NoError(t, err)

		second, err := accountRepository.Get(ctx, acc.AggregateID())
		require.NoError(t, err)

		require.NoError(t, first.AppendTransaction(5_00, aggregate.WithClock(fixedClock)))
		require.NoError(t, second.AppendTransaction(7_00, aggregate.WithClock(fixedClock)))

		require.NoError(t, accountRepository.Save(ctx, first))

		err = accountRepository.Save(ctx, second)

		var conflictErr version.ConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Equal(t, version.ConflictError{Expected: 2, Actual: 3}, conflictErr)
	})
}

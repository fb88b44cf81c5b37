package account_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Migorithm/DDD/aggregate"
	"github.com/Migorithm/DDD/internal/account"
	"github.com/Migorithm/DDD/version"
)

var now = time.Date(2020, 7, 14, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

func TestAccount(t *testing.T) {
	t.Run("open a new account", func(t *testing.T) {
		acc, err := account.Open("John Doe", "john@doe.com", aggregate.WithClock(fixedClock))
		require.NoError(t, err)

		assert.Equal(t, "John Doe", acc.FullName())
		assert.Equal(t, "john@doe.com", acc.EmailAddress())
		assert.Equal(t, int64(0), acc.Balance())
		assert.Equal(t, int64(0), acc.OverdraftLimit())
		assert.False(t, acc.IsClosed())
		assert.Equal(t, version.Version(1), acc.Version())
	})

	t.Run("open an account with invalid holder details", func(t *testing.T) {
		_, err := account.Open("", "john@doe.com")
		assert.ErrorIs(t, err, account.ErrInvalidFullName)

		_, err = account.Open("John Doe", "")
		assert.ErrorIs(t, err, account.ErrInvalidEmailAddress)
	})

	t.Run("an account lifetime", func(t *testing.T) {
		acc, err := account.Open("John Doe", "john@doe.com", aggregate.WithClock(fixedClock))
		require.NoError(t, err)

		require.NoError(t, acc.AppendTransaction(10_00, aggregate.WithClock(fixedClock)))
		require.NoError(t, acc.AppendTransaction(10_00, aggregate.WithClock(fixedClock)))
		require.NoError(t, acc.AppendTransaction(-15_00, aggregate.WithClock(fixedClock)))
		assert.Equal(t, int64(5_00), acc.Balance())

		// The balance cannot go below the overdraft limit, which starts at zero.
		err = acc.AppendTransaction(-15_00, aggregate.WithClock(fixedClock))
		assert.ErrorIs(t, err, account.ErrInsufficientFunds)
		assert.Equal(t, int64(5_00), acc.Balance())

		require.NoError(t, acc.SetOverdraftLimit(100_00, aggregate.WithClock(fixedClock)))
		require.NoError(t, acc.AppendTransaction(-15_00, aggregate.WithClock(fixedClock)))
		assert.Equal(t, int64(-10_00), acc.Balance())

		require.NoError(t, acc.Close(aggregate.WithClock(fixedClock)))
		assert.True(t, acc.IsClosed())

		// A closed account accepts no more transactions.
		assert.ErrorIs(t, acc.AppendTransaction(10_00), account.ErrClosed)
		assert.ErrorIs(t, acc.SetOverdraftLimit(50_00), account.ErrClosed)

		recorded := acc.FlushRecordedEvents()
		assert.Len(t, recorded, 7)
		assert.Equal(t, version.Version(7), acc.Version())

		// The recorded event stream rebuilds the exact same state.
		got, err := aggregate.Rehydrate(recorded...)
		require.NoError(t, err)
		assert.Equal(t, acc, got)
	})

	t.Run("the overdraft limit must not be negative", func(t *testing.T) {
		acc, err := account.Open("John Doe", "john@doe.com")
		require.NoError(t, err)

		assert.ErrorIs(t, acc.SetOverdraftLimit(-1), account.ErrNegativeOverdraftLimit)
	})
}

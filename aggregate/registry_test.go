package aggregate_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Migorithm/DDD/aggregate"
	"github.com/Migorithm/DDD/internal/account"
)

func TestRegistry(t *testing.T) {
	t.Run("registers and resolves an aggregate type", func(t *testing.T) {
		registry := aggregate.NewRegistry()

		require.NoError(t, registry.Register(account.Type))

		typ, err := registry.Resolve("Account")
		require.NoError(t, err)
		assert.Equal(t, "Account", typ.Name)
		assert.IsType(t, new(account.Account), typ.Factory())
	})

	t.Run("rejects a type with no name", func(t *testing.T) {
		registry := aggregate.NewRegistry()

		err := registry.Register(aggregate.Type{
			Factory: func() aggregate.Root { return new(account.Account) },
		})

		assert.Error(t, err)
	})

	t.Run("rejects a type with no factory", func(t *testing.T) {
		registry := aggregate.NewRegistry()

		err := registry.Register(aggregate.Type{Name: "Account"})
		assert.Error(t, err)
	})

	t.Run("rejects duplicate registrations", func(t *testing.T) {
		registry := aggregate.NewRegistry()

		require.NoError(t, registry.Register(account.Type))
		assert.Error(t, registry.Register(account.Type))
	})

	t.Run("fails to resolve an unregistered topic", func(t *testing.T) {
		registry := aggregate.NewRegistry()

		_, err := registry.Resolve("Account")

		var topicErr aggregate.UnresolvedTopicError
		require.ErrorAs(t, err, &topicErr)
		assert.Equal(t, "Account", topicErr.Topic)
	})

	t.Run("supports concurrent resolution", func(t *testing.T) {
		registry := aggregate.NewRegistry()
		require.NoError(t, registry.Register(account.Type))

		var wg sync.WaitGroup

		for i := 0; i < 10; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := registry.Resolve("Account")
				assert.NoError(t, err)
			}()
		}

		wg.Wait()
	})
}

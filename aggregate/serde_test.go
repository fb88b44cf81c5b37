package aggregate_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Migorithm/DDD/aggregate"
	"github.com/Migorithm/DDD/internal/account"
)

func TestJSONSerde(t *testing.T) {
	id := uuid.New()

	t.Run("round-trips a creation event", func(t *testing.T) {
		evt := aggregate.Created{
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
		}

		data, err := account.EventSerde.Serialize(evt)
		require.NoError(t, err)

		got, err := account.EventSerde.Deserialize(data)
		require.NoError(t, err)
		assert.Equal(t, evt, got)
	})

	t.Run("round-trips an ordinary event", func(t *testing.T) {
		evt := aggregate.Event{
			AggregateID: id,
			Version:     2,
			RecordTime:  now,
			Kind:        account.TransactionAppended{Amount: -5_00},
		}

		data, err := account.EventSerde.Serialize(evt)
		require.NoError(t, err)

		got, err := account.EventSerde.Deserialize(data)
		require.NoError(t, err)
		assert.Equal(t, evt, got)
	})

	t.Run("round-trips an event with an empty payload", func(t *testing.T) {
		evt := aggregate.Event{
			AggregateID: id,
			Version:     5,
			RecordTime:  now,
			Kind:        account.Closed{},
		}

		data, err := account.EventSerde.Serialize(evt)
		require.NoError(t, err)

		got, err := account.EventSerde.Deserialize(data)
		require.NoError(t, err)
		assert.Equal(t, evt, got)
	})

	t.Run("fails to serialize an unexpected message type", func(t *testing.T) {
		_, err := account.EventSerde.Serialize(account.Opened{})
		assert.Error(t, err)
	})

	t.Run("fails to deserialize an unregistered event kind", func(t *testing.T) {
		limitedSerde := aggregate.MustJSONSerde(account.Opened{})

		data, err := account.EventSerde.Serialize(aggregate.Event{
			AggregateID: id,
			Version:     2,
			RecordTime:  now,
			Kind:        account.Closed{},
		})
		require.NoError(t, err)

		_, err = limitedSerde.Deserialize(data)
		assert.Error(t, err)
	})
}

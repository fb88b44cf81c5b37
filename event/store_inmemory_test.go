package event_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Migorithm/DDD/event"
	"github.com/Migorithm/DDD/version"
)

type counterIncremented struct {
	Amount int
}

func (counterIncremented) Name() string { return "CounterIncremented" }

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	const streamID event.StreamID = "test-counter"

	envelopes := event.ToEnvelopes(
		counterIncremented{Amount: 1},
		counterIncremented{Amount: 2},
		counterIncremented{Amount: 3},
	)

	t.Run("streaming an empty store yields no events", func(t *testing.T) {
		store := event.NewInMemoryStore()

		events, err := event.StreamToSlice(ctx, func(ctx context.Context, stream event.StreamWrite) error {
			return store.Stream(ctx, stream, streamID, version.SelectFromBeginning)
		})

		assert.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("append and stream back", func(t *testing.T) {
		store := event.NewInMemoryStore()

		newVersion, err := store.Append(ctx, streamID, version.CheckExact(0), envelopes...)
		require.NoError(t, err)
		assert.Equal(t, version.Version(3), newVersion)

		events, err := event.StreamToSlice(ctx, func(ctx context.Context, stream event.StreamWrite) error {
			return store.Stream(ctx, stream, streamID, version.SelectFromBeginning)
		})
		require.NoError(t, err)

		expected := []event.Persisted{
			{StreamID: streamID, Version: 1, Envelope: envelopes[0]},
			{StreamID: streamID, Version: 2, Envelope: envelopes[1]},
			{StreamID: streamID, Version: 3, Envelope: envelopes[2]},
		}

		assert.Equal(t, expected, events)
	})

	t.Run("stream from a version selector", func(t *testing.T) {
		store := event.NewInMemoryStore()

		_, err := store.Append(ctx, streamID, version.Any, envelopes...)
		require.NoError(t, err)

		events, err := event.StreamToSlice(ctx, func(ctx context.Context, stream event.StreamWrite) error {
			return store.Stream(ctx, stream, streamID, version.Selector{From: 3})
		})
		require.NoError(t, err)

		expected := []event.Persisted{
			{StreamID: streamID, Version: 3, Envelope: envelopes[2]},
		}

		assert.Equal(t, expected, events)
	})

	t.Run("version check failures return a conflict error", func(t *testing.T) {
		store := event.NewInMemoryStore()

		_, err := store.Append(ctx, streamID, version.CheckExact(0), envelopes...)
		require.NoError(t, err)

		_, err = store.Append(ctx, streamID, version.CheckExact(0), envelopes[0])

		var conflictErr version.ConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Equal(t, version.ConflictError{Expected: 0, Actual: 3}, conflictErr)
	})

	t.Run("version.Any skips the optimistic concurrency check", func(t *testing.T) {
		store := event.NewInMemoryStore()

		_, err := store.Append(ctx, streamID, version.Any, envelopes...)
		require.NoError(t, err)

		newVersion, err := store.Append(ctx, streamID, version.Any, envelopes[0])
		require.NoError(t, err)
		assert.Equal(t, version.Version(4), newVersion)
	})
}

func TestTrackingEventStore(t *testing.T) {
	ctx := context.Background()

	const streamID event.StreamID = "tracked-counter"

	store := event.NewInMemoryStore()
	trackingStore := event.NewTrackingEventStore(store)

	envelopes := event.ToEnvelopes(
		counterIncremented{Amount: 1},
		counterIncremented{Amount: 2},
	)

	_, err := trackingStore.Append(ctx, streamID, version.CheckExact(0), envelopes...)
	require.NoError(t, err)

	expected := []event.Persisted{
		{StreamID: streamID, Version: 1, Envelope: envelopes[0]},
		{StreamID: streamID, Version: 2, Envelope: envelopes[1]},
	}

	assert.Equal(t, expected, trackingStore.Recorded())
}

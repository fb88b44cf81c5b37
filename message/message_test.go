package message_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Migorithm/DDD/message"
)

type greeting string

func (greeting) Name() string { return "Greeting" }

func TestMetadata(t *testing.T) {
	t.Run("With supports nil maps", func(t *testing.T) {
		var metadata message.Metadata

		metadata = metadata.With("Key", "Value")
		assert.Equal(t, message.Metadata{"Key": "Value"}, metadata)
	})

	t.Run("Merge extends the current map", func(t *testing.T) {
		metadata := message.Metadata{"A": "1"}.
			Merge(message.Metadata{"B": "2"})

		assert.Equal(t, message.Metadata{"A": "1", "B": "2"}, metadata)
	})

	t.Run("Merge on a nil map returns the other map", func(t *testing.T) {
		var metadata message.Metadata

		assert.Equal(t, message.Metadata{"A": "1"}, metadata.Merge(message.Metadata{"A": "1"}))
	})
}

func TestEnvelope(t *testing.T) {
	envelope := message.Envelope[greeting]{
		Message:  greeting("hello"),
		Metadata: message.Metadata{"Source": "test"},
	}

	generic := envelope.ToGenericEnvelope()

	assert.Equal(t, envelope.Message, generic.Message)
	assert.Equal(t, envelope.Metadata, generic.Metadata)
}

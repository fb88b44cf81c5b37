package serde

import (
	"encoding/json"
	"fmt"
)

// NewJSONSerializer returns a SerializerFunc that marshals values of type T
// into their JSON byte representation.
func NewJSONSerializer[T any]() SerializerFunc[T, []byte] {
	return func(value T) ([]byte, error) {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("serde.JSON: failed to serialize data, %w", err)
		}

		return data, nil
	}
}

// NewJSONDeserializer returns a DeserializerFunc that unmarshals JSON bytes
// into a fresh instance of type T obtained from the factory.
//
// The factory is needed to allocate the destination value, especially
// when T uses pointer semantics.
func NewJSONDeserializer[T any](factory func() T) DeserializerFunc[T, []byte] {
	return func(data []byte) (T, error) {
		model := factory()

		if err := json.Unmarshal(data, &model); err != nil {
			var zeroValue T
			return zeroValue, fmt.Errorf("serde.JSON: failed to deserialize data, %w", err)
		}

		return model, nil
	}
}

// NewJSON returns a Serde that maps values of type T to and from
// their JSON byte representation.
func NewJSON[T any](factory func() T) Fused[T, []byte] {
	return Fuse(
		NewJSONSerializer[T](),
		NewJSONDeserializer(factory),
	)
}

package serde

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// NewProtoJSONSerializer returns a SerializerFunc that marshals Protobuf
// messages of type T into their canonical JSON representation.
func NewProtoJSONSerializer[T proto.Message]() SerializerFunc[T, []byte] {
	return func(msg T) ([]byte, error) {
		data, err := protojson.Marshal(msg)
		if err != nil {
			return nil, fmt.Errorf("serde.ProtoJSON: failed to serialize data, %w", err)
		}

		return data, nil
	}
}

// NewProtoJSONDeserializer returns a DeserializerFunc that unmarshals
// Protobuf JSON bytes into a fresh instance of type T obtained from
// the factory.
//
// The factory is needed to allocate the destination message, since
// proto.Message implementations use pointer semantics.
func NewProtoJSONDeserializer[T proto.Message](factory func() T) DeserializerFunc[T, []byte] {
	return func(data []byte) (T, error) {
		model := factory()

		if err := protojson.Unmarshal(data, model); err != nil {
			var zeroValue T
			return zeroValue, fmt.Errorf("serde.ProtoJSON: failed to deserialize data, %w", err)
		}

		return model, nil
	}
}

// NewProtoJSON returns a Serde that maps Protobuf messages of type T to
// and from their canonical JSON representation.
func NewProtoJSON[T proto.Message](factory func() T) Fused[T, []byte] {
	return Fuse(
		NewProtoJSONSerializer[T](),
		NewProtoJSONDeserializer(factory),
	)
}

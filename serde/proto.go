package serde

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// NewProtoSerializer returns a SerializerFunc that marshals Protobuf
// messages of type T into their wire-format bytes.
func NewProtoSerializer[T proto.Message]() SerializerFunc[T, []byte] {
	return func(msg T) ([]byte, error) {
		data, err := proto.Marshal(msg)
		if err != nil {
			return nil, fmt.Errorf("serde.Proto: failed to serialize data, %w", err)
		}

		return data, nil
	}
}

// NewProtoDeserializer returns a DeserializerFunc that unmarshals Protobuf
// wire-format bytes into a fresh instance of type T obtained from the factory.
//
// The factory is needed to allocate the destination message, since
// proto.Message implementations use pointer semantics.
func NewProtoDeserializer[T proto.Message](factory func() T) DeserializerFunc[T, []byte] {
	return func(data []byte) (T, error) {
		model := factory()

		if err := proto.Unmarshal(data, model); err != nil {
			var zeroValue T
			return zeroValue, fmt.Errorf("serde.Proto: failed to deserialize data, %w", err)
		}

		return model, nil
	}
}

// NewProto returns a Serde that maps Protobuf messages of type T to and
// from their wire-format bytes.
func NewProto[T proto.Message](factory func() T) Fused[T, []byte] {
	return Fuse(
		NewProtoSerializer[T](),
		NewProtoDeserializer(factory),
	)
}

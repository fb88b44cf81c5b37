// Package serde exposes generic interfaces to serialize and deserialize
// values from a Source to a Destination type, used at the boundaries
// between the domain and the persistence integrations.
package serde

// Serializer maps a Source value into its Destination representation.
type Serializer[Src any, Dst any] interface {
	Serialize(src Src) (Dst, error)
}

// SerializerFunc adapts a plain function into a Serializer.
type SerializerFunc[Src any, Dst any] func(src Src) (Dst, error)

// Serialize implements the serde.Serializer interface.
func (fn SerializerFunc[Src, Dst]) Serialize(src Src) (Dst, error) { return fn(src) }

// Deserializer maps a Destination representation back into its Source value.
type Deserializer[Src any, Dst any] interface {
	Deserialize(dst Dst) (Src, error)
}

// DeserializerFunc adapts a plain function into a Deserializer.
type DeserializerFunc[Src any, Dst any] func(dst Dst) (Src, error)

// Deserialize implements the serde.Deserializer interface.
func (fn DeserializerFunc[Src, Dst]) Deserialize(dst Dst) (Src, error) { return fn(dst) }

// Serde maps a Source type to and from a Destination representation.
type Serde[Src any, Dst any] interface {
	Serializer[Src, Dst]
	Deserializer[Src, Dst]
}

// Fused bundles independent Serializer and Deserializer implementations
// into a single Serde.
type Fused[Src any, Dst any] struct {
	Serializer[Src, Dst]
	Deserializer[Src, Dst]
}

// Fuse bundles the given Serializer and Deserializer into a Serde value.
func Fuse[Src, Dst any](serializer Serializer[Src, Dst], deserializer Deserializer[Src, Dst]) Fused[Src, Dst] {
	return Fused[Src, Dst]{
		Serializer:   serializer,
		Deserializer: deserializer,
	}
}

// BytesSerializer is a Serializer whose Destination representation
// is a byte slice.
type BytesSerializer[Src any] interface {
	Serializer[Src, []byte]
}

// BytesDeserializer is a Deserializer whose Destination representation
// is a byte slice.
type BytesDeserializer[Src any] interface {
	Deserializer[Src, []byte]
}

// Bytes is a Serde whose Destination representation is a byte slice,
// the shape expected by most durable Event Store implementations.
type Bytes[Src any] interface {
	Serde[Src, []byte]
}

// Package message exposes the generic Message type, the building block
// for every payload exchanged in the system (Domain Events in particular).
package message

// Message is a payload exchanged in the system.
//
// Every payload carries a unique name identifier, used to route
// the message back to its concrete type.
type Message interface {
	Name() string
}

// Metadata carries contextual information attached to a Message,
// not functional to the Message itself (e.g. correlation ids,
// recording timestamps).
type Metadata map[string]string

// With sets the given key to the given value, allocating the map
// if necessary, and returns the updated Metadata.
func (m Metadata) With(key, value string) Metadata {
	if m == nil {
		m = make(Metadata)
	}

	m[key] = value

	return m
}

// Merge copies all entries from other into the current map and returns it.
// A nil receiver returns other unchanged.
func (m Metadata) Merge(other Metadata) Metadata {
	if m == nil {
		return other
	}

	for k, v := range other {
		m[k] = v
	}

	return m
}

// Envelope bundles a Message together with its optional Metadata.
type Envelope[T Message] struct {
	Message  T
	Metadata Metadata
}

// GenericEnvelope is an Envelope over the Message interface, useful when
// the concrete Message type in the Envelope is not of interest.
type GenericEnvelope Envelope[Message]

// ToGenericEnvelope type-erases the Envelope into a GenericEnvelope.
func (e Envelope[T]) ToGenericEnvelope() GenericEnvelope {
	return GenericEnvelope{
		Message:  e.Message,
		Metadata: e.Metadata,
	}
}

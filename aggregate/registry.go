package aggregate

import (
	"fmt"
	"sync"
)

// UnresolvedTopicError is returned when a topic reference recorded in a
// Created Domain Event cannot be resolved to a registered Aggregate type.
type UnresolvedTopicError struct {
	Topic string
}

func (err UnresolvedTopicError) Error() string {
	return fmt.Sprintf("aggregate: unresolvable topic, %q", err.Topic)
}

// Type represents the type of an Aggregate, exposing the topic used to
// reference the Aggregate type in Created Domain Events, and a factory
// method to create new zero-valued instances, without using reflection.
type Type struct {
	// Name is the topic of the Aggregate type: a stable string reference
	// recorded inside Created events and resolved back on replay.
	// Make sure the name used is unique in your system.
	Name string

	// Factory returns a new zero-valued instance of the Aggregate type.
	// If the Aggregate implementation uses pointer semantics, return
	// a non-nil instance of the type.
	Factory func() Root
}

// Registry maps Aggregate topics to their concrete types.
//
// A Registry is safe for concurrent reads. Registration is expected
// to happen at process initialization, before any replay takes place.
type Registry struct {
	mx    sync.RWMutex
	types map[string]Type
}

// NewRegistry creates an empty aggregate type Registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]Type),
	}
}

// Register adds the Aggregate type to the Registry, keyed by its topic.
//
// An error is returned if the type has no name or factory, or if a type
// has already been registered with the same name.
func (r *Registry) Register(typ Type) error {
	if typ.Name == "" {
		return fmt.Errorf("aggregate.Registry: no topic name provided for aggregate type")
	}

	if typ.Factory == nil {
		return fmt.Errorf("aggregate.Registry: no factory provided for aggregate type %q", typ.Name)
	}

	r.mx.Lock()
	defer r.mx.Unlock()

	if _, ok := r.types[typ.Name]; ok {
		return fmt.Errorf("aggregate.Registry: aggregate type %q already registered", typ.Name)
	}

	r.types[typ.Name] = typ

	return nil
}

// Resolve performs the inverse lookup of a topic reference, returning
// the Aggregate type it was registered with.
//
// An UnresolvedTopicError is returned when no Aggregate type has been
// registered under the given topic.
func (r *Registry) Resolve(topic string) (Type, error) {
	r.mx.RLock()
	defer r.mx.RUnlock()

	typ, ok := r.types[topic]
	if !ok {
		return Type{}, UnresolvedTopicError{Topic: topic}
	}

	return typ, nil
}

// DefaultRegistry is the Registry instance used by the mutation protocol
// to resolve Created event topics.
var DefaultRegistry = NewRegistry()

// Register records the Aggregate type in the package-level DefaultRegistry.
//
// As with gob.Register, this is expected to be called from an init
// function of the package defining the Aggregate type, and panics
// on invalid or duplicate registrations.
func Register(typ Type) {
	if err := DefaultRegistry.Register(typ); err != nil {
		panic(err)
	}
}

package aggregate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/Migorithm/DDD/message"
	"github.com/Migorithm/DDD/serde"
	"github.com/Migorithm/DDD/version"
)

// Interface implementation assertion.
var _ serde.Bytes[message.Message] = new(JSONSerde)

type jsonDomainEvent struct {
	AggregateID      uuid.UUID       `json:"aggregate_id"`
	AggregateVersion version.Version `json:"aggregate_version"`
	RecordTime       time.Time       `json:"record_time"`
	AggregateTopic   string          `json:"aggregate_topic,omitempty"`
	Kind             string          `json:"kind"`
	Payload          json.RawMessage `json:"payload,omitempty"`
}

// JSONSerde is a serde.Bytes implementation that maps Domain Event records
// to a JSON representation, preserving the fields every event must
// round-trip exactly: aggregate id, version, record time and, for
// Created events, the aggregate topic.
//
// Given the current limitation of Go with generics, the only way to
// recover the payload type on deserialization is the event kind name and
// reflection, so all payload Kinds must be registered upfront.
type JSONSerde struct {
	kindNameToType map[string]reflect.Type
}

// NewJSONSerde creates a JSONSerde able to deserialize the provided
// payload Kinds.
//
// An error is returned if any of the provided Kinds is nil, or if two
// different payload types share the same kind name.
func NewJSONSerde(kinds ...Kind) (*JSONSerde, error) {
	s := &JSONSerde{
		kindNameToType: make(map[string]reflect.Type, len(kinds)),
	}

	for _, kind := range kinds {
		if kind == nil {
			return nil, fmt.Errorf("aggregate.NewJSONSerde: expected event kind, nil was provided instead")
		}

		kindName := kind.Name()
		kindType := reflect.TypeOf(kind)

		if registered, ok := s.kindNameToType[kindName]; ok && registered != kindType {
			return nil, fmt.Errorf("aggregate.NewJSONSerde: event kind %q already registered with a different type", kindName)
		}

		s.kindNameToType[kindName] = kindType
	}

	return s, nil
}

// MustJSONSerde is like NewJSONSerde, but panics on invalid registrations.
// Use it for package-level serde variables.
func MustJSONSerde(kinds ...Kind) *JSONSerde {
	s, err := NewJSONSerde(kinds...)
	if err != nil {
		panic(err)
	}

	return s
}

// Serialize implements serde.Serializer for Domain Event records.
func (s *JSONSerde) Serialize(msg message.Message) ([]byte, error) {
	var (
		record Event
		topic  string
	)

	switch evt := msg.(type) {
	case Created:
		record, topic = evt.Event, evt.Topic
	case Event:
		record = evt
	default:
		return nil, fmt.Errorf("aggregate.JSONSerde: unexpected message type, %T", msg)
	}

	payload, err := json.Marshal(record.Kind)
	if err != nil {
		return nil, fmt.Errorf("aggregate.JSONSerde: failed to serialize %q payload, %w", record.Name(), err)
	}

	data, err := json.Marshal(jsonDomainEvent{
		AggregateID:      record.AggregateID,
		AggregateVersion: record.Version,
		RecordTime:       record.RecordTime,
		AggregateTopic:   topic,
		Kind:             record.Name(),
		Payload:          payload,
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate.JSONSerde: failed to serialize %q event, %w", record.Name(), err)
	}

	return data, nil
}

// Deserialize implements serde.Deserializer for Domain Event records.
//
// The returned message is an aggregate.Created instance if the data
// carries an aggregate topic, an aggregate.Event instance otherwise.
func (s *JSONSerde) Deserialize(data []byte) (message.Message, error) {
	var jsonEvent jsonDomainEvent
	if err := json.Unmarshal(data, &jsonEvent); err != nil {
		return nil, fmt.Errorf("aggregate.JSONSerde: failed to deserialize event, %w", err)
	}

	kindType, ok := s.kindNameToType[jsonEvent.Kind]
	if !ok {
		return nil, fmt.Errorf("aggregate.JSONSerde: received unregistered event kind, %q", jsonEvent.Kind)
	}

	vp := reflect.New(kindType)
	if len(jsonEvent.Payload) > 0 {
		if err := json.Unmarshal(jsonEvent.Payload, vp.Interface()); err != nil {
			return nil, fmt.Errorf("aggregate.JSONSerde: failed to deserialize %q payload, %w", jsonEvent.Kind, err)
		}
	}

	record := Event{
		AggregateID: jsonEvent.AggregateID,
		Version:     jsonEvent.AggregateVersion,
		RecordTime:  jsonEvent.RecordTime,
		Kind:        vp.Elem().Interface().(Kind),
	}

	if jsonEvent.AggregateTopic != "" {
		return Created{Event: record, Topic: jsonEvent.AggregateTopic}, nil
	}

	return record, nil
}

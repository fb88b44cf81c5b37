// Package firestore provides an event.Store implementation backed by
// Google Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Migorithm/DDD/event"
	"github.com/Migorithm/DDD/message"
	"github.com/Migorithm/DDD/serde"
	"github.com/Migorithm/DDD/version"
)

const (
	eventsCollectionName       = "Events"
	eventStreamsCollectionName = "EventStreams"
)

// eventDocument is the Firestore representation of a single Domain Event.
// The document id is "<stream id>@{<version>}", so that concurrent appends
// of the same version fail on creation.
type eventDocument struct {
	EventStreamID string            `firestore:"event_stream_id"`
	Version       int64             `firestore:"version"`
	Type          string            `firestore:"type"`
	Metadata      map[string]string `firestore:"metadata"`
	Payload       []byte            `firestore:"payload"`
}

// eventStreamDocument tracks the latest committed version of an Event Stream,
// keyed by the stream id.
type eventStreamDocument struct {
	LastVersion int64 `firestore:"last_version"`
}

//nolint:exhaustruct // Only used for interface assertion.
var _ event.Store = EventStore{}

// EventStore is an event.Store implementation using Google Cloud Firestore
// as backing data store.
//
// Events land in the "Events" collection, while the latest version of each
// Event Stream is tracked in the "EventStreams" collection. Both collections
// are updated within the same Firestore transaction.
type EventStore struct {
	Client *firestore.Client
	Serde  serde.Bytes[message.Message]
}

func (es EventStore) events() *firestore.CollectionRef {
	return es.Client.Collection(eventsCollectionName)
}

func (es EventStore) eventStreams() *firestore.CollectionRef {
	return es.Client.Collection(eventStreamsCollectionName)
}

// Stream implements the event.Streamer interface.
func (es EventStore) Stream(
	ctx context.Context,
	stream event.StreamWrite,
	id event.StreamID,
	selector version.Selector,
) error {
	defer close(stream)

	iter := es.events().
		Where("event_stream_id", "==", string(id)).
		Where("version", ">=", selector.From).
		OrderBy("version", firestore.Asc).
		Documents(ctx)

	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("firestore.EventStore.Stream: failed while reading iterator, %w", err)
		}

		var evtDoc eventDocument
		if err := doc.DataTo(&evtDoc); err != nil {
			return fmt.Errorf("firestore.EventStore.Stream: failed to decode document %s, %w", doc.Ref.ID, err)
		}

		msg, err := es.Serde.Deserialize(evtDoc.Payload)
		if err != nil {
			return fmt.Errorf("firestore.EventStore.Stream: failed to deserialize message payload, %w", err)
		}

		stream <- event.Persisted{
			StreamID: id,
			Version:  version.Version(evtDoc.Version), //nolint:gosec // Versions are written by Append.
			Envelope: event.Envelope{
				Message:  msg,
				Metadata: evtDoc.Metadata,
			},
		}
	}
}

// currentStreamVersion reads the latest committed version of the Event Stream
// within the transaction. A missing stream document means an empty stream.
func (es EventStore) currentStreamVersion(
	tx *firestore.Transaction,
	docRef *firestore.DocumentRef,
) (version.Version, error) {
	doc, err := tx.Get(docRef)

	switch {
	case status.Code(err) == codes.NotFound:
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("firestore.EventStore.Append: failed to get stream, %w", err)
	}

	var streamDoc eventStreamDocument
	if err := doc.DataTo(&streamDoc); err != nil {
		return 0, fmt.Errorf("firestore.EventStore.Append: failed to decode stream document, %w", err)
	}

	return version.Version(streamDoc.LastVersion), nil //nolint:gosec // Versions are written by Append.
}

func (es EventStore) appendEvent(tx *firestore.Transaction, evt event.Persisted) error {
	payload, err := es.Serde.Serialize(evt.Message)
	if err != nil {
		return fmt.Errorf("firestore.EventStore.appendEvent: failed to serialize message, %w", err)
	}

	docRef := es.events().Doc(fmt.Sprintf("%s@{%d}", evt.StreamID, evt.Version))

	if err := tx.Create(docRef, eventDocument{
		EventStreamID: string(evt.StreamID),
		Version:       int64(evt.Version),
		Type:          evt.Message.Name(),
		Metadata:      evt.Metadata,
		Payload:       payload,
	}); err != nil {
		return fmt.Errorf("firestore.EventStore.appendEvent: failed to append event, %w", err)
	}

	return nil
}

// Append implements the event.Appender interface.
func (es EventStore) Append(
	ctx context.Context,
	id event.StreamID,
	expected version.Check,
	events ...event.Envelope,
) (version.Version, error) {
	var newVersion version.Version

	err := es.Client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		streamDocRef := es.eventStreams().Doc(string(id))

		currentVersion, err := es.currentStreamVersion(tx, streamDocRef)
		if err != nil {
			return err
		}

		if v, ok := expected.(version.CheckExact); ok && version.Version(v) != currentVersion {
			return fmt.Errorf("firestore.EventStore.Append: version check failed, %w", version.ConflictError{
				Expected: version.Version(v),
				Actual:   currentVersion,
			})
		}

		newVersion = currentVersion + version.Version(len(events)) //nolint:gosec // Event counts are small.

		if err := tx.Set(streamDocRef, eventStreamDocument{
			LastVersion: int64(newVersion),
		}); err != nil {
			return fmt.Errorf("firestore.EventStore.Append: failed to update event stream, %w", err)
		}

		for i, evt := range events {
			if err := es.appendEvent(tx, event.Persisted{
				StreamID: id,
				Version:  currentVersion + version.Version(i) + 1, //nolint:gosec // Event counts are small.
				Envelope: evt,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		var conflictErr version.ConflictError
		if errors.As(err, &conflictErr) {
			return 0, fmt.Errorf("firestore.EventStore.Append: transaction failed, %w", conflictErr)
		}

		return 0, fmt.Errorf("firestore.EventStore.Append: failed to commit transaction, %w", err)
	}

	return newVersion, nil
}

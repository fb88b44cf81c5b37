// Package mongodb provides an event.Store implementation backed by MongoDB.
//
// A replica set deployment is required, as appends use multi-document
// transactions to keep the events and event_streams collections consistent.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readconcern"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"

	"github.com/Migorithm/DDD/event"
	"github.com/Migorithm/DDD/logger"
	"github.com/Migorithm/DDD/message"
	"github.com/Migorithm/DDD/serde"
	"github.com/Migorithm/DDD/version"
)

//nolint:exhaustruct // Only used for interface assertion.
var _ event.Store = EventStore{}

// EventStore is an event.Store implementation using MongoDB
// as backing data store.
//
// The implementation uses the "events" and "event_streams" collections
// in the specified database. Updates to these collections are transactional.
type EventStore struct {
	Client       *mongo.Client
	DatabaseName string
	Serde        serde.Bytes[message.Message]
	Logger       logger.Logger
}

type persistedDocument struct {
	EventStreamID string           `bson:"event_stream_id"`
	Version       version.Version  `bson:"version"`
	Type          string           `bson:"type"`
	Payload       []byte           `bson:"payload"`
	Metadata      message.Metadata `bson:"metadata,omitempty"`
}

type eventStreamDocument struct {
	ID      string          `bson:"_id"`
	Version version.Version `bson:"version"`
}

func (es EventStore) startSession() (*mongo.Session, error) {
	return es.Client.StartSession(options.Session().
		SetDefaultTransactionOptions(options.Transaction().
			SetReadConcern(readconcern.Majority()).
			SetReadPreference(readpref.Primary()).
			SetWriteConcern(writeconcern.Majority()),
		),
	)
}

func (es EventStore) database() *mongo.Database {
	return es.Client.Database(es.DatabaseName, options.Database().
		SetReadConcern(readconcern.Majority()).
		SetReadPreference(readpref.Primary()),
	)
}

func (es EventStore) eventsCollection() *mongo.Collection {
	return es.database().Collection("events")
}

func (es EventStore) eventStreamsCollection() *mongo.Collection {
	return es.database().Collection("event_streams")
}

// Stream implements the event.Streamer interface.
func (es EventStore) Stream(
	ctx context.Context,
	stream event.StreamWrite,
	id event.StreamID,
	selector version.Selector,
) error {
	defer close(stream)

	cursor, err := es.eventsCollection().Find(
		ctx,
		bson.M{
			"event_stream_id": string(id),
			"version":         bson.M{"$gte": selector.From},
		},
		options.Find().SetSort(bson.D{{Key: "version", Value: 1}}),
	)
	if err != nil {
		return fmt.Errorf("mongodb.EventStore: failed to open event stream cursor, %w", err)
	}

	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc persistedDocument
		if err := cursor.Decode(&doc); err != nil {
			return fmt.Errorf("mongodb.EventStore: failed to decode event document, %w", err)
		}

		msg, err := es.Serde.Deserialize(doc.Payload)
		if err != nil {
			return fmt.Errorf("mongodb.EventStore: failed to deserialize message payload, %w", err)
		}

		select {
		case stream <- event.Persisted{
			StreamID: id,
			Version:  doc.Version,
			Envelope: event.Envelope{
				Message:  msg,
				Metadata: doc.Metadata,
			},
		}:
		case <-ctx.Done():
			return fmt.Errorf("mongodb.EventStore: context canceled while streaming, %w", ctx.Err())
		}
	}

	if err := cursor.Err(); err != nil {
		return fmt.Errorf("mongodb.EventStore: failed while iterating the event stream query cursor, %w", err)
	}

	return nil
}

// updateEventStream updates the Event Stream entry in the event_streams
// collection and performs the optimistic locking check.
//
// Returns the old version of the Event Stream, before the update.
func (es EventStore) updateEventStream(
	ctx context.Context,
	id event.StreamID,
	expected version.Check,
	newVersionOffset int,
) (version.Version, error) {
	eventStreams := es.eventStreamsCollection()

	var eventStream eventStreamDocument

	err := eventStreams.
		FindOne(ctx, bson.M{"_id": string(id)}).
		Decode(&eventStream)

	if errors.Is(err, mongo.ErrNoDocuments) {
		eventStream = eventStreamDocument{ID: string(id), Version: 0}
	} else if err != nil {
		return 0, fmt.Errorf("mongodb.EventStore: failed to find event stream, %w", err)
	}

	currentVersion := eventStream.Version
	if v, ok := expected.(version.CheckExact); ok && currentVersion != version.Version(v) {
		return 0, fmt.Errorf("mongodb.EventStore: version check failed, %w", version.ConflictError{
			Expected: version.Version(v),
			Actual:   currentVersion,
		})
	}

	eventStream.Version = currentVersion + version.Version(newVersionOffset) //nolint:gosec // Event counts are small.

	if _, err := eventStreams.ReplaceOne(
		ctx,
		bson.M{"_id": string(id)},
		eventStream,
		options.Replace().SetUpsert(true),
	); err != nil {
		return 0, fmt.Errorf("mongodb.EventStore: failed to update event stream, %w", err)
	}

	return currentVersion, nil
}

func (es EventStore) append(
	ctx context.Context,
	id event.StreamID,
	expected version.Check,
	events ...event.Envelope,
) (version.Version, error) {
	oldVersion, err := es.updateEventStream(ctx, id, expected, len(events))
	if err != nil {
		return 0, err
	}

	documents := make([]interface{}, 0, len(events))

	for i, evt := range events {
		payload, err := es.Serde.Serialize(evt.Message)
		if err != nil {
			return 0, fmt.Errorf("mongodb.EventStore: failed to serialize event, %w", err)
		}

		documents = append(documents, persistedDocument{
			EventStreamID: string(id),
			Version:       oldVersion + version.Version(i) + 1, //nolint:gosec // Event counts are small.
			Type:          evt.Message.Name(),
			Payload:       payload,
			Metadata:      evt.Metadata,
		})
	}

	if _, err := es.eventsCollection().InsertMany(ctx, documents); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("mongodb.EventStore: failed to insert new domain events, %w", version.ConflictError{
				Expected: oldVersion,
				Actual:   oldVersion + version.Version(len(events)), //nolint:gosec // Event counts are small.
			})
		}

		return 0, fmt.Errorf("mongodb.EventStore: failed to insert new domain events, %w", err)
	}

	return oldVersion + version.Version(len(events)), nil //nolint:gosec // Event counts are small.
}

// Append implements the event.Appender interface.
func (es EventStore) Append(
	ctx context.Context,
	id event.StreamID,
	expected version.Check,
	events ...event.Envelope,
) (version.Version, error) {
	sess, err := es.startSession()
	if err != nil {
		return 0, fmt.Errorf("mongodb.EventStore: failed to open a new session, %w", err)
	}

	defer sess.EndSession(ctx)

	result, err := sess.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		return es.append(sessCtx, id, expected, events...)
	})
	if err != nil {
		return 0, err
	}

	newVersion, ok := result.(version.Version)
	if !ok {
		return 0, fmt.Errorf("mongodb.EventStore: unexpected transaction result type, %T", result)
	}

	logger.Debug(es.Logger, "appended new domain events to event stream",
		logger.With("event_stream_id", string(id)),
		logger.With("new_version", newVersion),
	)

	return newVersion, nil
}

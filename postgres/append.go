package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Migorithm/DDD/event"
	"github.com/Migorithm/DDD/message"
	"github.com/Migorithm/DDD/version"
)

const (
	selectStreamVersionQuery = `SELECT version FROM event_streams WHERE event_stream_id = $1 FOR UPDATE`

	upsertStreamVersionQuery = `INSERT INTO event_streams (event_stream_id, version)
		VALUES ($1, $2)
		ON CONFLICT (event_stream_id) DO UPDATE SET version = $2`

	insertEventQuery = `INSERT INTO events (event_stream_id, "type", "version", event, metadata)
		VALUES ($1, $2, $3, $4, $5)`
)

// appendToStream performs the Optimistic Concurrency check on the Event Stream
// row, locks it, then inserts the new Domain Events in a single batch.
//
// Must run within the transaction committed by Append.
func (es EventStore) appendToStream(
	ctx context.Context,
	tx pgx.Tx,
	id event.StreamID,
	expected version.Check,
	events ...event.Envelope,
) (version.Version, error) {
	row := tx.QueryRow(ctx, selectStreamVersionQuery, string(id))

	var oldVersion version.Version
	if err := row.Scan(&oldVersion); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("postgres.EventStore: failed to scan current event stream version, %w", err)
	}

	if v, ok := expected.(version.CheckExact); ok && oldVersion != version.Version(v) {
		return 0, fmt.Errorf("postgres.EventStore: event stream version check failed, %w", version.ConflictError{
			Expected: version.Version(v),
			Actual:   oldVersion,
		})
	}

	newVersion := oldVersion + version.Version(len(events)) //nolint:gosec // Event counts are small.

	if _, err := tx.Exec(ctx, upsertStreamVersionQuery, string(id), newVersion); err != nil {
		return 0, fmt.Errorf("postgres.EventStore: failed to update event stream, %w", err)
	}

	batch := new(pgx.Batch)

	for i, evt := range events {
		eventVersion := oldVersion + version.Version(i) + 1 //nolint:gosec // Event counts are small.

		data, err := es.Serde.Serialize(evt.Message)
		if err != nil {
			return 0, fmt.Errorf("postgres.EventStore: failed to serialize domain event, %w", err)
		}

		metadata, err := marshalMetadata(evt.Metadata.
			With("Recorded-At", time.Now().Format(time.RFC3339Nano)).
			With("Recorded-With-New-Overall-Version", strconv.Itoa(int(newVersion))))
		if err != nil {
			return 0, err
		}

		batch.Queue(insertEventQuery, string(id), evt.Message.Name(), eventVersion, data, metadata)
	}

	results := tx.SendBatch(ctx, batch)

	for range events {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("postgres.EventStore: failed to insert domain event, %w", err)
		}
	}

	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("postgres.EventStore: failed to close batch results, %w", err)
	}

	return newVersion, nil
}

func marshalMetadata(metadata message.Metadata) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}

	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("postgres.EventStore: failed to marshal event metadata, %w", err)
	}

	return data, nil
}

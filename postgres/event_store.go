// Package postgres provides components of the library using PostgreSQL
// as a backing persistence layer, through the pgx driver.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Migorithm/DDD/event"
	"github.com/Migorithm/DDD/logger"
	"github.com/Migorithm/DDD/message"
	"github.com/Migorithm/DDD/serde"
	"github.com/Migorithm/DDD/version"
)

const streamEventsQuery = `SELECT version, event, metadata FROM events
	WHERE event_stream_id = $1 AND version >= $2
	ORDER BY version`

var _ event.Store = EventStore{}

// EventStore is an event.Store implementation targeted to PostgreSQL databases.
//
// The implementation uses "event_streams" and "events" as its
// operational tables. Updates to these tables are transactional.
//
// Use RunMigrations before building an instance of this type,
// to make sure the operational tables are in place.
type EventStore struct {
	Conn   *pgxpool.Pool
	Serde  serde.Bytes[message.Message]
	Logger logger.Logger
}

// Stream implements the event.Streamer interface.
func (es EventStore) Stream(
	ctx context.Context,
	stream event.StreamWrite,
	id event.StreamID,
	selector version.Selector,
) error {
	defer close(stream)

	rows, err := es.Conn.Query(ctx, streamEventsQuery, string(id), selector.From)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("postgres.EventStore: failed to query events table, %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		evt, err := es.scanPersistedEvent(rows, id)
		if err != nil {
			return err
		}

		select {
		case stream <- evt:
		case <-ctx.Done():
			return fmt.Errorf("postgres.EventStore: context canceled while streaming, %w", ctx.Err())
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres.EventStore: failed to read events table rows, %w", err)
	}

	return nil
}

func (es EventStore) scanPersistedEvent(rows pgx.Rows, id event.StreamID) (event.Persisted, error) {
	var (
		rawEvent    []byte
		rawMetadata json.RawMessage
	)

	evt := event.Persisted{
		StreamID: id,
	}

	if err := rows.Scan(&evt.Version, &rawEvent, &rawMetadata); err != nil {
		return evt, fmt.Errorf("postgres.EventStore: failed to scan next row, %w", err)
	}

	msg, err := es.Serde.Deserialize(rawEvent)
	if err != nil {
		return evt, fmt.Errorf("postgres.EventStore: failed to deserialize event, %w", err)
	}

	evt.Message = msg

	if len(rawMetadata) > 0 {
		if err := json.Unmarshal(rawMetadata, &evt.Metadata); err != nil {
			return evt, fmt.Errorf("postgres.EventStore: failed to deserialize metadata, %w", err)
		}
	}

	return evt, nil
}

// Append implements the event.Appender interface.
//
// A version.ConflictError is returned, wrapped, if the expected version check
// provided does not match the current version of the targeted Event Stream.
func (es EventStore) Append(
	ctx context.Context,
	id event.StreamID,
	expected version.Check,
	events ...event.Envelope,
) (version.Version, error) {
	tx, err := es.Conn.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return 0, fmt.Errorf("postgres.EventStore: failed to open database transaction, %w", err)
	}

	defer func() {
		// Has no effect if the transaction has been committed already.
		_ = tx.Rollback(ctx)
	}()

	newVersion, err := es.appendToStream(ctx, tx, id, expected, events...)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres.EventStore: failed to commit transaction, %w", err)
	}

	logger.Debug(es.Logger, "appended new domain events to event stream",
		logger.With("event_stream_id", string(id)),
		logger.With("new_version", newVersion),
	)

	return newVersion, nil
}

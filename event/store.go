package event

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Migorithm/DDD/version"
)

// Stream is a channel of persisted Domain Events, produced by a
// stream-able source of data such as an Event Store.
type Stream = chan Persisted

// StreamWrite is the write side of an event.Stream.
type StreamWrite chan<- Persisted

// StreamRead is the read side of an event.Stream.
type StreamRead <-chan Persisted

// SliceToStream turns a slice of persisted Domain Events into an
// already-closed event.Stream buffered with all the slice elements.
func SliceToStream(events []Persisted) Stream {
	ch := make(chan Persisted, len(events))
	defer close(ch)

	for _, event := range events {
		ch <- event
	}

	return ch
}

// StreamToSlice drains the event.Stream produced by the given closure
// into a slice, returning the error the closure failed with, if any.
//
// The closure is expected to close the stream once done, like
// event.Streamer implementations do.
func StreamToSlice(ctx context.Context, f func(ctx context.Context, stream StreamWrite) error) ([]Persisted, error) {
	ch := make(chan Persisted, 1)
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error { return f(ctx, ch) })

	var events []Persisted
	for event := range ch {
		events = append(events, event)
	}

	return events, group.Wait()
}

// Streamer opens the requested Event Stream and writes its Domain Events
// onto the provided channel.
type Streamer interface {
	Stream(ctx context.Context, stream StreamWrite, id StreamID, selector version.Selector) error
}

// Appender appends new Domain Events onto the requested Event Stream.
type Appender interface {
	Append(ctx context.Context, id StreamID, expected version.Check, events ...Envelope) (version.Version, error)
}

// Store is an Event Store, a durable data source where Domain Events
// are safely stored and replayed from.
type Store interface {
	Appender
	Streamer
}

// FusedStore combines separate Appender and Streamer implementations
// into a full event.Store.
//
// Useful when decorating only one side of an existing Store, e.g.
// extending Append while keeping the original Stream behavior, so that
// the result can still be used where a full Store is expected.
type FusedStore struct {
	Appender
	Streamer
}

// Package version exposes the types used to sequence Domain Events
// within an Event Stream, and to detect conflicting writes against it.
package version

// Version sequences Domain Events within a single Event Stream.
//
// Versions start from 1 and grow by one with each committed Event,
// so the version of a stream is also its length.
type Version uint32

// SequenceNumber is the global offset of a Domain Event in the whole
// Event Store, across all Event Streams.
type SequenceNumber uint64

// Selector points at the portion of an Event Stream to read
// when streaming Domain Events from the Event Store.
type Selector struct {
	From Version
}

// SelectFromBeginning selects every Domain Event in an Event Stream.
var SelectFromBeginning = Selector{From: 0}

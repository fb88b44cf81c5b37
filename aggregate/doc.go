// Package aggregate exposes the Aggregate Root building blocks of the library:
// the Domain Event records and their mutation protocol, the topic registry
// used to resolve stored type references back to concrete Aggregate types,
// and the lifecycle operations application code interacts with
// (Create, RecordThat, FlushRecordedEvents, Rehydrate).
//
// The current state of an Aggregate Root is derived entirely by left-folding
// its ordered Domain Event stream, starting from the absence of state.
// Replaying the same events always yields the same state.
package aggregate

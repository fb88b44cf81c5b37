// Package snapshot provides support for Aggregate Root snapshots, useful
// where Aggregate Roots are expected to grow considerably in number
// of recorded Domain Events.
//
// Snapshots are an optimization technique to speed up Aggregate state
// rehydration, by saving the state of the Aggregate Root at a particular
// version in a durable store and replaying only the events recorded after it.
package snapshot

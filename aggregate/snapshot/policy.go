package snapshot

import (
	"time"

	"github.com/Migorithm/DDD/version"
)

// Policy decides how often new Snapshots should be taken.
//
// Pick the policy that best fits the update rate of the Aggregate Root
// being optimized.
type Policy interface {
	ShouldRecord(newVersion version.Version) bool
	Record(newVersion version.Version)
}

// NeverPolicy disables snapshotting entirely.
type NeverPolicy struct{}

// ShouldRecord always returns false.
func (NeverPolicy) ShouldRecord(version.Version) bool { return false }

// Record is a no-op.
func (NeverPolicy) Record(version.Version) {}

// AlwaysPolicy takes a Snapshot on every save.
type AlwaysPolicy struct{}

// ShouldRecord always returns true.
func (AlwaysPolicy) ShouldRecord(version.Version) bool { return true }

// Record is a no-op.
func (AlwaysPolicy) Record(version.Version) {}

// AtFixedIntervalsPolicy takes Snapshots on a fixed time interval
// (e.g. at most once per hour).
//
// The interval is measured from the last recorded Snapshot during this
// process lifetime, not from the last Snapshot found in the store.
type AtFixedIntervalsPolicy struct {
	interval time.Duration
	lastTime time.Time
}

// NewAtFixedIntervalsPolicy returns an AtFixedIntervalsPolicy using the
// given time interval between Snapshot recordings.
func NewAtFixedIntervalsPolicy(interval time.Duration) *AtFixedIntervalsPolicy {
	return &AtFixedIntervalsPolicy{interval: interval}
}

// ShouldRecord returns true on the first query, then once per
// configured interval.
func (p *AtFixedIntervalsPolicy) ShouldRecord(version.Version) bool {
	return time.Since(p.lastTime) >= p.interval
}

// Record marks the current time as the start of the next interval.
func (p *AtFixedIntervalsPolicy) Record(version.Version) {
	p.lastTime = time.Now()
}

// EveryVersionIncrementPolicy takes a Snapshot every fixed number of
// version increments. EveryVersionIncrementPolicy(10) records a Snapshot
// at versions 10, 20, 30 and so on.
type EveryVersionIncrementPolicy version.Version

// ShouldRecord returns true when the new version is a multiple of
// the configured increment.
func (v EveryVersionIncrementPolicy) ShouldRecord(newVersion version.Version) bool {
	return newVersion%version.Version(v) == 0
}

// Record is a no-op, the policy is stateless.
func (EveryVersionIncrementPolicy) Record(version.Version) {}

package version

import "fmt"

// Any avoids optimistic concurrency checks when used, allowing for concurrent writes.
var Any = CheckAny{}

// Check can be used to perform optimistic concurrency checks when writing to
// the Event Store, using the Event Stream version.
//
// This is a sealed interface: Check implementations are provided
// by this package only.
type Check interface {
	isVersionCheck()
}

// CheckAny is a Check variant that will avoid optimistic concurrency checks.
type CheckAny struct{}

func (CheckAny) isVersionCheck() {}

// CheckExact is a Check variant that will ensure the specified version
// is the current one, prior to executing the operation.
type CheckExact Version

func (CheckExact) isVersionCheck() {}

// ConflictError is returned when a version check fails: the version
// an operation declared or expected does not line up with the actual
// version of the Event Stream or Aggregate it runs against.
//
// Both versions are carried for diagnostics.
type ConflictError struct {
	Expected Version
	Actual   Version
}

func (err ConflictError) Error() string {
	return fmt.Sprintf("version: conflict detected, expected: %d, actual: %d", err.Expected, err.Actual)
}

package aggregate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Migorithm/DDD/version"
)

// Scenario starts a new behavioral test for an Aggregate Root.
//
// Set preconditions with Given(), or exercise a factory method on a
// clean slate by calling When() directly.
func Scenario[T Root]() ScenarioInit[T] {
	return ScenarioInit[T]{}
}

// ScenarioInit is the entrypoint state of the Aggregate Root scenario API.
type ScenarioInit[T Root] struct{}

// Given sets the scenario preconditions as an ordered sequence of
// Domain Events, starting with the Created event as any valid
// Event Stream does.
func (sc ScenarioInit[T]) Given(events ...DomainEvent) ScenarioGiven[T] {
	return ScenarioGiven[T]{given: events}
}

// When exercises a factory method producing a brand new Aggregate Root.
// The closure should call the factory and return its result.
func (sc ScenarioInit[T]) When(fn func() (T, error)) ScenarioWhen[T] {
	return ScenarioWhen[T]{fn: fn}
}

// ScenarioGiven is the scenario state after preconditions have been set.
type ScenarioGiven[T Root] struct {
	given []DomainEvent
}

// When exercises a domain command on the Aggregate Root rehydrated from
// the Given() events. The closure receives the rehydrated instance and
// should call the command under test on it.
func (sc ScenarioGiven[T]) When(fn func(T) error) ScenarioWhen[T] {
	return ScenarioWhen[T]{
		fn: func() (T, error) {
			var zeroValue T

			root, err := Rehydrate(sc.given...)
			if err != nil {
				return zeroValue, err
			}

			typed, ok := root.(T)
			if !ok {
				return zeroValue, fmt.Errorf("aggregate.Scenario: unexpected aggregate root type, %T", root)
			}

			if err := fn(typed); err != nil {
				return zeroValue, err
			}

			return typed, nil
		},
	}
}

// ScenarioWhen is the scenario state after the command under test has
// been provided. Specify the expected outcome with Then(), ThenFails(),
// ThenError() or ThenErrors().
type ScenarioWhen[T Root] struct {
	fn func() (T, error)
}

// Then expects the command to succeed, asserting the new Aggregate Root
// version and the Domain Events it recorded.
func (sc ScenarioWhen[T]) Then(v version.Version, events ...DomainEvent) ScenarioThen[T] {
	return ScenarioThen[T]{
		fn:       sc.fn,
		version:  v,
		expected: events,
	}
}

// ThenFails expects the command to fail with any error.
func (sc ScenarioWhen[T]) ThenFails() ScenarioThen[T] {
	return ScenarioThen[T]{
		fn:      sc.fn,
		wantErr: true,
	}
}

// ThenError expects the command to fail with an error matching err
// through errors.Is semantics.
func (sc ScenarioWhen[T]) ThenError(err error) ScenarioThen[T] {
	return ScenarioThen[T]{
		fn:      sc.fn,
		errors:  []error{err},
		wantErr: true,
	}
}

// ThenErrors expects the command to fail with an error matching ALL of
// the given errors, e.g. one built through errors.Join.
func (sc ScenarioWhen[T]) ThenErrors(errs ...error) ScenarioThen[T] {
	return ScenarioThen[T]{
		fn:      sc.fn,
		errors:  errs,
		wantErr: true,
	}
}

// ScenarioThen is the fully-specified scenario, ready to be executed
// through AssertOn.
type ScenarioThen[T Root] struct {
	fn       func() (T, error)
	version  version.Version
	expected []DomainEvent
	errors   []error
	wantErr  bool
}

// AssertOn runs the test scenario using the specified testing.T instance.
func (sc ScenarioThen[T]) AssertOn(t *testing.T) {
	root, err := sc.fn()

	if sc.wantErr {
		assert.Error(t, err)

		for _, expectedErr := range sc.errors {
			assert.ErrorIs(t, err, expectedErr)
		}

		return
	}

	assert.NoError(t, err)
	assert.Equal(t, sc.expected, root.FlushRecordedEvents())
	assert.Equal(t, sc.version, root.Version())
}

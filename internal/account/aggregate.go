// Package account serves as a small domain example of how to model
// an event-sourced Aggregate with this library.
//
// This package is used for tests in the parent module. Monetary amounts
// are expressed in minor units (cents).
package account

import (
	"errors"
	"fmt"

	"github.com/Migorithm/DDD/aggregate"
)

// Type is the Account aggregate type.
var Type = aggregate.Type{
	Name:    "Account",
	Factory: func() aggregate.Root { return new(Account) },
}

func init() {
	aggregate.Register(Type)
}

// EventSerde is the serde used to persist Account domain events
// through the library's persistence integrations.
var EventSerde = aggregate.MustJSONSerde(
	Opened{},
	TransactionAppended{},
	OverdraftLimitSet{},
	Closed{},
)

// Account is a naive bank account implementation, modeled as an
// event-sourced Aggregate Root.
type Account struct {
	aggregate.BaseRoot

	// Aggregate fields should remain unexported if possible,
	// to enforce encapsulation.

	fullName       string
	emailAddress   string
	balance        int64
	overdraftLimit int64
	closed         bool
}

// FullName returns the full name of the Account holder.
func (a *Account) FullName() string { return a.fullName }

// EmailAddress returns the email address of the Account holder.
func (a *Account) EmailAddress() string { return a.emailAddress }

// Balance returns the current Account balance, in cents.
func (a *Account) Balance() int64 { return a.balance }

// OverdraftLimit returns the current Account overdraft limit, in cents.
func (a *Account) OverdraftLimit() int64 { return a.overdraftLimit }

// IsClosed returns whether the Account has been closed.
func (a *Account) IsClosed() bool { return a.closed }

// Apply implements aggregate.Root.
func (a *Account) Apply(kind aggregate.Kind) error {
	switch kind := kind.(type) {
	case Opened:
		a.fullName = kind.FullName
		a.emailAddress = kind.EmailAddress
	case TransactionAppended:
		a.balance += kind.Amount
	case OverdraftLimitSet:
		a.overdraftLimit = kind.OverdraftLimit
	case Closed:
		a.closed = true
	default:
		return fmt.Errorf("account.Apply: unexpected event kind type, %T", kind)
	}

	return nil
}

// All the errors returned by Account methods.
var (
	ErrInvalidFullName        = errors.New("account: invalid full name, is empty")
	ErrInvalidEmailAddress    = errors.New("account: invalid email address, is empty")
	ErrClosed                 = errors.New("account: account has been closed")
	ErrInsufficientFunds      = errors.New("account: insufficient funds")
	ErrNegativeOverdraftLimit = errors.New("account: overdraft limit must not be negative")
)

// Open opens a new bank Account for the specified holder.
func Open(fullName, emailAddress string, opts ...aggregate.Option) (*Account, error) {
	if fullName == "" {
		return nil, ErrInvalidFullName
	}

	if emailAddress == "" {
		return nil, ErrInvalidEmailAddress
	}

	root, err := aggregate.Create(Type, Opened{
		FullName:     fullName,
		EmailAddress: emailAddress,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("account.Open: failed to record domain event, %w", err)
	}

	return root.(*Account), nil
}

// AppendTransaction appends the given signed amount as transaction
// on the Account.
//
// ErrClosed is returned if the Account has been closed, and
// ErrInsufficientFunds if the transaction would bring the balance
// below the allowed overdraft limit.
func (a *Account) AppendTransaction(amount int64, opts ...aggregate.Option) error {
	if a.closed {
		return ErrClosed
	}

	if a.balance+amount < -a.overdraftLimit {
		return ErrInsufficientFunds
	}

	if err := aggregate.RecordThat(a, TransactionAppended{Amount: amount}, opts...); err != nil {
		return fmt.Errorf("account.AppendTransaction: failed to record domain event, %w", err)
	}

	return nil
}

// SetOverdraftLimit updates the Account overdraft limit.
//
// The limit must not be negative, and the Account must not be closed.
func (a *Account) SetOverdraftLimit(overdraftLimit int64, opts ...aggregate.Option) error {
	if overdraftLimit < 0 {
		return ErrNegativeOverdraftLimit
	}

	if a.closed {
		return ErrClosed
	}

	if err := aggregate.RecordThat(a, OverdraftLimitSet{OverdraftLimit: overdraftLimit}, opts...); err != nil {
		return fmt.Errorf("account.SetOverdraftLimit: failed to record domain event, %w", err)
	}

	return nil
}

// Close closes the Account. Commands that move money are rejected
// from this point on.
func (a *Account) Close(opts ...aggregate.Option) error {
	if err := aggregate.RecordThat(a, Closed{}, opts...); err != nil {
		return fmt.Errorf("account.Close: failed to record domain event, %w", err)
	}

	return nil
}

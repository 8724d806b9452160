package ledger

import (
	"context"
	"fmt"
	"time"
)

// DeadlineState is the tag of the three-way vesting deadline state.
// A tagged state avoids the magic maximum-integer sentinel trap:
// NeverVests never participates in arithmetic.
type DeadlineState uint8

const (
	// DeadlineUnset means no deadline has ever been set, or the last
	// one was consumed by settlement. A fresh schedule is required
	// before the account's grant can vest again.
	DeadlineUnset DeadlineState = iota

	// DeadlineNever means the grant will not auto-vest without an
	// explicit schedule. Set when options are granted to an account
	// with no deadline.
	DeadlineNever

	// DeadlineAt means the grant vests once the stored time has
	// strictly passed.
	DeadlineAt
)

// String returns the persisted form of the state tag.
func (s DeadlineState) String() string {
	switch s {
	case DeadlineUnset:
		return "unset"
	case DeadlineNever:
		return "never"
	case DeadlineAt:
		return "at"
	default:
		return fmt.Sprintf("DeadlineState(%d)", uint8(s))
	}
}

// ParseDeadlineState is the inverse of String for store round-trips.
func ParseDeadlineState(s string) (DeadlineState, error) {
	switch s {
	case "unset":
		return DeadlineUnset, nil
	case "never":
		return DeadlineNever, nil
	case "at":
		return DeadlineAt, nil
	default:
		return DeadlineUnset, fmt.Errorf("unknown deadline state %q", s)
	}
}

// Deadline is the vesting deadline of an account's outstanding grant.
// At is meaningful only when State is DeadlineAt.
type Deadline struct {
	State DeadlineState
	At    time.Time
}

// NeverVests returns the explicit grant-without-schedule deadline.
func NeverVests() Deadline {
	return Deadline{State: DeadlineNever}
}

// VestAt returns a deadline that passes once t is strictly in the past.
func VestAt(t time.Time) Deadline {
	return Deadline{State: DeadlineAt, At: t.UTC()}
}

// Overdue reports whether the deadline has strictly passed.
// Only an At deadline can be overdue.
func (d Deadline) Overdue(now time.Time) bool {
	return d.State == DeadlineAt && now.After(d.At)
}

// AccountState is the full per-account view the ledger operates on:
// the grant record plus both balance table entries. The zero value
// (Exists false, all balances zero) represents an account the store
// has never seen.
type AccountState struct {
	ID          string
	Exists      bool // account row present in the store
	EverGranted bool // has ever held granted > 0
	Granted     uint64
	Deadline    Deadline
	Vested      uint64
	Exercised   uint64
}

// Known reports whether the account is a valid transfer recipient:
// it has ever had granted > 0, or currently holds vested or exercised
// balance.
func (s AccountState) Known() bool {
	return s.EverGranted || s.Vested > 0 || s.Exercised > 0
}

// Recognized reports whether the account is a recognized employee,
// the gate on every employee-facing operation: currently granted > 0,
// vested > 0, or exercised > 0.
func (s AccountState) Recognized() bool {
	return s.Granted > 0 || s.Vested > 0 || s.Exercised > 0
}

// Record is the public accessor view of an account: the outstanding
// locked amount and the deadline state, nothing gated.
type Record struct {
	Granted  uint64   `json:"granted"`
	Deadline Deadline `json:"-"`
}

// Mutation is the unit of commit: full replacement rows for every
// account an operation touched plus the observable records it
// appended. The store applies it in one transaction or not at all.
type Mutation struct {
	Accounts []AccountState
	Events   []Event
}

// Store is the persistence boundary the ledger writes through.
// Implemented by the sqlite store; tests substitute an in-memory map.
type Store interface {
	// ReadAccount returns the account's state. The returned state
	// always carries the requested id; Exists is false when the store
	// has never seen the account.
	ReadAccount(ctx context.Context, id string) (AccountState, error)

	// Apply commits a mutation atomically: all rows and records, or
	// nothing.
	Apply(ctx context.Context, mut Mutation) error

	// MaxSeq returns the highest record seq ever appended, 0 when the
	// log is empty. Used on open to resume the sequence counter.
	MaxSeq(ctx context.Context) (int64, error)
}

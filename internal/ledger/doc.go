// Package ledger implements the option-accounting state machine.
//
// Each account's options move through three stages:
//
//	granted (locked) -> vested (available) -> exercised (terminal)
//
// Grants are issued by the administrator and sit locked until an
// explicit vesting schedule is set. Once the deadline passes, the
// whole outstanding grant converts to vested balance; settlement is
// lazy, performed by every operation that relies on an up-to-date
// vested balance. Vested balance can be transferred between known
// accounts or exercised; exercise is irreversible.
//
// ARCHITECTURE:
//
// The Ledger is a dependency-injected service: it owns no global
// state and is handed its Store (persistence), Clock (current time),
// and Policy (administrator predicate) at construction. Each public
// operation is a single all-or-nothing transaction - every check runs
// before any write, the wall clock is read exactly once, and the
// store commit is atomic. A rejected operation leaves every balance
// untouched.
//
// A mutual-exclusion guard (the Ledger mutex) surrounds every entry
// point so no two invocations touching the same account's balances
// can interleave, and a mutating operation cannot re-enter the ledger
// before the first call finishes.
//
// INVARIANTS:
//
//   - granted, vested, and exercised are never negative; every
//     decrement is preceded by an explicit availability check.
//   - Sum(granted+vested+exercised) over all accounts changes only by
//     the amount of new grants issued.
//   - A deadline is At(t) only if t was strictly in the future when
//     set; it is NeverVests only by explicit grant-without-schedule
//     policy.
//   - Observable records are append-only and stamped with a strictly
//     increasing seq.
package ledger

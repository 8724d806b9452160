// Package clock provides the two time sources the ledger depends on:
// a wall clock for vesting deadlines and a monotonic sequence counter
// for ordering observable records.
//
// The wall clock is injected so deadline comparisons are testable; the
// ledger reads it exactly once per operation. The sequence counter is
// never derived from wall time - record ordering is purely logical, so
// a replayed event log is ordered identically regardless of when it is
// read back.
package clock

package clock

import (
	"sync/atomic"
	"time"
)

// Clock supplies the current time for deadline checks.
//
// The ledger treats readings as non-decreasing within one operation
// (it reads the clock once per operation) but otherwise makes no
// assumption about precision. Implemented by System (production) and
// testutil.ManualClock (tests).
type Clock interface {
	Now() time.Time
}

// System reads the host wall clock.
type System struct{}

// Now returns the current wall-clock time in UTC.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Sequence is a monotonic counter used to stamp observable records.
//
// All records are stamped with a strictly increasing seq number from
// this counter. This ensures deterministic ordering when the event log
// is read back - wall-clock timestamps are stored for reporting but
// never used for ordering.
//
// Thread-safety: Sequence is safe for concurrent use (atomic
// operations), though the ledger's mutual-exclusion guard means only
// one goroutine typically calls Next().
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a new sequence counter starting at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NewSequenceAt creates a sequence counter starting at a specific
// value. Used on open to resume from the last persisted record.
func NewSequenceAt(start int64) *Sequence {
	s := &Sequence{}
	s.seq.Store(start)
	return s
}

// Next returns the next sequence number and increments the counter.
// Each call returns a unique, increasing value.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}

// Package testutil provides deterministic substitutes for the ledger's
// external collaborators: a manually advanced clock and a fixed
// operation-token generator. Both exist so the same test scenario runs
// with identical timestamps and tokens every time, which is what makes
// golden-file trace comparison possible.
package testutil

import (
	"sync"
	"time"
)

// ManualClock is a settable wall clock for tests.
//
// Unlike clock.System it only moves when told to, so deadline
// comparisons in tests are exact rather than racing the host clock.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a manual clock set to start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start.UTC()}
}

// Now returns the clock's current reading.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative d is ignored: the
// clock never goes backwards, matching the non-decreasing reading the
// ledger assumes.
func (c *ManualClock) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t if t is not before the current reading.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Before(c.now) {
		return
	}
	c.now = t.UTC()
}

package testutil

import (
	"fmt"
	"sync"
)

// SeqTokenGenerator returns "op-1", "op-2", ... in order.
//
// Production uses time-sortable UUIDv7 operation tokens; tests need
// tokens that are stable across runs so traces can be compared against
// golden files.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SeqTokenGenerator struct {
	mu sync.Mutex
	n  int
}

// NewSeqTokenGenerator creates a generator whose first token is "op-1".
func NewSeqTokenGenerator() *SeqTokenGenerator {
	return &SeqTokenGenerator{}
}

// Generate returns the next token in the sequence.
func (g *SeqTokenGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("op-%d", g.n)
}

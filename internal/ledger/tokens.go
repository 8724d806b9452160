package ledger

import "github.com/google/uuid"

// TokenGenerator produces the operation token stamped on every record
// an operation appends, correlating multi-record operations (a
// transfer that also settled, for instance).
//
// Implemented by UUIDv7Generator (production) and
// testutil.SeqTokenGenerator (tests).
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 operation tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, making
// tokens sortable by creation time, which helps when eyeballing the
// record log.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

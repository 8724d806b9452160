package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"
)

// EventKind labels an observable record.
type EventKind string

const (
	// EventGrantIssued records an administrative grant.
	EventGrantIssued EventKind = "grant-issued"

	// EventVestingSettled records a granted amount converting to
	// vested balance.
	EventVestingSettled EventKind = "vesting-settled"

	// EventOptionsTransferred records vested balance moving between
	// two accounts. Account is the sender, Counterparty the recipient.
	EventOptionsTransferred EventKind = "options-transferred"

	// EventOptionsExercised records a terminal conversion of vested
	// balance.
	EventOptionsExercised EventKind = "options-exercised"
)

// Event is one observable record in the append-only log.
type Event struct {
	Seq          int64     `json:"seq"`
	ID           string    `json:"id"`
	OpToken      string    `json:"op_token"`
	Kind         EventKind `json:"kind"`
	Account      string    `json:"account"`
	Counterparty string    `json:"counterparty,omitempty"`
	Amount       uint64    `json:"amount"`
	At           time.Time `json:"at"`
}

// eventDomain separates event identity hashes from any other use of
// the same digest. Version suffix enables future algorithm migration.
const eventDomain = "vestd/event/v1"

// EventID computes the content-addressed identity of a record: a
// SHA-256 over the domain tag and every identity-bearing field,
// null-separated to keep field boundaries unambiguous. Account
// identifiers are NFC-normalized so visually identical ids hash
// identically.
func EventID(ev Event) string {
	h := sha256.New()
	h.Write([]byte(eventDomain))
	for _, field := range []string{
		ev.OpToken,
		string(ev.Kind),
		norm.NFC.String(ev.Account),
		norm.NFC.String(ev.Counterparty),
		strconv.FormatUint(ev.Amount, 10),
		strconv.FormatInt(ev.Seq, 10),
		strconv.FormatInt(ev.At.Unix(), 10),
	} {
		h.Write([]byte{0x00})
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}

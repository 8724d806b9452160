package harness

import "github.com/roach88/vestd/internal/ledger"

// TraceRecord is one observable record in a scenario trace. It is the
// ledger event minus the content-addressed id, which depends on every
// other field and would make golden files unwritable by hand.
type TraceRecord struct {
	Seq          int64  `json:"seq"`
	OpToken      string `json:"op_token"`
	Kind         string `json:"kind"`
	Account      string `json:"account"`
	Counterparty string `json:"counterparty,omitempty"`
	Amount       uint64 `json:"amount"`
	At           int64  `json:"at"`
}

// Result is the outcome of executing a scenario.
type Result struct {
	// Passed is true when every expect clause and assertion held.
	Passed bool

	// Errors lists every expectation or assertion failure.
	Errors []string

	// Trace is the full record log produced by the scenario, in
	// commit order.
	Trace []TraceRecord
}

func traceFromEvents(events []ledger.Event) []TraceRecord {
	trace := make([]TraceRecord, 0, len(events))
	for _, ev := range events {
		trace = append(trace, TraceRecord{
			Seq:          ev.Seq,
			OpToken:      ev.OpToken,
			Kind:         string(ev.Kind),
			Account:      ev.Account,
			Counterparty: ev.Counterparty,
			Amount:       ev.Amount,
			At:           ev.At.Unix(),
		})
	}
	return trace
}

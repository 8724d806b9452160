// Package harness provides scenario-based conformance testing for the
// option ledger.
//
// The harness loads YAML scenarios, executes them against a real
// ledger over a fresh in-memory database, and validates the resulting
// record trace and final balances.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	admin: root
//	steps:
//	  - op: grant
//	    account: alice
//	    amount: 1000
//	  - op: schedule
//	    account: alice
//	    deadline: 3600          # seconds after scenario start
//	  - op: advance
//	    seconds: 3601
//	  - op: vest
//	    as: alice
//	    expect:
//	      moved: 1000
//	assertions:
//	  - type: trace_count
//	    kind: vesting-settled
//	    count: 1
//	  - type: final_state
//	    account: alice
//	    expect: { granted: 0, vested: 1000, exercised: 0 }
//
// Steps run as the scenario administrator unless "as" names another
// account. A step with an expect clause validates the outcome; a step
// without one is assumed to succeed.
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - trace_contains: a record with the given kind, account, and
//     optional counterparty/amount appears in the trace
//   - trace_order: record kinds appear in the given relative order
//   - trace_count: records of a kind appear exactly N times
//   - final_state: an account's granted/vested/exercised balances
//     match the expected values
//
// # Deterministic Testing
//
// Every scenario starts at the same fixed instant with a manually
// advanced clock and sequential operation tokens, so the same scenario
// produces an identical trace on every run. Content-addressed record
// ids are excluded from snapshots; seq, token, kind, accounts, amount,
// and timestamp pin the trace down completely.
package harness

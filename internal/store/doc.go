// Package store provides SQLite-backed durable storage for the option
// ledger: the three logical tables keyed by account (grant record,
// vested balance, exercised balance) plus the append-only observable
// record log.
//
// # Critical Patterns
//
// Append-only log:
//   - events rows are only ever inserted; no UPDATE or DELETE
//   - ordering uses seq INTEGER (logical counter), never timestamps
//   - all log queries ORDER BY seq ASC, id ASC COLLATE BINARY so
//     reads are deterministic
//
// Atomic mutations:
//   - a ledger operation commits through Apply() in one transaction:
//     every touched account row and every appended record, or nothing
//
// Non-negativity:
//   - CHECK(amount >= 0) constraints back up the ledger's explicit
//     availability checks; an underflow bug fails loudly instead of
//     persisting garbage
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//   - single-connection pool: SQLite has one writer at a time
package store

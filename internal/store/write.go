package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/vestd/internal/ledger"
)

// Apply commits a ledger mutation in a single transaction: full
// replacement rows for every touched account across all three logical
// tables, plus the operation's observable records appended to the
// log. Either everything lands or nothing does.
func (s *Store) Apply(ctx context.Context, mut ledger.Mutation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, st := range mut.Accounts {
		if err := upsertAccount(ctx, tx, st); err != nil {
			return fmt.Errorf("apply: %w", err)
		}
	}
	for _, ev := range mut.Events {
		if err := appendEvent(ctx, tx, ev); err != nil {
			return fmt.Errorf("apply: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply: commit: %w", err)
	}
	return nil
}

func upsertAccount(ctx context.Context, tx *sql.Tx, st ledger.AccountState) error {
	var deadline int64
	if st.Deadline.State == ledger.DeadlineAt {
		deadline = st.Deadline.At.Unix()
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, ever_granted, granted, deadline_state, deadline)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ever_granted   = excluded.ever_granted,
			granted        = excluded.granted,
			deadline_state = excluded.deadline_state,
			deadline       = excluded.deadline
	`, st.ID, boolToInt(st.EverGranted), int64(st.Granted), st.Deadline.State.String(), deadline)
	if err != nil {
		return fmt.Errorf("upsert account %s: %w", st.ID, err)
	}

	for _, bal := range []struct {
		table  string
		amount uint64
	}{
		{"vested_balances", st.Vested},
		{"exercised_balances", st.Exercised},
	} {
		_, err := tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (account, amount)
			VALUES (?, ?)
			ON CONFLICT(account) DO UPDATE SET amount = excluded.amount
		`, bal.table), st.ID, int64(bal.amount))
		if err != nil {
			return fmt.Errorf("upsert %s for %s: %w", bal.table, st.ID, err)
		}
	}
	return nil
}

// appendEvent inserts a record into the append-only log. No conflict
// clause: a duplicate seq or id means the sequence counter is broken
// and must surface as an error, never be silently absorbed.
func appendEvent(ctx context.Context, tx *sql.Tx, ev ledger.Event) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO events (seq, id, op_token, kind, account, counterparty, amount, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.Seq, ev.ID, ev.OpToken, string(ev.Kind), ev.Account, ev.Counterparty,
		int64(ev.Amount), ev.At.Unix())
	if err != nil {
		return fmt.Errorf("append event seq %d: %w", ev.Seq, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/vestd/internal/ledger"
	"github.com/roach88/vestd/internal/query"
)

// ReadAccount returns the account's full state across all three
// logical tables. The returned state always carries the requested id;
// Exists is false when no grant record has ever been written.
func (s *Store) ReadAccount(ctx context.Context, id string) (ledger.AccountState, error) {
	st := ledger.AccountState{ID: id}

	var everGranted int
	var granted, deadline int64
	var deadlineState string
	err := s.db.QueryRowContext(ctx, `
		SELECT ever_granted, granted, deadline_state, deadline
		FROM accounts
		WHERE id = ?
	`, id).Scan(&everGranted, &granted, &deadlineState, &deadline)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No grant record; balances may still exist from transfers,
		// fall through.
	case err != nil:
		return st, fmt.Errorf("read account %s: %w", id, err)
	default:
		st.Exists = true
		st.EverGranted = everGranted != 0
		st.Granted = uint64(granted)
		state, perr := ledger.ParseDeadlineState(deadlineState)
		if perr != nil {
			return st, fmt.Errorf("read account %s: %w", id, perr)
		}
		st.Deadline = ledger.Deadline{State: state}
		if state == ledger.DeadlineAt {
			st.Deadline.At = time.Unix(deadline, 0).UTC()
		}
	}

	vested, err := s.readBalance(ctx, "vested_balances", id)
	if err != nil {
		return st, fmt.Errorf("read account %s: %w", id, err)
	}
	st.Vested = vested

	exercised, err := s.readBalance(ctx, "exercised_balances", id)
	if err != nil {
		return st, fmt.Errorf("read account %s: %w", id, err)
	}
	st.Exercised = exercised

	return st, nil
}

func (s *Store) readBalance(ctx context.Context, table, account string) (uint64, error) {
	var amount int64
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT amount FROM %s WHERE account = ?", table),
		account).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", table, err)
	}
	return uint64(amount), nil
}

// MaxSeq returns the highest record seq in the log, 0 when empty.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) FROM events").Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq, nil
}

// Query returns the records matching the filter in deterministic
// order. Returns an empty slice (not nil) when nothing matches.
func (s *Store) Query(ctx context.Context, f query.Filter) ([]ledger.Event, error) {
	stmt, params, err := query.Compile(f)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, stmt, params...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Events returns the whole observable record log in deterministic
// order.
func (s *Store) Events(ctx context.Context) ([]ledger.Event, error) {
	return s.Query(ctx, query.Filter{})
}

// AccountEvents returns the records naming account, as subject or as
// transfer counterparty, in deterministic order.
func (s *Store) AccountEvents(ctx context.Context, account string) ([]ledger.Event, error) {
	return s.Query(ctx, query.Filter{Account: account})
}

func scanEvents(rows *sql.Rows) ([]ledger.Event, error) {
	events := []ledger.Event{}
	for rows.Next() {
		var ev ledger.Event
		var kind string
		var amount, at int64
		if err := rows.Scan(&ev.Seq, &ev.ID, &ev.OpToken, &kind,
			&ev.Account, &ev.Counterparty, &amount, &at); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = ledger.EventKind(kind)
		ev.Amount = uint64(amount)
		ev.At = time.Unix(at, 0).UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// Snapshot returns every account's full state ordered by id. Used by
// the harness for golden traces and by the CLI for whole-ledger
// inspection.
func (s *Store) Snapshot(ctx context.Context) ([]ledger.AccountState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM (
			SELECT id FROM accounts
			UNION
			SELECT account FROM vested_balances
			UNION
			SELECT account FROM exercised_balances
		)
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshot ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot ids: %w", err)
	}

	states := []ledger.AccountState{}
	for _, id := range ids {
		st, err := s.ReadAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	return states, nil
}

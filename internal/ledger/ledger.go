package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/roach88/vestd/internal/auth"
	"github.com/roach88/vestd/internal/clock"
)

// Ledger is the option-accounting service. All state lives in the
// injected Store; the Ledger holds only its collaborators and the
// mutual-exclusion guard.
type Ledger struct {
	// mu is the mutual-exclusion guard around every entry point.
	// No two invocations touching balances can interleave, and a
	// mutating operation cannot re-enter the ledger mid-flight.
	mu sync.Mutex

	store  Store
	clock  clock.Clock
	policy auth.Policy
	tokens TokenGenerator
	seq    *clock.Sequence
	log    *slog.Logger
}

// Option configures a Ledger at construction.
type Option func(*Ledger)

// WithTokenGenerator overrides the operation-token generator.
// Tests use a deterministic sequence generator.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(l *Ledger) {
		l.tokens = g
	}
}

// WithLogger sets the structured logger. Defaults to a discarding
// logger so library use stays silent unless asked.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.log = logger
	}
}

// New creates a Ledger over the given store and collaborators. The
// record sequence counter resumes from the highest seq already in the
// store, so record ordering survives restarts.
func New(ctx context.Context, st Store, clk clock.Clock, policy auth.Policy, opts ...Option) (*Ledger, error) {
	last, err := st.MaxSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("resume record sequence: %w", err)
	}

	l := &Ledger{
		store:  st,
		clock:  clk,
		policy: policy,
		tokens: UUIDv7Generator{},
		seq:    clock.NewSequenceAt(last),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Grant issues amount locked options to account. Administrator only.
//
// If the account already holds an overdue grant it is settled first,
// so the outstanding amount is not silently folded into a new locked
// balance. An account with no deadline gets NeverVests: newly granted
// options sit locked until a schedule is explicitly set.
func (l *Ledger) Grant(ctx context.Context, caller, account string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.policy.IsAdmin(caller) {
		return newError(CodeUnauthorized, caller, "caller is not the administrator")
	}
	if strings.TrimSpace(account) == "" {
		return newError(CodeInvalidAccount, account, "blank account identifier")
	}

	now := l.clock.Now()
	st, err := l.store.ReadAccount(ctx, account)
	if err != nil {
		return fmt.Errorf("grant: %w", err)
	}

	token := l.tokens.Generate()
	var events []Event
	if st.Granted > 0 {
		if moved, ok := settle(&st, now); ok {
			events = append(events, Event{
				OpToken: token, Kind: EventVestingSettled,
				Account: account, Amount: moved, At: now,
			})
		}
	}

	st.ID = account
	st.Exists = true
	st.Granted += amount
	if amount > 0 {
		st.EverGranted = true
	}
	if st.Deadline.State == DeadlineUnset {
		st.Deadline = NeverVests()
	}
	events = append(events, Event{
		OpToken: token, Kind: EventGrantIssued,
		Account: account, Amount: amount, At: now,
	})

	return l.commit(ctx, []AccountState{st}, events)
}

// SetVestingSchedule sets the account's vesting deadline.
// Administrator only. The deadline must be strictly in the future and
// the account must have an outstanding grant. An already-passed
// deadline is settled before being overwritten - rescheduling never
// claws back options that were due.
func (l *Ledger) SetVestingSchedule(ctx context.Context, caller, account string, deadline time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.policy.IsAdmin(caller) {
		return newError(CodeUnauthorized, caller, "caller is not the administrator")
	}

	now := l.clock.Now()
	if !deadline.After(now) {
		return newError(CodeScheduleInPast, account,
			"deadline %s is not strictly after current time %s",
			deadline.UTC().Format(time.RFC3339), now.Format(time.RFC3339))
	}

	st, err := l.store.ReadAccount(ctx, account)
	if err != nil {
		return fmt.Errorf("set vesting schedule: %w", err)
	}
	if st.Granted == 0 {
		return newError(CodeUnknownEmployee, account, "no outstanding grant to schedule")
	}

	token := l.tokens.Generate()
	var events []Event
	if moved, ok := settle(&st, now); ok {
		events = append(events, Event{
			OpToken: token, Kind: EventVestingSettled,
			Account: account, Amount: moved, At: now,
		})
	}

	st.Deadline = VestAt(deadline)
	return l.commit(ctx, []AccountState{st}, events)
}

// VestOptions is the self-service settlement entry point. The caller
// must be a recognized employee with an explicit schedule; NeverVests
// means there is nothing that could ever become due. Returns the
// amount settled, which is zero when the deadline has not passed -
// that case is not an error, settlement is idempotent.
func (l *Ledger) VestOptions(ctx context.Context, caller string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	st, err := l.store.ReadAccount(ctx, caller)
	if err != nil {
		return 0, fmt.Errorf("vest: %w", err)
	}
	if !st.Recognized() {
		return 0, newError(CodeUnauthorized, caller, "caller is not a recognized employee")
	}
	if st.Deadline.State == DeadlineNever {
		return 0, newError(CodeScheduleNotSet, caller, "no vesting schedule has been set")
	}

	moved, ok := settle(&st, now)
	if !ok {
		return 0, nil
	}

	events := []Event{{
		OpToken: l.tokens.Generate(), Kind: EventVestingSettled,
		Account: caller, Amount: moved, At: now,
	}}
	if err := l.commit(ctx, []AccountState{st}, events); err != nil {
		return 0, err
	}
	return moved, nil
}

// ExerciseOptions converts the caller's entire vested balance to
// exercised balance. Terminal: nothing in this design moves value out
// of exercised. An overdue grant is settled first so the full due
// amount is exercised.
func (l *Ledger) ExerciseOptions(ctx context.Context, caller string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	st, err := l.store.ReadAccount(ctx, caller)
	if err != nil {
		return 0, fmt.Errorf("exercise: %w", err)
	}
	if !st.Recognized() {
		return 0, newError(CodeUnauthorized, caller, "caller is not a recognized employee")
	}

	token := l.tokens.Generate()
	var events []Event
	if st.Granted > 0 {
		if moved, ok := settle(&st, now); ok {
			events = append(events, Event{
				OpToken: token, Kind: EventVestingSettled,
				Account: caller, Amount: moved, At: now,
			})
		}
	}
	if st.Vested == 0 {
		return 0, newError(CodeInsufficientVested, caller, "no vested balance to exercise")
	}

	moved := st.Vested
	st.Exercised += moved
	st.Vested = 0
	events = append(events, Event{
		OpToken: token, Kind: EventOptionsExercised,
		Account: caller, Amount: moved, At: now,
	})

	if err := l.commit(ctx, []AccountState{st}, events); err != nil {
		return 0, err
	}
	return moved, nil
}

// TransferOptions moves amount of vested balance from the caller to
// recipient. The caller's overdue grant is settled before the balance
// check, maximizing the transferable amount. The recipient must be a
// known account; value is redistributed, never created.
func (l *Ledger) TransferOptions(ctx context.Context, caller, recipient string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	st, err := l.store.ReadAccount(ctx, caller)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	if !st.Recognized() {
		return newError(CodeUnauthorized, caller, "caller is not a recognized employee")
	}
	if amount == 0 {
		return newError(CodeInvalidAmount, caller, "transfer amount must be positive")
	}

	rst := st
	if recipient != caller {
		rst, err = l.store.ReadAccount(ctx, recipient)
		if err != nil {
			return fmt.Errorf("transfer: %w", err)
		}
	}
	if !rst.Known() {
		return newError(CodeUnknownRecipient, recipient, "recipient has no grant history or balance")
	}

	token := l.tokens.Generate()
	var events []Event
	if st.Granted > 0 {
		if moved, ok := settle(&st, now); ok {
			events = append(events, Event{
				OpToken: token, Kind: EventVestingSettled,
				Account: caller, Amount: moved, At: now,
			})
		}
	}
	if amount > st.Vested {
		return newError(CodeInsufficientVested, caller,
			"transfer of %d exceeds vested balance %d", amount, st.Vested)
	}

	events = append(events, Event{
		OpToken: token, Kind: EventOptionsTransferred,
		Account: caller, Counterparty: recipient, Amount: amount, At: now,
	})

	accounts := []AccountState{}
	if recipient == caller {
		// Self-transfer: checks apply, balances are unchanged.
		accounts = append(accounts, st)
	} else {
		st.Vested -= amount
		rst.ID = recipient
		rst.Exists = true
		rst.Vested += amount
		accounts = append(accounts, st, rst)
	}

	return l.commit(ctx, accounts, events)
}

// VestingCountdown returns the time remaining until the account's
// deadline, zero once passed. Readable by the account itself or the
// administrator; defined only while the account has an outstanding
// grant with an explicit schedule.
func (l *Ledger) VestingCountdown(ctx context.Context, caller, account string) (time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != account && !l.policy.IsAdmin(caller) {
		return 0, newError(CodeUnauthorized, caller, "countdown readable by the account or the administrator")
	}

	now := l.clock.Now()
	st, err := l.store.ReadAccount(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("countdown: %w", err)
	}
	if st.Granted == 0 {
		return 0, newError(CodeUnknownEmployee, account, "no outstanding grant")
	}
	if st.Deadline.State != DeadlineAt {
		return 0, newError(CodeScheduleNotSet, account, "no vesting schedule has been set")
	}

	remaining := st.Deadline.At.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// VestedOptions returns the account's available balance.
// Readable by the account itself or the administrator.
func (l *Ledger) VestedOptions(ctx context.Context, caller, account string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != account && !l.policy.IsAdmin(caller) {
		return 0, newError(CodeUnauthorized, caller, "balance readable by the account or the administrator")
	}
	st, err := l.store.ReadAccount(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("vested balance: %w", err)
	}
	return st.Vested, nil
}

// ExercisedOptions returns the account's terminal exercised balance.
// Readable by the account itself or the administrator.
func (l *Ledger) ExercisedOptions(ctx context.Context, caller, account string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != account && !l.policy.IsAdmin(caller) {
		return 0, newError(CodeUnauthorized, caller, "balance readable by the account or the administrator")
	}
	st, err := l.store.ReadAccount(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("exercised balance: %w", err)
	}
	return st.Exercised, nil
}

// AccountRecord is the public accessor: the outstanding locked amount
// and the deadline state, with no caller gate.
func (l *Ledger) AccountRecord(ctx context.Context, account string) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.store.ReadAccount(ctx, account)
	if err != nil {
		return Record{}, fmt.Errorf("account record: %w", err)
	}
	return Record{Granted: st.Granted, Deadline: st.Deadline}, nil
}

// CurrentTime exposes the ledger's clock reading.
func (l *Ledger) CurrentTime() time.Time {
	return l.clock.Now()
}

// settle converts the whole outstanding grant to vested balance once
// the deadline has strictly passed, and clears the deadline so a
// fresh schedule is required before anything vests again. Reads and
// writes the same target account; no-op (and idempotent) unless the
// deadline is At(t) with now after t.
func settle(st *AccountState, now time.Time) (moved uint64, settled bool) {
	if !st.Deadline.Overdue(now) {
		return 0, false
	}
	moved = st.Granted
	st.Vested += moved
	st.Granted = 0
	st.Deadline = Deadline{}
	return moved, true
}

// commit stamps seq and identity on each record and applies the
// mutation atomically. Seq numbers consumed by a failed commit are
// never reused; gaps in the log are harmless, reordering would not be.
func (l *Ledger) commit(ctx context.Context, accounts []AccountState, events []Event) error {
	for i := range events {
		events[i].Seq = l.seq.Next()
		events[i].ID = EventID(events[i])
	}
	if err := l.store.Apply(ctx, Mutation{Accounts: accounts, Events: events}); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	for _, ev := range events {
		l.log.Debug("record appended",
			"seq", ev.Seq, "kind", string(ev.Kind),
			"account", ev.Account, "amount", ev.Amount)
	}
	return nil
}

package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/vestd/internal/auth"
	"github.com/roach88/vestd/internal/ledger"
	"github.com/roach88/vestd/internal/store"
	"github.com/roach88/vestd/internal/testutil"
)

// scenarioStart is the instant every scenario begins at. A fixed
// start makes every timestamp in a trace reproducible.
var scenarioStart = time.Unix(1700000000, 0).UTC()

// defaultAdmin is the administrator account when the scenario names
// none.
const defaultAdmin = "root"

// harness executes one scenario against a fresh ledger.
type harness struct {
	store  *store.Store
	ledger *ledger.Ledger
	clock  *testutil.ManualClock
	admin  string
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory database with a
// manually advanced clock and sequential operation tokens, so the same
// scenario produces the same trace every time. Step expectation
// failures and assertion failures are collected in the result; an
// error return means the scenario itself could not be executed.
func Run(s *Scenario) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("open scenario store: %w", err)
	}
	defer st.Close()

	admin := s.Admin
	if admin == "" {
		admin = defaultAdmin
	}

	ctx := context.Background()
	clk := testutil.NewManualClock(scenarioStart)
	l, err := ledger.New(ctx, st, clk, auth.Static{Admin: admin},
		ledger.WithTokenGenerator(testutil.NewSeqTokenGenerator()))
	if err != nil {
		return nil, fmt.Errorf("open scenario ledger: %w", err)
	}

	h := &harness{store: st, ledger: l, clock: clk, admin: admin}

	result := &Result{}
	for i, step := range s.Steps {
		if failure := h.executeStep(ctx, i, step); failure != "" {
			result.Errors = append(result.Errors, failure)
		}
	}

	events, err := st.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("read scenario trace: %w", err)
	}
	result.Trace = traceFromEvents(events)

	for _, a := range s.Assertions {
		if err := h.evaluate(ctx, result.Trace, a); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}

	result.Passed = len(result.Errors) == 0
	return result, nil
}

// executeStep runs one step and checks its expect clause. The
// returned string is empty on success and a failure description
// otherwise.
func (h *harness) executeStep(ctx context.Context, idx int, step Step) string {
	caller := step.As
	if caller == "" {
		caller = h.admin
	}

	var moved uint64
	var err error
	switch step.Op {
	case "advance":
		h.clock.Advance(time.Duration(step.Seconds) * time.Second)
		return ""
	case "grant":
		err = h.ledger.Grant(ctx, caller, step.Account, step.Amount)
	case "schedule":
		deadline := scenarioStart.Add(time.Duration(step.Deadline) * time.Second)
		err = h.ledger.SetVestingSchedule(ctx, caller, step.Account, deadline)
	case "vest":
		moved, err = h.ledger.VestOptions(ctx, caller)
	case "exercise":
		moved, err = h.ledger.ExerciseOptions(ctx, caller)
	case "transfer":
		err = h.ledger.TransferOptions(ctx, caller, step.Account, step.Amount)
	}

	return checkExpect(idx, step, moved, err)
}

func checkExpect(idx int, step Step, moved uint64, err error) string {
	wantCode := ledger.Code("")
	if step.Expect != nil {
		wantCode = ledger.Code(step.Expect.Error)
	}

	gotCode := ledger.CodeOf(err)
	switch {
	case err != nil && gotCode == "":
		return fmt.Sprintf("step %d (%s): %v", idx, step.Op, err)
	case gotCode != wantCode:
		return fmt.Sprintf("step %d (%s): got rejection %q, want %q", idx, step.Op, gotCode, wantCode)
	}

	if step.Expect != nil && step.Expect.Moved != nil && moved != *step.Expect.Moved {
		return fmt.Sprintf("step %d (%s): moved %d, want %d", idx, step.Op, moved, *step.Expect.Moved)
	}
	return ""
}

package harness

import (
	"context"
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails. It includes the
// full trace so the failure is debuggable from the message alone.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceRecord
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "\ntrace:\n")
	for _, rec := range e.Trace {
		if rec.Counterparty != "" {
			fmt.Fprintf(&buf, "  [%d] %s %s -> %s %d\n",
				rec.Seq, rec.Kind, rec.Account, rec.Counterparty, rec.Amount)
			continue
		}
		fmt.Fprintf(&buf, "  [%d] %s %s %d\n", rec.Seq, rec.Kind, rec.Account, rec.Amount)
	}
	return buf.String()
}

// evaluate dispatches one assertion against the trace or final state.
func (h *harness) evaluate(ctx context.Context, trace []TraceRecord, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(trace, a)
	case AssertTraceCount:
		return assertTraceCount(trace, a)
	case AssertFinalState:
		return h.assertFinalState(ctx, trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertTraceContains checks that a record with the given kind,
// account, and optional counterparty and amount appears in the trace.
func assertTraceContains(trace []TraceRecord, a Assertion) error {
	for _, rec := range trace {
		if rec.Kind != a.Kind || rec.Account != a.Account {
			continue
		}
		if a.Counterparty != "" && rec.Counterparty != a.Counterparty {
			continue
		}
		if a.Amount != nil && rec.Amount != *a.Amount {
			continue
		}
		return nil
	}

	expected := fmt.Sprintf("%s record for %s", a.Kind, a.Account)
	if a.Amount != nil {
		expected += fmt.Sprintf(" amount %d", *a.Amount)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that record kinds appear in the given
// relative order. Kinds need not be consecutive.
func assertTraceOrder(trace []TraceRecord, a Assertion) error {
	next := 0
	for _, rec := range trace {
		if next < len(a.Kinds) && rec.Kind == a.Kinds[next] {
			next++
		}
	}
	if next < len(a.Kinds) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("kinds in order %v", a.Kinds),
			Actual:   fmt.Sprintf("order broken at %q", a.Kinds[next]),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceCount checks that records of a kind appear exactly Count
// times.
func assertTraceCount(trace []TraceRecord, a Assertion) error {
	count := 0
	for _, rec := range trace {
		if rec.Kind == a.Kind {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d records of kind %s", a.Count, a.Kind),
			Actual:   fmt.Sprintf("%d records", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState checks an account's balances after the scenario.
func (h *harness) assertFinalState(ctx context.Context, trace []TraceRecord, a Assertion) error {
	st, err := h.store.ReadAccount(ctx, a.Account)
	if err != nil {
		return fmt.Errorf("final_state read %s: %w", a.Account, err)
	}

	actual := map[string]uint64{
		"granted":   st.Granted,
		"vested":    st.Vested,
		"exercised": st.Exercised,
	}
	for name, want := range a.Expect {
		got, ok := actual[name]
		if !ok {
			return fmt.Errorf("final_state: unknown balance %q", name)
		}
		if got != want {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s %s = %d", a.Account, name, want),
				Actual:   fmt.Sprintf("%d", got),
				Trace:    trace,
			}
		}
	}
	return nil
}

package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: an ordered list of
// ledger operations with expected outcomes, plus assertions over the
// resulting trace and final balances.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Admin is the administrator account. Defaults to "root".
	Admin string `yaml:"admin,omitempty"`

	// Steps is the operation sequence, executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and balances.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is a single scenario operation.
type Step struct {
	// Op is one of grant, schedule, vest, exercise, transfer, advance.
	Op string `yaml:"op"`

	// As is the acting account. Defaults to the scenario administrator.
	As string `yaml:"as,omitempty"`

	// Account is the operation target: the grantee for grant and
	// schedule, the recipient for transfer.
	Account string `yaml:"account,omitempty"`

	// Amount is the option count for grant and transfer.
	Amount uint64 `yaml:"amount,omitempty"`

	// Deadline is the vesting deadline for schedule, in seconds after
	// the scenario start.
	Deadline int64 `yaml:"deadline,omitempty"`

	// Seconds is how far an advance step moves the clock.
	Seconds int64 `yaml:"seconds,omitempty"`

	// Expect validates the step outcome. A step without an expect
	// clause must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// Error is the expected rejection code, e.g. "UNAUTHORIZED".
	// Empty means the step must succeed.
	Error string `yaml:"error,omitempty"`

	// Moved is the expected settled or exercised amount, for vest and
	// exercise steps.
	Moved *uint64 `yaml:"moved,omitempty"`
}

// Assertion validates the trace or final account state.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count,
	// final_state.
	Type string `yaml:"type"`

	// Kind is the record kind (trace_contains, trace_count).
	Kind string `yaml:"kind,omitempty"`

	// Account is the record subject (trace_contains) or the queried
	// account (final_state).
	Account string `yaml:"account,omitempty"`

	// Counterparty is the expected record counterparty (trace_contains).
	Counterparty string `yaml:"counterparty,omitempty"`

	// Amount is the expected record amount (trace_contains).
	// Nil means any amount matches.
	Amount *uint64 `yaml:"amount,omitempty"`

	// Count is the expected number of records (trace_count).
	Count int `yaml:"count,omitempty"`

	// Kinds is the expected relative order of kinds (trace_order).
	Kinds []string `yaml:"kinds,omitempty"`

	// Expect maps granted/vested/exercised to expected balances
	// (final_state). Only named balances are checked.
	Expect map[string]uint64 `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario loads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

// LoadScenarios loads every *.yaml scenario in a directory, sorted by
// file name for stable test ordering.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Validate checks scenario structure before execution.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario has no steps")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		switch a.Type {
		case AssertTraceContains, AssertTraceOrder, AssertTraceCount, AssertFinalState:
		default:
			return fmt.Errorf("assertion %d: unknown type %q", i, a.Type)
		}
	}
	return nil
}

func (step Step) validate() error {
	switch step.Op {
	case "grant":
		if step.Account == "" {
			return fmt.Errorf("grant needs an account")
		}
	case "schedule":
		if step.Account == "" {
			return fmt.Errorf("schedule needs an account")
		}
	case "vest", "exercise":
		if step.As == "" {
			return fmt.Errorf("%s needs an acting account", step.Op)
		}
	case "transfer":
		if step.As == "" || step.Account == "" {
			return fmt.Errorf("transfer needs an acting account and a recipient")
		}
	case "advance":
		if step.Seconds <= 0 {
			return fmt.Errorf("advance needs positive seconds")
		}
		if step.Expect != nil {
			return fmt.Errorf("advance takes no expect clause")
		}
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

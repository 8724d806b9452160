// Package plan compiles CUE grant-plan documents into ordered
// administrative steps and applies them through the ledger.
//
// A plan is a declarative batch of grants and schedule changes:
//
//	plan: {
//		steps: [
//			{grant: {account: "alice", amount: 1000}},
//			{schedule: {account: "alice", deadline: 1767225600}},
//		]
//	}
//
// Uses the CUE SDK's Go API directly (not a CLI subprocess).
package plan

import (
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"
)

// Plan is an ordered batch of administrative operations.
type Plan struct {
	Steps []Step
}

// Step is one operation in a plan. Exactly one of Grant or Schedule
// is set.
type Step struct {
	Grant    *GrantStep
	Schedule *ScheduleStep
}

// GrantStep issues locked options to an account.
type GrantStep struct {
	Account string
	Amount  uint64
}

// ScheduleStep sets an account's vesting deadline, given in the plan
// as Unix seconds.
type ScheduleStep struct {
	Account  string
	Deadline time.Time
}

// CompileError reports a malformed plan document with the CUE source
// position when available.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadFile reads and compiles a plan document from disk.
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileString(string(data), cue.Filename(path))
	return Compile(v)
}

// Compile parses a CUE value into a Plan.
func Compile(v cue.Value) (*Plan, error) {
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("invalid plan document: %w", err)
	}

	stepsVal := v.LookupPath(cue.ParsePath("plan.steps"))
	if !stepsVal.Exists() {
		return nil, &CompileError{
			Field:   "plan.steps",
			Message: "plan.steps is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := stepsVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "plan.steps",
			Message: "plan.steps must be a list",
			Pos:     stepsVal.Pos(),
		}
	}

	p := &Plan{}
	for i := 0; iter.Next(); i++ {
		step, err := compileStep(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		p.Steps = append(p.Steps, step)
	}

	if len(p.Steps) == 0 {
		return nil, &CompileError{
			Field:   "plan.steps",
			Message: "at least one step is required",
			Pos:     stepsVal.Pos(),
		}
	}
	return p, nil
}

func compileStep(v cue.Value, idx int) (Step, error) {
	field := fmt.Sprintf("plan.steps[%d]", idx)

	grantVal := v.LookupPath(cue.ParsePath("grant"))
	schedVal := v.LookupPath(cue.ParsePath("schedule"))

	switch {
	case grantVal.Exists() && schedVal.Exists():
		return Step{}, &CompileError{
			Field:   field,
			Message: "step declares both grant and schedule; exactly one is allowed",
			Pos:     v.Pos(),
		}
	case grantVal.Exists():
		account, err := stepAccount(grantVal, field+".grant")
		if err != nil {
			return Step{}, err
		}
		amount, err := grantVal.LookupPath(cue.ParsePath("amount")).Uint64()
		if err != nil {
			return Step{}, &CompileError{
				Field:   field + ".grant.amount",
				Message: "amount must be a non-negative integer",
				Pos:     grantVal.Pos(),
			}
		}
		return Step{Grant: &GrantStep{Account: account, Amount: amount}}, nil
	case schedVal.Exists():
		account, err := stepAccount(schedVal, field+".schedule")
		if err != nil {
			return Step{}, err
		}
		deadline, err := schedVal.LookupPath(cue.ParsePath("deadline")).Int64()
		if err != nil {
			return Step{}, &CompileError{
				Field:   field + ".schedule.deadline",
				Message: "deadline must be an integer Unix timestamp",
				Pos:     schedVal.Pos(),
			}
		}
		return Step{Schedule: &ScheduleStep{
			Account:  account,
			Deadline: time.Unix(deadline, 0).UTC(),
		}}, nil
	default:
		return Step{}, &CompileError{
			Field:   field,
			Message: "step must declare grant or schedule",
			Pos:     v.Pos(),
		}
	}
}

func stepAccount(v cue.Value, field string) (string, error) {
	account, err := v.LookupPath(cue.ParsePath("account")).String()
	if err != nil || account == "" {
		return "", &CompileError{
			Field:   field + ".account",
			Message: "account must be a non-empty string",
			Pos:     v.Pos(),
		}
	}
	return account, nil
}

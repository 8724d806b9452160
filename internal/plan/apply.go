package plan

import (
	"context"
	"fmt"

	"github.com/roach88/vestd/internal/ledger"
)

// Apply executes the plan's steps in order through the ledger as
// caller. Each step is its own all-or-nothing ledger operation, so on
// failure the already-applied steps stand; the return value reports
// how many landed and the error identifies the failing step.
func Apply(ctx context.Context, l *ledger.Ledger, caller string, p *Plan) (applied int, err error) {
	for i, step := range p.Steps {
		switch {
		case step.Grant != nil:
			err = l.Grant(ctx, caller, step.Grant.Account, step.Grant.Amount)
		case step.Schedule != nil:
			err = l.SetVestingSchedule(ctx, caller, step.Schedule.Account, step.Schedule.Deadline)
		default:
			err = fmt.Errorf("empty step")
		}
		if err != nil {
			return i, fmt.Errorf("plan step %d: %w", i+1, err)
		}
	}
	return len(p.Steps), nil
}

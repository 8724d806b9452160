package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"
)

// ScheduleOptions holds flags for the schedule command.
type ScheduleOptions struct {
	*RootOptions
}

// NewScheduleCommand creates the schedule command.
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScheduleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schedule <account> <deadline>",
		Short: "Set an account's vesting deadline",
		Long: `Set an account's vesting deadline.

Scheduling is an administrator operation. The deadline must be strictly
in the future and the account must hold an outstanding grant. Accepted
deadline forms:

  +<duration>   relative to now, e.g. +720h
  <unix>        seconds since the epoch, e.g. 1767225600
  <RFC3339>     e.g. 2027-01-01T00:00:00Z

Example:
  vestd schedule alice +8760h`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd, opts, args[0], args[1])
		},
	}

	return cmd
}

func runSchedule(cmd *cobra.Command, opts *ScheduleOptions, account, deadlineArg string) error {
	rt, err := openRuntime(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	deadline, err := parseDeadline(deadlineArg, rt.ledger.CurrentTime())
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid deadline", err)
	}

	caller := rt.adminCaller(opts.RootOptions)
	if err := rt.ledger.SetVestingSchedule(cmd.Context(), caller, account, deadline); err != nil {
		return wrapLedgerError(err)
	}

	out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
	result := struct {
		Account  string    `json:"account"`
		Deadline time.Time `json:"deadline"`
	}{Account: account, Deadline: deadline.UTC()}
	return out.Emit(result, func(p *message.Printer, w io.Writer) {
		p.Fprintf(w, "%s vests at %s\n", account, deadline.UTC().Format(time.RFC3339))
	})
}

// parseDeadline accepts a relative duration (+720h), unix seconds, or
// an RFC3339 timestamp.
func parseDeadline(s string, now time.Time) (time.Time, error) {
	if len(s) > 1 && s[0] == '+' {
		d, err := time.ParseDuration(s[1:])
		if err != nil {
			return time.Time{}, fmt.Errorf("bad relative deadline %q: %w", s, err)
		}
		return now.Add(d), nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("deadline %q is not +duration, unix seconds, or RFC3339", s)
	}
	return t, nil
}

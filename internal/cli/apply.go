package cli

import (
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/roach88/vestd/internal/plan"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <plan.cue>",
		Short: "Apply a grant plan",
		Long: `Apply a grant plan written in CUE.

A plan is an ordered list of grant and schedule steps executed as the
acting administrator. Steps apply in order; the first rejected step
aborts the remainder of the plan. Already-applied steps stand.

Example plan:

  plan: steps: [
    {grant: {account: "alice", amount: 10000}},
    {schedule: {account: "alice", deadline: 1798761600}},
  ]

Example:
  vestd apply grants.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, opts, args[0])
		},
	}

	return cmd
}

func runApply(cmd *cobra.Command, opts *ApplyOptions, path string) error {
	p, err := plan.LoadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load plan", err)
	}

	rt, err := openRuntime(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	caller := rt.adminCaller(opts.RootOptions)
	applied, applyErr := plan.Apply(cmd.Context(), rt.ledger, caller, p)

	out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
	result := struct {
		Plan    string `json:"plan"`
		Steps   int    `json:"steps"`
		Applied int    `json:"applied"`
	}{Plan: path, Steps: len(p.Steps), Applied: applied}
	if err := out.Emit(result, func(pr *message.Printer, w io.Writer) {
		pr.Fprintf(w, "applied %d of %d plan steps\n", applied, len(p.Steps))
	}); err != nil {
		return err
	}

	if applyErr != nil {
		return wrapLedgerError(applyErr)
	}
	return nil
}

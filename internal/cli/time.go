package cli

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"
)

// TimeOptions holds flags for the time command.
type TimeOptions struct {
	*RootOptions
}

// NewTimeCommand creates the time command.
func NewTimeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TimeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "time",
		Short: "Show the ledger's current time",
		Long: `Show the time the ledger would stamp on an operation right now.

Every deadline comparison in the ledger uses this clock, so this is
the reference point for schedule arguments.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTime(cmd, opts)
		},
	}

	return cmd
}

func runTime(cmd *cobra.Command, opts *TimeOptions) error {
	rt, err := openRuntime(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	now := rt.ledger.CurrentTime()

	out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
	result := struct {
		Now  time.Time `json:"now"`
		Unix int64     `json:"unix"`
	}{Now: now, Unix: now.Unix()}
	return out.Emit(result, func(p *message.Printer, w io.Writer) {
		p.Fprintf(w, "%s\n", now.Format(time.RFC3339))
	})
}

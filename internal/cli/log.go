package cli

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/roach88/vestd/internal/query"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Kinds    []string
	Since    string
	Until    string
	AfterSeq int64
	Limit    int
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log [account]",
		Short: "Show the observable record log",
		Long: `Show the append-only record log, oldest first.

With an account argument, only records naming that account (as subject
or counterparty) are shown. Flags narrow the result further; all
conditions must hold.

Example:
  vestd log alice --kind options-transferred --since 2026-01-01T00:00:00Z`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			account := ""
			if len(args) == 1 {
				account = args[0]
			}
			return runLog(cmd, opts, account)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Kinds, "kind", nil, "record kind to include (repeatable)")
	cmd.Flags().StringVar(&opts.Since, "since", "", "inclusive lower time bound (RFC3339)")
	cmd.Flags().StringVar(&opts.Until, "until", "", "exclusive upper time bound (RFC3339)")
	cmd.Flags().Int64Var(&opts.AfterSeq, "after-seq", 0, "only records with seq strictly greater")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum records to show (0 = all)")

	return cmd
}

func runLog(cmd *cobra.Command, opts *LogOptions, account string) error {
	filter, err := buildLogFilter(opts, account)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid log filter", err)
	}

	rt, err := openRuntime(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	events, err := rt.store.Query(cmd.Context(), filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read record log", err)
	}

	out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
	return out.Emit(events, func(p *message.Printer, w io.Writer) {
		for _, ev := range events {
			if ev.Counterparty != "" {
				p.Fprintf(w, "%6d  %s  %-20s %s -> %s  %d\n",
					ev.Seq, ev.At.UTC().Format(time.RFC3339), string(ev.Kind),
					ev.Account, ev.Counterparty, ev.Amount)
				continue
			}
			p.Fprintf(w, "%6d  %s  %-20s %s  %d\n",
				ev.Seq, ev.At.UTC().Format(time.RFC3339), string(ev.Kind),
				ev.Account, ev.Amount)
		}
	})
}

func buildLogFilter(opts *LogOptions, account string) (query.Filter, error) {
	f := query.Filter{
		Kinds:    opts.Kinds,
		Account:  account,
		AfterSeq: opts.AfterSeq,
		Limit:    opts.Limit,
	}
	if opts.Since != "" {
		t, err := time.Parse(time.RFC3339, opts.Since)
		if err != nil {
			return f, err
		}
		f.Since = t
	}
	if opts.Until != "" {
		t, err := time.Parse(time.RFC3339, opts.Until)
		if err != nil {
			return f, err
		}
		f.Until = t
	}
	return f, f.Validate()
}

package cli

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"
)

// CountdownOptions holds flags for the countdown command.
type CountdownOptions struct {
	*RootOptions
}

// NewCountdownCommand creates the countdown command.
func NewCountdownCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountdownOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "countdown [account]",
		Short: "Show time remaining until an account's grant vests",
		Long: `Show the time remaining until an account's grant vests.

Zero once the deadline has passed. Readable by the account itself or
the administrator. The account defaults to the acting account.

Example:
  vestd countdown --as alice`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			account := ""
			if len(args) == 1 {
				account = args[0]
			}
			return runCountdown(cmd, opts, account)
		},
	}

	return cmd
}

func runCountdown(cmd *cobra.Command, opts *CountdownOptions, account string) error {
	rt, err := openRuntime(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	caller := rt.adminCaller(opts.RootOptions)
	if account == "" {
		account = caller
	}

	remaining, err := rt.ledger.VestingCountdown(cmd.Context(), caller, account)
	if err != nil {
		return wrapLedgerError(err)
	}

	out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
	result := struct {
		Account   string  `json:"account"`
		Remaining string  `json:"remaining"`
		Seconds   float64 `json:"seconds"`
	}{Account: account, Remaining: remaining.String(), Seconds: remaining.Seconds()}
	return out.Emit(result, func(p *message.Printer, w io.Writer) {
		if remaining == 0 {
			p.Fprintf(w, "%s: grant is due now\n", account)
			return
		}
		p.Fprintf(w, "%s vests in %s\n", account, remaining.Round(time.Second))
	})
}

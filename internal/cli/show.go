package cli

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/roach88/vestd/internal/ledger"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <account>",
		Short: "Show an account's balances and schedule",
		Long: `Show an account's granted, vested, and exercised balances.

The grant record is public. The vested and exercised balances are
readable only by the account itself or the administrator; the acting
account defaults to the configured administrator when --as is absent.

Example:
  vestd show alice --as alice`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, args[0])
		},
	}

	return cmd
}

func runShow(cmd *cobra.Command, opts *ShowOptions, account string) error {
	rt, err := openRuntime(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	caller := rt.adminCaller(opts.RootOptions)

	rec, err := rt.ledger.AccountRecord(ctx, account)
	if err != nil {
		return wrapLedgerError(err)
	}
	vested, err := rt.ledger.VestedOptions(ctx, caller, account)
	if err != nil {
		return wrapLedgerError(err)
	}
	exercised, err := rt.ledger.ExercisedOptions(ctx, caller, account)
	if err != nil {
		return wrapLedgerError(err)
	}

	out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
	result := struct {
		Account   string `json:"account"`
		Granted   uint64 `json:"granted"`
		Deadline  string `json:"deadline"`
		Vested    uint64 `json:"vested"`
		Exercised uint64 `json:"exercised"`
	}{
		Account:   account,
		Granted:   rec.Granted,
		Deadline:  deadlineString(rec.Deadline),
		Vested:    vested,
		Exercised: exercised,
	}
	return out.Emit(result, func(p *message.Printer, w io.Writer) {
		p.Fprintf(w, "account:   %s\n", account)
		p.Fprintf(w, "granted:   %d (vests %s)\n", rec.Granted, deadlineString(rec.Deadline))
		p.Fprintf(w, "vested:    %d\n", vested)
		p.Fprintf(w, "exercised: %d\n", exercised)
	})
}

func deadlineString(d ledger.Deadline) string {
	if d.State == ledger.DeadlineAt {
		return d.At.UTC().Format(time.RFC3339)
	}
	return d.State.String()
}

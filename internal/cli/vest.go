package cli

import (
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"
)

// VestOptions holds flags for the vest command.
type VestOptions struct {
	*RootOptions
}

// NewVestCommand creates the vest command.
func NewVestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "vest",
		Short: "Settle the acting account's due grant into vested balance",
		Long: `Settle the acting account's due grant into vested balance.

Moves the entire outstanding grant to the vested balance once the
deadline has passed. Settling before the deadline is not an error;
it simply moves nothing. Requires --as.

Example:
  vestd vest --as alice`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVest(cmd, opts)
		},
	}

	return cmd
}

func runVest(cmd *cobra.Command, opts *VestOptions) error {
	caller, err := employeeCaller(opts.RootOptions)
	if err != nil {
		return err
	}

	rt, err := openRuntime(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	moved, err := rt.ledger.VestOptions(cmd.Context(), caller)
	if err != nil {
		return wrapLedgerError(err)
	}

	out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
	result := struct {
		Account string `json:"account"`
		Vested  uint64 `json:"vested"`
	}{Account: caller, Vested: moved}
	return out.Emit(result, func(p *message.Printer, w io.Writer) {
		if moved == 0 {
			p.Fprintf(w, "nothing due for %s\n", caller)
			return
		}
		p.Fprintf(w, "%d options vested for %s\n", moved, caller)
	})
}

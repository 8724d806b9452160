package cli

import (
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"
)

// TransferOptions holds flags for the transfer command.
type TransferOptions struct {
	*RootOptions
}

// NewTransferCommand creates the transfer command.
func NewTransferCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "transfer <recipient> <amount>",
		Short: "Transfer vested options to another account",
		Long: `Transfer vested options from the acting account to a recipient.

The recipient must be a known account: one that has held a grant or
holds balance. A due grant on the acting account is settled first so
the full vested balance is available. Requires --as.

Example:
  vestd transfer bob 250 --as alice`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(cmd, opts, args[0], args[1])
		},
	}

	return cmd
}

func runTransfer(cmd *cobra.Command, opts *TransferOptions, recipient, amountArg string) error {
	caller, err := employeeCaller(opts.RootOptions)
	if err != nil {
		return err
	}
	amount, err := parseAmount(amountArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid amount", err)
	}

	rt, err := openRuntime(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.ledger.TransferOptions(cmd.Context(), caller, recipient, amount); err != nil {
		return wrapLedgerError(err)
	}

	out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
	result := struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Amount uint64 `json:"amount"`
	}{From: caller, To: recipient, Amount: amount}
	return out.Emit(result, func(p *message.Printer, w io.Writer) {
		p.Fprintf(w, "transferred %d options from %s to %s\n", amount, caller, recipient)
	})
}

package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"
)

// GrantOptions holds flags for the grant command.
type GrantOptions struct {
	*RootOptions
}

// NewGrantCommand creates the grant command.
func NewGrantCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GrantOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "grant <account> <amount>",
		Short: "Grant locked options to an employee account",
		Long: `Grant locked options to an employee account.

Granting is an administrator operation. The amount is added to the
account's locked balance and any outstanding vesting schedule is
settled first. The new grant carries no schedule until one is set.

Example:
  vestd grant alice 10000`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrant(cmd, opts, args[0], args[1])
		},
	}

	return cmd
}

func runGrant(cmd *cobra.Command, opts *GrantOptions, account, amountArg string) error {
	amount, err := parseAmount(amountArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid amount", err)
	}

	rt, err := openRuntime(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	caller := rt.adminCaller(opts.RootOptions)
	if err := rt.ledger.Grant(cmd.Context(), caller, account, amount); err != nil {
		return wrapLedgerError(err)
	}

	out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
	result := struct {
		Account string `json:"account"`
		Granted uint64 `json:"granted"`
	}{Account: account, Granted: amount}
	return out.Emit(result, func(p *message.Printer, w io.Writer) {
		p.Fprintf(w, "granted %d options to %s\n", amount, account)
	})
}

// parseAmount parses an option count. Zero is left to the ledger to
// judge: a zero grant is a valid row-creating no-op, a zero transfer
// is rejected there.
func parseAmount(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a non-negative integer", s)
	}
	return n, nil
}

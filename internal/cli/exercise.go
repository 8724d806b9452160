package cli

import (
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"
)

// ExerciseOptions holds flags for the exercise command.
type ExerciseOptions struct {
	*RootOptions
}

// NewExerciseCommand creates the exercise command.
func NewExerciseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExerciseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Exercise the acting account's entire vested balance",
		Long: `Exercise the acting account's entire vested balance.

Converts all vested options to exercised. Exercised balance is
terminal: it never moves again. A due grant is settled first so the
full amount is exercised. Requires --as.

Example:
  vestd exercise --as alice`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExercise(cmd, opts)
		},
	}

	return cmd
}

func runExercise(cmd *cobra.Command, opts *ExerciseOptions) error {
	caller, err := employeeCaller(opts.RootOptions)
	if err != nil {
		return err
	}

	rt, err := openRuntime(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	moved, err := rt.ledger.ExerciseOptions(cmd.Context(), caller)
	if err != nil {
		return wrapLedgerError(err)
	}

	out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
	result := struct {
		Account   string `json:"account"`
		Exercised uint64 `json:"exercised"`
	}{Account: caller, Exercised: moved}
	return out.Emit(result, func(p *message.Printer, w io.Writer) {
		p.Fprintf(w, "%d options exercised for %s\n", moved, caller)
	})
}

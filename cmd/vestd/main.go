// Command vestd is the equity option grant ledger CLI.
//
// Usage:
//
//	vestd grant alice 10000
//	vestd schedule alice +8760h
//	vestd vest --as alice
//	vestd exercise --as alice
//	vestd transfer bob 250 --as alice
//	vestd show alice
//	vestd log
//
// Exit codes: 0 on success, 1 when the ledger rejects the operation,
// 2 on command or infrastructure errors.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/vestd/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/portodash"
	"github.com/etnz/portodash/renderer"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	daily bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display recorded snapshots" }
func (*historyCmd) Usage() string {
	return `podo history [-daily]

  Displays the snapshot history, one row per recorded holding. With -daily,
  displays one row per day with the portfolio value recorded that day.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.daily, "daily", false, "One row per day instead of per holding.")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rows, err := portodash.NewHistory(*historyFile).Rows()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read snapshot history: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(rows) == 0 {
		fmt.Println("No snapshots recorded yet. Run 'podo snapshot' first.")
		return subcommands.ExitSuccess
	}

	if c.daily {
		printMarkdown(renderer.DailyMarkdown(rows))
	} else {
		printMarkdown(renderer.HistoryMarkdown(rows))
	}
	return subcommands.ExitSuccess
}

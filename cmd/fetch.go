package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/portodash/renderer"
)

type fetchCmd struct{}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetches current prices for the portfolio" }
func (*fetchCmd) Usage() string {
	return `podo fetch [<ticker>...]

Resolves current prices for the given tickers, or for every holding of the
portfolio when none is given, and prints them with their provenance.

Prices come from Yahoo Finance first, then Financial Modeling Prep and Alpha
Vantage when API keys are configured, then from the snapshot history.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tickers := f.Args()
	if len(tickers) == 0 {
		p, err := OpenPortfolio()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not load portfolio: %v\n", err)
			return subcommands.ExitFailure
		}
		tickers = p.Tickers()
	}
	if len(tickers) == 0 {
		fmt.Println("Nothing to fetch: the portfolio has no holdings.")
		return subcommands.ExitSuccess
	}

	res := newResolver().Resolve(ctx, tickers)
	printMarkdown(renderer.QuotesMarkdown(res))
	return subcommands.ExitSuccess
}

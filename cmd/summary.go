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

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio valued in its base currency" }
func (*summaryCmd) Usage() string {
	return `podo summary

  Resolves current prices, converts foreign positions with cached FX rates,
  and displays the portfolio valuation.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := OpenPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	res := newResolver().Resolve(ctx, p.Tickers())

	currencies := make([]string, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		currencies = append(currencies, h.EffectiveCurrency())
	}
	rates := newFxCache().GetRates(currencies, p.BaseCurrency)

	v := portodash.Value(p.Holdings, res, rates, p.BaseCurrency)
	printMarkdown(renderer.SummaryMarkdown(&v, res))
	return subcommands.ExitSuccess
}

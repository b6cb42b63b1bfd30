package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"
)

// fxCmd holds the flags for the 'fx' subcommand.
type fxCmd struct{}

func (*fxCmd) Name() string     { return "fx" }
func (*fxCmd) Synopsis() string { return "display the FX rates used for valuation" }
func (*fxCmd) Usage() string {
	return `podo fx [<currency>...]

  Displays the conversion rate to the portfolio's base currency for the
  given currencies, or for every currency the portfolio holds.
`
}

func (c *fxCmd) SetFlags(f *flag.FlagSet) {}

func (c *fxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := OpenPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	currencies := f.Args()
	if len(currencies) == 0 {
		for _, h := range p.Holdings {
			currencies = append(currencies, h.EffectiveCurrency())
		}
	}

	rates := newFxCache().GetRates(currencies, p.BaseCurrency)
	if len(rates) == 0 {
		fmt.Printf("No rates to display: everything is already in %s, or rates are unavailable.\n", p.BaseCurrency)
		return subcommands.ExitSuccess
	}

	codes := make([]string, 0, len(rates))
	for code := range rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("FX Rates to %s", p.BaseCurrency))
	table := md.TableSet{Header: []string{"Currency", "Rate"}}
	for _, code := range codes {
		table.Rows = append(table.Rows, []string{code, fmt.Sprintf("%.6f", rates[code])})
	}
	doc.Table(table)
	printMarkdown(doc.String())
	return subcommands.ExitSuccess
}

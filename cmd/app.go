// Package cmd implements the CLI application to track a portfolio.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/etnz/portodash"
	"github.com/etnz/portodash/alphavantage"
	"github.com/etnz/portodash/fmp"
	"github.com/etnz/portodash/yahoo"
)

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&fetchCmd{},
	&summaryCmd{},
	&snapshotCmd{},
	&historyCmd{},
	&fxCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioFile = flag.String("portfolio-file", "portfolio.json", "Path to the portfolio holdings file (JSON format)")
var historyFile = flag.String("historical-csv", "historical.csv", "Path to the snapshot history file (CSV format)")
var fxCacheFile = flag.String("fx-cache", "fx_rates.json", "Path to the FX rate cache file")

const (
	fmpKeyEnv = "FMP_API_KEY"
	avKeyEnv  = "ALPHAVANTAGE_API_KEY"
)

var fmpKeyFlag = flag.String("fmp-api-key", "", "Financial Modeling Prep API key.\n If missing it will read the environment variable \""+fmpKeyEnv+"\". You can get one at https://financialmodelingprep.com/")
var avKeyFlag = flag.String("alphavantage-api-key", "", "Alpha Vantage API key.\n If missing it will read the environment variable \""+avKeyEnv+"\". You can get one at https://www.alphavantage.co/")

func fmpApiKey() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *fmpKeyFlag == "" {
		*fmpKeyFlag = os.Getenv(fmpKeyEnv)
	}
	return *fmpKeyFlag
}

func alphavantageApiKey() string {
	if *avKeyFlag == "" {
		*avKeyFlag = os.Getenv(avKeyEnv)
	}
	return *avKeyFlag
}

// rateLimit persists for the life of the process so repeated commands in one
// run share the cooldown.
var rateLimit portodash.RateLimitState

// newResolver builds the price waterfall: Yahoo always, then the keyed
// sources in order when their keys are set.
func newResolver() *portodash.Resolver {
	adapters := []portodash.Adapter{yahoo.New()}
	if key := fmpApiKey(); key != "" {
		adapters = append(adapters, fmp.New(key))
	}
	if key := alphavantageApiKey(); key != "" {
		adapters = append(adapters, portodash.Paced(alphavantage.New(key), alphavantage.Delay))
	}
	r := portodash.NewResolver(&rateLimit, adapters...)
	r.History = portodash.NewHistory(*historyFile)
	return r
}

// OpenPortfolio loads the portfolio from the app portfolio file.
func OpenPortfolio() (*portodash.Portfolio, error) {
	return portodash.LoadPortfolio(*portfolioFile)
}

func newFxCache() *portodash.FxCache {
	return &portodash.FxCache{Path: *fxCacheFile}
}

// printMarkdown renders markdown to the terminal; when rendering fails the
// raw markdown is still printed.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering markdown: %v\n", err)
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

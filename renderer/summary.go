package renderer

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/etnz/portodash"
)

// SummaryMarkdown renders the portfolio valuation as a markdown report: one
// row per position, largest first, followed by the consolidated totals.
func SummaryMarkdown(v *portodash.Valuation, res portodash.Resolution) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Summary (%s)", v.Currency))
	doc.PlainText(fmt.Sprintf("Prices as of %s (%s)", observedLabel(res.FetchedAt), sourceLabel(res.Source)))

	table := md.TableSet{
		Header: []string{"Ticker", "Account", "Shares", "Price", "Value", "Gain", "Alloc", "Quote"},
	}
	for _, pos := range v.Positions {
		table.Rows = append(table.Rows, []string{
			pos.Ticker,
			pos.Account,
			pos.Shares.String(),
			price(pos.Price),
			pos.MarketValue.String(),
			pos.Gain.SignedString(),
			percent(pos.Allocation),
			sourceLabel(pos.Source),
		})
	}
	doc.Table(table)

	doc.PlainText(fmt.Sprintf("Total Value: %s", v.TotalValue))
	doc.PlainText(fmt.Sprintf("Total Cost: %s", v.TotalCost))
	doc.PlainText(fmt.Sprintf("Total Gain: %s", v.TotalGain.SignedString()))

	if len(v.Unconverted) > 0 {
		doc.PlainText(fmt.Sprintf("Excluded from totals (no FX rate): %s", strings.Join(v.Unconverted, ", ")))
	}
	return doc.String()
}

package renderer

import (
	"bytes"
	"fmt"
	"sort"

	md "github.com/nao1215/markdown"

	"github.com/etnz/portodash"
)

// QuotesMarkdown renders a price resolution as a markdown table, one row per
// requested ticker in lexical order, with each quote's provenance.
func QuotesMarkdown(res portodash.Resolution) string {
	tickers := make([]string, 0, len(res.Quotes))
	for ticker := range res.Quotes {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Quotes")
	doc.PlainText(fmt.Sprintf("Resolved at %s (%s)", observedLabel(res.FetchedAt), sourceLabel(res.Source)))

	table := md.TableSet{Header: []string{"Ticker", "Price", "Observed", "Source"}}
	for _, ticker := range tickers {
		q := res.Quotes[ticker]
		priceCell := "-"
		if q.Valid {
			priceCell = fmt.Sprintf("%.4f", q.Price)
		}
		table.Rows = append(table.Rows, []string{
			ticker,
			priceCell,
			observedLabel(q.ObservedAt),
			sourceLabel(q.Source),
		})
	}
	doc.Table(table)
	return doc.String()
}

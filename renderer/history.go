package renderer

import (
	"bytes"

	md "github.com/nao1215/markdown"

	"github.com/etnz/portodash"
)

// HistoryMarkdown renders the snapshot history as one markdown table, rows in
// file order (oldest first).
func HistoryMarkdown(rows []portodash.SnapshotRow) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Snapshot History")

	table := md.TableSet{Header: []string{"Date", "Account", "Ticker", "Shares", "Price", "Value", "Alloc"}}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Day().String(),
			row.Account,
			row.Ticker,
			row.Shares.String(),
			row.Price.String(),
			row.CurrentValue.String(),
			row.AllocationPct.String(),
		})
	}
	doc.Table(table)
	return doc.String()
}

// DailyMarkdown renders one line per snapshot day with the portfolio value
// recorded that day, oldest first.
func DailyMarkdown(rows []portodash.SnapshotRow) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Portfolio Value by Day")

	table := md.TableSet{Header: []string{"Date", "Portfolio Value"}}
	var lastDay portodash.Date
	for _, row := range rows {
		day := row.Day()
		if day == lastDay {
			continue // all rows of a day share the portfolio value
		}
		lastDay = day
		table.Rows = append(table.Rows, []string{day.String(), row.PortfolioValue.String()})
	}
	doc.Table(table)
	return doc.String()
}

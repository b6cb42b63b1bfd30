package portodash

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
)

// This file contains the durable snapshot store: a row-oriented CSV history of
// daily portfolio snapshots. The file is the only resource shared across
// process invocations (a scheduled job and an interactive session), so writers
// serialize on a lock file and replace the file atomically.

// snapshotHeader fixes the column order and encoding. Subsequent writes
// preserve it so older readers keep working.
var snapshotHeader = []string{
	"date", "account", "ticker", "shares", "cost_basis",
	"price", "current_value", "portfolio_value", "allocation_pct",
}

// SnapshotRow is one holding's dated record in the snapshot history.
//
// All rows written in the same batch share the same PortfolioValue, and their
// CurrentValue sum to it.
type SnapshotRow struct {
	Date           time.Time // full timestamp, UTC
	Account        string
	Ticker         string
	Shares         decimal.Decimal
	CostBasis      decimal.Decimal
	Price          decimal.Decimal
	CurrentValue   decimal.Decimal
	PortfolioValue decimal.Decimal
	AllocationPct  decimal.Decimal
}

// Day returns the UTC calendar day the row belongs to, the key of the
// upsert-by-day semantics.
func (r SnapshotRow) Day() Date { return DateOf(r.Date) }

// History is the snapshot store backed by a single CSV file.
type History struct {
	Path string
}

// NewHistory returns a snapshot store over the given CSV file. The file does
// not need to exist yet.
func NewHistory(path string) *History { return &History{Path: path} }

// Rows reads all snapshot rows in file order. A missing file yields no rows
// and no error; a present but malformed file is an error.
func (h *History) Rows() ([]SnapshotRow, error) {
	f, err := os.Open(h.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open snapshot history %q: %w", h.Path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read snapshot history %q: %w", h.Path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]SnapshotRow, 0, len(records)-1)
	for i, rec := range records[1:] { // skip header
		row, err := decodeSnapshotRow(rec)
		if err != nil {
			return nil, fmt.Errorf("snapshot history %q line %d: %w", h.Path, i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append computes the snapshot rows for the given holdings and quotes, then
// upserts them for the UTC day of observedAt: any existing rows of that day
// are replaced, rows of other days are untouched and keep their order.
//
// The write is all-or-nothing: rows are written to a temporary file that
// atomically replaces the history, and concurrent writers serialize on a lock
// file. It returns the rows written for the day.
func (h *History) Append(holdings []Holding, quotes map[string]Quote, observedAt time.Time) ([]SnapshotRow, error) {
	written := buildSnapshotRows(holdings, quotes, observedAt)

	unlock, err := h.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := h.Rows()
	if err != nil {
		return nil, err
	}

	day := DateOf(observedAt)
	kept := make([]SnapshotRow, 0, len(existing)+len(written))
	for _, row := range existing {
		if row.Day() != day {
			kept = append(kept, row)
		}
	}
	kept = append(kept, written...)

	if err := h.rewrite(kept); err != nil {
		return nil, err
	}
	return written, nil
}

// buildSnapshotRows computes one row per holding: current_value = shares×price
// (zero when the price is unavailable), portfolio_value = Σ current_value over
// the batch, allocation_pct = current_value / portfolio_value.
func buildSnapshotRows(holdings []Holding, quotes map[string]Quote, observedAt time.Time) []SnapshotRow {
	rows := make([]SnapshotRow, 0, len(holdings))
	total := decimal.Zero
	for _, hd := range holdings {
		q := quotes[hd.Ticker]
		price := decimal.NewFromFloat(q.PriceOrZero())
		value := hd.Shares.Decimal().Mul(price)
		total = total.Add(value)
		rows = append(rows, SnapshotRow{
			Date:         observedAt.UTC(),
			Account:      hd.Account,
			Ticker:       hd.Ticker,
			Shares:       hd.Shares.Decimal(),
			CostBasis:    hd.CostBasis.Decimal(),
			Price:        price,
			CurrentValue: value,
		})
	}
	for i := range rows {
		rows[i].PortfolioValue = total
		if total.IsPositive() {
			rows[i].AllocationPct = rows[i].CurrentValue.Div(total)
		} else {
			rows[i].AllocationPct = decimal.Zero
		}
	}
	return rows
}

// rewrite replaces the history file with the given rows via temp-then-rename.
func (h *History) rewrite(rows []SnapshotRow) error {
	dir := filepath.Dir(h.Path)
	tmp, err := os.CreateTemp(dir, ".historical-*.csv")
	if err != nil {
		return fmt.Errorf("cannot create temporary snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	cw := csv.NewWriter(tmp)
	if err := cw.Write(snapshotHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, row := range rows {
		if err := cw.Write(encodeSnapshotRow(row)); err != nil {
			tmp.Close()
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write snapshot history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write snapshot history: %w", err)
	}
	if err := os.Rename(tmp.Name(), h.Path); err != nil {
		return fmt.Errorf("cannot replace snapshot history %q: %w", h.Path, err)
	}
	return nil
}

// lock serializes concurrent writers on a lock file next to the history.
func (h *History) lock() (unlock func(), err error) {
	lockPath := h.Path + ".lock"
	for i := 0; i < 50; i++ {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			f.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("cannot acquire snapshot lock %q: %w", lockPath, err)
		}
		time.Sleep(100 * time.Millisecond)
	}
	return nil, fmt.Errorf("timed out waiting for snapshot lock %q", lockPath)
}

func encodeSnapshotRow(r SnapshotRow) []string {
	return []string{
		r.Date.UTC().Format(time.RFC3339),
		r.Account,
		r.Ticker,
		r.Shares.String(),
		r.CostBasis.String(),
		r.Price.String(),
		r.CurrentValue.String(),
		r.PortfolioValue.String(),
		r.AllocationPct.String(),
	}
}

func decodeSnapshotRow(rec []string) (SnapshotRow, error) {
	if len(rec) != len(snapshotHeader) {
		return SnapshotRow{}, fmt.Errorf("expected %d columns, got %d", len(snapshotHeader), len(rec))
	}
	date, err := parseSnapshotTime(rec[0])
	if err != nil {
		return SnapshotRow{}, err
	}
	row := SnapshotRow{Date: date, Account: rec[1], Ticker: rec[2]}
	for _, field := range []struct {
		name string
		dst  *decimal.Decimal
		src  string
	}{
		{"shares", &row.Shares, rec[3]},
		{"cost_basis", &row.CostBasis, rec[4]},
		{"price", &row.Price, rec[5]},
		{"current_value", &row.CurrentValue, rec[6]},
		{"portfolio_value", &row.PortfolioValue, rec[7]},
		{"allocation_pct", &row.AllocationPct, rec[8]},
	} {
		d, err := decimal.NewFromString(field.src)
		if err != nil {
			return SnapshotRow{}, fmt.Errorf("invalid %s %q: %w", field.name, field.src, err)
		}
		*field.dst = d
	}
	return row, nil
}

// parseSnapshotTime accepts the RFC3339 timestamps this store writes, plus the
// zone-less ISO timestamps and bare dates earlier writers produced.
func parseSnapshotTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.999999999", DateFormat} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

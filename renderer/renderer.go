// Package renderer turns valuation and snapshot data into markdown reports.
// The markdown is either printed raw, piped, or rendered to the terminal by
// the cmd layer.
package renderer

import (
	"fmt"
	"time"

	"github.com/etnz/portodash"
)

// sourceLabel is the human label for a quote's provenance.
func sourceLabel(s portodash.Provenance) string {
	switch s {
	case portodash.SourceLive:
		return "live"
	case portodash.SourceCache:
		return "cache"
	case portodash.SourceMixed:
		return "mixed"
	default:
		return "unavailable"
	}
}

func observedLabel(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}

func price(m portodash.Money) string {
	if m.IsZero() {
		return "-"
	}
	return m.String()
}

func percent(p portodash.Percent) string { return fmt.Sprint(p) }

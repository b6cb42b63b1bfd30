package portodash

import "time"

// Provenance tags where a resolved price came from.
type Provenance string

const (
	// SourceLive means the price was fetched from an upstream provider in this call.
	SourceLive Provenance = "live"
	// SourceCache means the price was recovered from the local snapshot history.
	SourceCache Provenance = "cache"
	// SourceMixed is used at the resolution level when priced quotes disagree on provenance.
	SourceMixed Provenance = "mixed"
	// SourceUnavailable means no price could be found anywhere.
	SourceUnavailable Provenance = "unavailable"
)

// Quote is the resolved price for a single ticker.
//
// A Quote without a price (Valid == false) always carries the unavailable
// provenance. Quotes are created fresh per resolution call and never mutated.
type Quote struct {
	Ticker     string
	Price      float64
	Valid      bool // false when no price could be resolved
	ObservedAt time.Time
	Source     Provenance
}

// PriceOrZero is the single place where "missing price" becomes a number.
// Valuation and snapshot math treat an unavailable price as zero; everything
// else must check Valid.
func (q Quote) PriceOrZero() float64 {
	if !q.Valid {
		return 0
	}
	return q.Price
}

// Resolution is the outcome of one resolver call over a set of tickers.
type Resolution struct {
	Quotes map[string]Quote
	// FetchedAt is the authoritative timestamp of the resolution: the most
	// recent ObservedAt among priced quotes, or the call time when nothing
	// was priced.
	FetchedAt time.Time
	// Source summarizes provenance: live or cache when all priced quotes
	// agree, mixed otherwise, unavailable when no quote has a price.
	Source Provenance
}

// newResolution computes the authoritative timestamp and overall source from
// the per-ticker quotes.
func newResolution(quotes map[string]Quote, callTime time.Time) Resolution {
	var latest time.Time
	overall := Provenance("")
	for _, q := range quotes {
		if !q.Valid {
			continue
		}
		if q.ObservedAt.After(latest) {
			latest = q.ObservedAt
		}
		switch {
		case overall == "":
			overall = q.Source
		case overall != q.Source:
			overall = SourceMixed
		}
	}
	if overall == "" {
		overall = SourceUnavailable
	}
	if latest.IsZero() {
		latest = callTime
	}
	return Resolution{Quotes: quotes, FetchedAt: latest, Source: overall}
}

// Quote returns the quote for a ticker, or an unavailable quote if the ticker
// was not part of the resolution.
func (r Resolution) Quote(ticker string) Quote {
	if q, ok := r.Quotes[ticker]; ok {
		return q
	}
	return Quote{Ticker: ticker, Source: SourceUnavailable}
}

package portodash

import (
	"log"
	"time"
)

// DefaultCacheMaxAge is how far back the resolver is willing to look into the
// snapshot history for a price. It is generous on purpose: many of these
// instruments price once per trading day, so a multi-day-old value is still
// more useful than none.
const DefaultCacheMaxAge = 72 * time.Hour

// CachedPrice is a price recovered from the snapshot history, with the
// timestamp it was originally observed at.
type CachedPrice struct {
	Price      float64
	ObservedAt time.Time
}

// CachedPrices returns, for each requested ticker present in the history, the
// most recent price not older than maxAge. Ties on the timestamp are broken by
// file order, last write wins.
//
// An empty, missing, or unreadable history is not an error here, merely "no
// usable cache": affected tickers are simply absent from the result.
func (h *History) CachedPrices(tickers []string, maxAge time.Duration, now time.Time) map[string]CachedPrice {
	out := make(map[string]CachedPrice)
	rows, err := h.Rows()
	if err != nil {
		log.Printf("snapshot history unusable as price cache: %v", err)
		return out
	}

	cutoff := now.Add(-maxAge)
	requested := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		requested[t] = struct{}{}
	}

	for _, row := range rows {
		if _, want := requested[row.Ticker]; !want {
			continue
		}
		if row.Date.Before(cutoff) {
			continue
		}
		if best, ok := out[row.Ticker]; ok && row.Date.Before(best.ObservedAt) {
			continue
		}
		out[row.Ticker] = CachedPrice{Price: row.Price.InexactFloat64(), ObservedAt: row.Date}
	}
	return out
}

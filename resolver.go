package portodash

import (
	"context"
	"errors"
	"log"
	"time"
)

// Resolver produces a best-effort, provenance-tagged price for every requested
// ticker. It tries its adapters in priority order, then falls back to the
// snapshot history, and never fails on upstream outages: a ticker nothing
// knows about simply resolves to an unavailable quote.
type Resolver struct {
	// Adapters are tried in order. A missing provider key simply means the
	// corresponding adapter is absent from this list.
	Adapters []Adapter

	// History, when set, is consulted for tickers no live adapter could price.
	History *History

	// CacheMaxAge bounds how old a history price may be to still be served.
	// Zero means DefaultCacheMaxAge.
	CacheMaxAge time.Duration

	// State is the process-wide rate-limit cooldown, shared across calls.
	State *RateLimitState

	// Cooldown is armed on a rate-limit signal. Zero means DefaultCooldown.
	Cooldown time.Duration

	// Now is a clock hook for tests. Nil means time.Now.
	Now func() time.Time
}

// NewResolver returns a resolver over the given adapters sharing the given
// rate-limit state.
func NewResolver(state *RateLimitState, adapters ...Adapter) *Resolver {
	return &Resolver{Adapters: adapters, State: state}
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *Resolver) cooldown() time.Duration {
	if r.Cooldown > 0 {
		return r.Cooldown
	}
	return DefaultCooldown
}

func (r *Resolver) cacheMaxAge() time.Duration {
	if r.CacheMaxAge > 0 {
		return r.CacheMaxAge
	}
	return DefaultCacheMaxAge
}

// Resolve resolves a price for every requested ticker. It never fails: a total
// upstream outage yields a Resolution with all quotes unavailable.
//
// Live prices are stamped with the call time; cached prices keep the timestamp
// they were originally observed at.
func (r *Resolver) Resolve(ctx context.Context, tickers []string) Resolution {
	now := r.now()
	quotes := make(map[string]Quote, len(tickers))

	pending := func() []string {
		out := make([]string, 0, len(tickers))
		for _, t := range tickers {
			if _, done := quotes[t]; !done {
				out = append(out, t)
			}
		}
		return out
	}

	state := r.State
	if state == nil {
		state = new(RateLimitState)
	}

	if state.Blocked(now) {
		until, msg := state.BlockedUntil()
		log.Printf("rate limited until %s (%s), skipping live providers", until.Format(time.RFC3339), msg)
	} else {
		state.noteAttempt(now)
		for _, adapter := range r.Adapters {
			batch := pending()
			if len(batch) == 0 {
				break
			}
			prices, err := adapter.FetchBatch(ctx, batch)
			for ticker, price := range prices {
				quotes[ticker] = Quote{Ticker: ticker, Price: price, Valid: true, ObservedAt: now, Source: SourceLive}
			}
			if err != nil {
				if errors.Is(err, ErrRateLimited) {
					state.Trip(now, r.cooldown(), err.Error())
					log.Printf("%s rate limited, cooling down for %s: %v", adapter.Name(), r.cooldown(), err)
					break
				}
				log.Printf("%s failed, trying next source: %v", adapter.Name(), err)
			}
		}
	}

	if batch := pending(); len(batch) > 0 && r.History != nil {
		for ticker, cached := range r.History.CachedPrices(batch, r.cacheMaxAge(), now) {
			quotes[ticker] = Quote{Ticker: ticker, Price: cached.Price, Valid: true, ObservedAt: cached.ObservedAt, Source: SourceCache}
		}
	}

	for _, ticker := range pending() {
		quotes[ticker] = Quote{Ticker: ticker, Source: SourceUnavailable}
	}

	return newResolution(quotes, now)
}

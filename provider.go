package portodash

import (
	"context"
	"errors"
	"log"
	"time"
)

// ErrRateLimited is the distinguished signal that an upstream provider is
// refusing requests for volume reasons. Adapters wrap it (with the provider's
// own message) so the resolver can arm its cooldown instead of hammering a
// blocking provider.
var ErrRateLimited = errors.New("rate limited")

// Adapter is a prioritized source of live prices.
//
// FetchBatch returns a price per ticker; a ticker missing from the result map
// simply has no price at that provider, which is not an error. The returned
// keys match the requested ticker strings even if the provider uses its own
// symbology internally. An error wrapping ErrRateLimited means the provider
// refused for volume reasons; any other error means the whole batch failed
// (e.g. network unreachable). A partial map may accompany a non-nil error.
type Adapter interface {
	Name() string
	FetchBatch(ctx context.Context, tickers []string) (map[string]float64, error)
}

// SingleAdapter is a source without a native batch endpoint. FetchOne returns
// ok=false when the provider has no price for the ticker.
type SingleAdapter interface {
	Name() string
	FetchOne(ctx context.Context, ticker string) (price float64, ok bool, err error)
}

// Paced adapts a SingleAdapter to the Adapter contract by issuing one call per
// ticker with an enforced delay between calls, as required by providers with
// strict per-minute quotas.
func Paced(a SingleAdapter, delay time.Duration) Adapter {
	return &paced{a: a, delay: delay}
}

type paced struct {
	a     SingleAdapter
	delay time.Duration
}

func (p *paced) Name() string { return p.a.Name() }

func (p *paced) FetchBatch(ctx context.Context, tickers []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(tickers))
	var lastErr error
	for i, ticker := range tickers {
		if i > 0 {
			select {
			case <-time.After(p.delay):
			case <-ctx.Done():
				return prices, ctx.Err()
			}
		}
		price, ok, err := p.a.FetchOne(ctx, ticker)
		if errors.Is(err, ErrRateLimited) {
			// No point pacing through the rest of the batch.
			return prices, err
		}
		if err != nil {
			log.Printf("%s: %q: %v", p.a.Name(), ticker, err)
			lastErr = err
			continue
		}
		if ok {
			prices[ticker] = price
		}
	}
	if len(prices) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return prices, nil
}

package portodash

import (
	"testing"
	"time"
)

func TestNewResolution_AuthoritativeTimestamp(t *testing.T) {
	t1 := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)
	callTime := t3.Add(time.Hour)

	quotes := map[string]Quote{
		"A": {Ticker: "A", Price: 1, Valid: true, ObservedAt: t1, Source: SourceLive},
		"B": {Ticker: "B", Price: 2, Valid: true, ObservedAt: t2, Source: SourceLive},
		"C": {Ticker: "C", Price: 3, Valid: true, ObservedAt: t3, Source: SourceLive},
		"D": {Ticker: "D", Source: SourceUnavailable},
	}
	r := newResolution(quotes, callTime)
	if !r.FetchedAt.Equal(t3) {
		t.Errorf("FetchedAt = %v, want %v (max observed_at of priced quotes)", r.FetchedAt, t3)
	}

	// With no priced quote at all, the call time is used.
	r = newResolution(map[string]Quote{"D": {Ticker: "D", Source: SourceUnavailable}}, callTime)
	if !r.FetchedAt.Equal(callTime) {
		t.Errorf("FetchedAt = %v, want call time %v", r.FetchedAt, callTime)
	}
}

func TestNewResolution_OverallSource(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	live := Quote{Price: 1, Valid: true, ObservedAt: now, Source: SourceLive}
	cache := Quote{Price: 2, Valid: true, ObservedAt: now, Source: SourceCache}
	missing := Quote{Source: SourceUnavailable}

	testCases := []struct {
		name   string
		quotes map[string]Quote
		want   Provenance
	}{
		{"All live", map[string]Quote{"A": live, "B": live}, SourceLive},
		{"All cache", map[string]Quote{"A": cache, "B": cache}, SourceCache},
		{"Live and cache", map[string]Quote{"A": live, "B": cache}, SourceMixed},
		{"Live with a gap", map[string]Quote{"A": live, "B": missing}, SourceLive},
		{"Nothing priced", map[string]Quote{"A": missing, "B": missing}, SourceUnavailable},
		{"Empty", map[string]Quote{}, SourceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := newResolution(tc.quotes, now).Source; got != tc.want {
				t.Errorf("Source = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestQuotePriceOrZero(t *testing.T) {
	q := Quote{Ticker: "A", Price: 12.5, Valid: true}
	if q.PriceOrZero() != 12.5 {
		t.Errorf("PriceOrZero() = %v, want 12.5", q.PriceOrZero())
	}
	q = Quote{Ticker: "A", Price: 12.5, Valid: false}
	if q.PriceOrZero() != 0 {
		t.Errorf("PriceOrZero() = %v, want 0 for an invalid quote", q.PriceOrZero())
	}
}

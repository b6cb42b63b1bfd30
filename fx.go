package portodash

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// This file contains the FX rate cache. Rates are fetched from open.er-api.com
// (free, no API key) and cached in a small JSON file so the dashboard does not
// hit the network on every rerun.

// DefaultFxMaxAge is how long a cached FX entry is trusted.
const DefaultFxMaxAge = 12 * time.Hour

// fxCacheEntry is the on-disk shape of the FX cache file.
type fxCacheEntry struct {
	FetchedAt string             `json:"_fetched_at"`
	Rates     map[string]float64 `json:"rates"`
}

// FxCache fetches and caches currency conversion rates against a base
// currency. A returned rate means "1 unit of currency = rate units of base".
type FxCache struct {
	// Path of the JSON cache file.
	Path string

	// MaxAge bounds how old a cached entry may be to be served without a
	// network call. Zero means DefaultFxMaxAge.
	MaxAge time.Duration

	// Client is the HTTP client for rate fetches. Nil means a client with a
	// bounded timeout.
	Client *http.Client

	// Now is a clock hook for tests. Nil means time.Now.
	Now func() time.Time

	// URL overrides the rate endpoint, for tests. The base currency code is
	// appended to it.
	URL string
}

const fxEndpoint = "https://open.er-api.com/v6/latest/"

func (c *FxCache) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}

func (c *FxCache) maxAge() time.Duration {
	if c.MaxAge > 0 {
		return c.MaxAge
	}
	return DefaultFxMaxAge
}

func (c *FxCache) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// GetRates returns a rate-to-base for each requested currency. Currencies
// equal to base are skipped. A fresh cached entry is served without any
// network call; otherwise a full rate table anchored at base is fetched,
// inverted, and persisted. Only the requested currencies are returned.
//
// GetRates never fails: on any fetch or decode problem it returns an empty
// map, so downstream valuation treats foreign holdings as unconvertible
// rather than crash.
func (c *FxCache) GetRates(currencies []string, base string) map[string]float64 {
	base = strings.ToUpper(base)
	requested := make(map[string]struct{})
	for _, cc := range currencies {
		cc = strings.ToUpper(strings.TrimSpace(cc))
		if cc != "" && cc != base {
			requested[cc] = struct{}{}
		}
	}
	if len(requested) == 0 {
		return map[string]float64{}
	}

	now := c.now()
	if rates, ok := c.readCache(now); ok {
		return pick(rates, requested)
	}

	rates, err := c.fetch(base)
	if err != nil {
		log.Printf("fx rates unavailable: %v", err)
		return map[string]float64{}
	}
	c.writeCache(now, rates)
	return pick(rates, requested)
}

// readCache returns the cached rate table if it is younger than maxAge.
func (c *FxCache) readCache(now time.Time) (map[string]float64, bool) {
	content, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, false
	}
	var entry fxCacheEntry
	if err := json.Unmarshal(content, &entry); err != nil {
		log.Printf("ignoring corrupt fx cache %q: %v", c.Path, err)
		return nil, false
	}
	fetched, err := time.Parse(time.RFC3339, entry.FetchedAt)
	if err != nil {
		return nil, false
	}
	if now.Sub(fetched) >= c.maxAge() {
		return nil, false // expired entries are refetched, not trusted
	}
	return entry.Rates, true
}

// writeCache replaces the cache file with a new entry. A failed write only
// costs the next call a refetch.
func (c *FxCache) writeCache(now time.Time, rates map[string]float64) {
	entry := fxCacheEntry{FetchedAt: now.Format(time.RFC3339), Rates: rates}
	content, err := json.Marshal(entry)
	if err == nil {
		if dir := filepath.Dir(c.Path); dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		err = os.WriteFile(c.Path, content, 0o644)
	}
	if err != nil {
		log.Printf("cannot write fx cache %q (ignored): %v", c.Path, err)
	}
}

// fetch downloads the full rate table anchored at base and inverts it so that
// the returned rate means "1 unit of currency = rate units of base".
func (c *FxCache) fetch(base string) (map[string]float64, error) {
	endpoint := c.URL
	if endpoint == "" {
		endpoint = fxEndpoint
	}
	var payload struct {
		Result string             `json:"result"`
		Rates  map[string]float64 `json:"rates"`
	}
	if err := jwget(c.client(), endpoint+base, &payload); err != nil {
		return nil, err
	}
	if payload.Result != "success" {
		return nil, fmt.Errorf("fx provider returned %q", payload.Result)
	}
	out := make(map[string]float64, len(payload.Rates))
	for code, perBase := range payload.Rates {
		if perBase == 0 {
			continue
		}
		// perBase is "currency per base"; we want "base per currency".
		out[code] = 1 / perBase
	}
	return out, nil
}

func pick(rates map[string]float64, requested map[string]struct{}) map[string]float64 {
	out := make(map[string]float64, len(requested))
	for code := range requested {
		if rate, ok := rates[code]; ok {
			out[code] = rate
		}
	}
	return out
}

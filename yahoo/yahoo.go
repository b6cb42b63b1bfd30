// Package yahoo implements the primary price source, backed by the public
// Yahoo Finance chart API. No API key is required, but the endpoint throttles
// aggressively, hence the explicit rate-limit signalling.
package yahoo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"

	"github.com/PaesslerAG/jsonpath"
	"golang.org/x/sync/errgroup"

	"github.com/etnz/portodash"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// maxConcurrent bounds the per-ticker chart requests issued in parallel for
// one batch.
const maxConcurrent = 4

// Client fetches quotes from the Yahoo Finance chart API.
type Client struct {
	http    *http.Client
	baseURL string
}

// New returns a client using a bounded-timeout HTTP client.
func New() *Client {
	return &Client{http: portodash.NewQuoteClient(), baseURL: defaultBaseURL}
}

// NewWithBaseURL returns a client against an alternate endpoint, for tests.
func NewWithBaseURL(client *http.Client, baseURL string) *Client {
	return &Client{http: client, baseURL: baseURL}
}

func (c *Client) Name() string { return "yahoo" }

// FetchBatch fetches the latest regular-market price for each ticker. The
// chart API has no batch endpoint, so tickers are fetched concurrently and
// merged keyed by ticker; the result does not depend on completion order.
//
// A ticker unknown to Yahoo is simply absent from the result. A throttled
// response aborts the batch with portodash.ErrRateLimited so the resolver can
// cool down.
func (c *Client) FetchBatch(ctx context.Context, tickers []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(tickers))
	var mu sync.Mutex
	var failures []error

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			price, ok, err := c.fetchOne(ctx, ticker)
			if errors.Is(err, portodash.ErrRateLimited) {
				return err // cancels the remaining fetches
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, fmt.Errorf("%s: %w", ticker, err))
				return nil
			}
			if ok {
				prices[ticker] = price
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return prices, err
	}
	if len(prices) == 0 && len(failures) > 0 {
		return nil, errors.Join(failures...)
	}
	for _, err := range failures {
		log.Printf("yahoo: %v", err)
	}
	return prices, nil
}

// fetchOne reads the latest price from the chart endpoint. ok is false when
// Yahoo has no price for the symbol.
func (c *Client) fetchOne(ctx context.Context, ticker string) (price float64, ok bool, err error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?range=5d&interval=1d", c.baseURL, url.PathEscape(ticker))

	var payload any
	if err := c.jwget(ctx, addr, &payload); err != nil {
		return 0, false, err
	}

	// the chart payload nests the useful number quite deep:
	// chart.result[0].meta.regularMarketPrice
	jval, err := jsonpath.Get("$.chart.result[0].meta.regularMarketPrice", payload)
	if err != nil {
		// a well-formed "no such symbol" answer, not a transport failure
		return 0, false, nil
	}
	if jlist, isList := jval.([]any); isList && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, isFloat := jval.(float64)
	if !isFloat {
		return 0, false, nil
	}
	return val, true, nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response body
// into the provided data structure. Throttling statuses are reported as
// portodash.ErrRateLimited.
func (c *Client) jwget(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	// Yahoo rejects the default Go user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; portodash)")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("http GET %v%v: %v: %w", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status, portodash.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// Package alphavantage implements the last-resort price source. Alpha Vantage
// has no batch endpoint and a strict per-minute quota, so the resolver wraps
// this client with portodash.Paced and a generous inter-call delay.
package alphavantage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/portodash"
)

const defaultBaseURL = "https://www.alphavantage.co"

// Delay is the pacing the free tier requires (about 5 requests per minute).
const Delay = 12500 * time.Millisecond

// Client fetches single quotes from the Alpha Vantage GLOBAL_QUOTE endpoint.
type Client struct {
	apiKey  string
	http    *http.Client
	baseURL string
}

// New returns a client authenticated with the given API key.
func New(apiKey string) *Client {
	return &Client{apiKey: apiKey, http: portodash.NewQuoteClient(), baseURL: defaultBaseURL}
}

// NewWithBaseURL returns a client against an alternate endpoint, for tests.
func NewWithBaseURL(apiKey string, client *http.Client, baseURL string) *Client {
	return &Client{apiKey: apiKey, http: client, baseURL: baseURL}
}

func (c *Client) Name() string { return "alphavantage" }

// translate maps a requested ticker to Alpha Vantage's symbology. Toronto
// listings use a .TRT suffix there instead of Yahoo's .TO. The mapping only
// affects the outgoing request; results are keyed by the requested ticker.
func translate(ticker string) string {
	if s, ok := strings.CutSuffix(ticker, ".TO"); ok {
		return s + ".TRT"
	}
	return ticker
}

// FetchOne fetches the current price for a single ticker. ok is false when
// the provider has no data for the symbol. A quota notice is reported as
// portodash.ErrRateLimited.
func (c *Client) FetchOne(ctx context.Context, ticker string) (price float64, ok bool, err error) {
	query := url.Values{}
	query.Set("function", "GLOBAL_QUOTE")
	query.Set("symbol", translate(ticker))
	query.Set("apikey", c.apiKey)
	addr := c.baseURL + "/query?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return 0, false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests {
		return 0, false, fmt.Errorf("alphavantage: %v: %w", resp.Status, portodash.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, false, fmt.Errorf("alphavantage: cannot http GET %v: %v", resp.Request.URL.Path, resp.Status)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return 0, false, err
	}

	// Everything, including quota refusals, comes back as a 200 with a
	// different JSON shape.
	var payload struct {
		ErrorMessage string `json:"Error Message"`
		Note         string `json:"Note"` // quota notices
		GlobalQuote  struct {
			Price string `json:"05. price"`
		} `json:"Global Quote"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		return 0, false, fmt.Errorf("alphavantage: unexpected response for %q: %w", ticker, err)
	}
	if payload.Note != "" {
		return 0, false, fmt.Errorf("alphavantage: %s: %w", payload.Note, portodash.ErrRateLimited)
	}
	if payload.ErrorMessage != "" {
		// unknown symbol, not a transport failure
		return 0, false, nil
	}
	if payload.GlobalQuote.Price == "" {
		return 0, false, nil
	}
	val, err := strconv.ParseFloat(payload.GlobalQuote.Price, 64)
	if err != nil {
		return 0, false, fmt.Errorf("alphavantage: invalid price %q for %q: %w", payload.GlobalQuote.Price, ticker, err)
	}
	return val, true, nil
}

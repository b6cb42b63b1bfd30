// Package fmp implements the Financial Modeling Prep quote source, the first
// fallback when the primary source fails. FMP has a native batch endpoint, so
// a whole ticker set costs a single request.
package fmp

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/portodash"
)

const defaultBaseURL = "https://financialmodelingprep.com"

// Client fetches quotes from the FMP batch quote endpoint.
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

func (c *Client) Name() string { return "fmp" }

// quote is one entry of the batch quote payload.
type quote struct {
	Symbol string   `json:"symbol"`
	Price  *float64 `json:"price"`
}

// apiMessage is the shape FMP uses for errors and quota notices, returned
// with a 200 status.
type apiMessage struct {
	ErrorMessage string `json:"Error Message"`
	Information  string `json:"Information"`
}

// FetchBatch fetches all tickers in one call. FMP echoes the requested
// symbols back, including exchange suffixes like .TO, so no translation is
// needed. A quota notice is reported as portodash.ErrRateLimited.
func (c *Client) FetchBatch(ctx context.Context, tickers []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(tickers))
	if len(tickers) == 0 {
		return prices, nil
	}

	symbols := make([]string, len(tickers))
	for i, t := range tickers {
		symbols[i] = url.PathEscape(t)
	}
	addr := fmt.Sprintf("%s/api/v3/quote/%s?apikey=%s", c.baseURL, strings.Join(symbols, ","), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("fmp: %v: %w", resp.Status, portodash.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fmp: cannot http GET %v: %v", resp.Request.URL.Path, resp.Status)
	}

	// The endpoint answers either a list of quotes or a message object;
	// sniff which one before decoding.
	var raw []byte
	if raw, err = readAll(resp); err != nil {
		return nil, err
	}
	if msg, isMessage := decodeMessage(raw); isMessage {
		if msg.Information != "" {
			// quota notices come through this field
			return nil, fmt.Errorf("fmp: %s: %w", msg.Information, portodash.ErrRateLimited)
		}
		return nil, fmt.Errorf("fmp: %s", msg.ErrorMessage)
	}

	quotes, err := decodeQuotes(raw)
	if err != nil {
		return nil, fmt.Errorf("fmp: unexpected response: %w", err)
	}
	for _, q := range quotes {
		if q.Symbol == "" || q.Price == nil {
			log.Printf("fmp: no price for %q in batch response", q.Symbol)
			continue
		}
		prices[q.Symbol] = *q.Price
	}
	return prices, nil
}

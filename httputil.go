package portodash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// contains http utils to deal with remote providers

// NewQuoteClient returns the HTTP client adapters should use for quote
// endpoints: plain transport with a bounded timeout, because a hung provider
// must not hang a resolution call.
func NewQuoteClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the
// provided data structure. A 429 status is reported as ErrRateLimited.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("http GET %v/%v: %v: %w", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status, ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}

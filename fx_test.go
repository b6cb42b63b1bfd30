package portodash

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fxServer serves an open.er-api.com style payload and counts hits.
func fxServer(t *testing.T, body string) (*httptest.Server, *int) {
	t.Helper()
	hits := new(int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if !strings.HasSuffix(r.URL.Path, "/CAD") {
			t.Errorf("rate table requested for %q, want base CAD", r.URL.Path)
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}

func TestFxCache_FetchAndInvert(t *testing.T) {
	// 1 CAD = 0.73 USD, so 1 USD must come back as 1/0.73 CAD.
	srv, hits := fxServer(t, `{"result":"success","rates":{"CAD":1,"USD":0.73,"EUR":0.68,"XXX":0}}`)

	c := &FxCache{Path: filepath.Join(t.TempDir(), "fx_rates.json"), URL: srv.URL + "/"}
	got := c.GetRates([]string{"usd", "EUR", "CAD", "XXX"}, "CAD")

	if *hits != 1 {
		t.Fatalf("server hit %d times, want 1", *hits)
	}
	if math.Abs(got["USD"]-1/0.73) > 1e-9 {
		t.Errorf("USD = %v, want %v", got["USD"], 1/0.73)
	}
	if math.Abs(got["EUR"]-1/0.68) > 1e-9 {
		t.Errorf("EUR = %v, want %v", got["EUR"], 1/0.68)
	}
	if _, ok := got["CAD"]; ok {
		t.Error("base currency must not be returned")
	}
	if _, ok := got["XXX"]; ok {
		t.Error("zero per-base rate must be dropped, not inverted")
	}
}

func TestFxCache_Freshness(t *testing.T) {
	srv, hits := fxServer(t, `{"result":"success","rates":{"CAD":1,"USD":0.73}}`)

	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	clock := t0
	c := &FxCache{
		Path: filepath.Join(t.TempDir(), "fx_rates.json"),
		URL:  srv.URL + "/",
		Now:  func() time.Time { return clock },
	}

	c.GetRates([]string{"USD"}, "CAD")
	if *hits != 1 {
		t.Fatalf("initial fetch: server hit %d times, want 1", *hits)
	}

	clock = t0.Add(11 * time.Hour)
	got := c.GetRates([]string{"USD"}, "CAD")
	if *hits != 1 {
		t.Errorf("11h old entry refetched; server hit %d times, want 1", *hits)
	}
	if math.Abs(got["USD"]-1/0.73) > 1e-9 {
		t.Errorf("cached USD = %v, want %v", got["USD"], 1/0.73)
	}

	clock = t0.Add(13 * time.Hour)
	c.GetRates([]string{"USD"}, "CAD")
	if *hits != 2 {
		t.Errorf("13h old entry served from cache; server hit %d times, want 2", *hits)
	}
}

func TestFxCache_NeverFails(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"Provider error result", `{"result":"error","error-type":"invalid-key"}`, 200},
		{"HTTP failure", `boom`, 500},
		{"Garbage payload", `not json`, 200},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.code)
				fmt.Fprint(w, test.body)
			}))
			defer srv.Close()
			c := &FxCache{Path: filepath.Join(t.TempDir(), "fx_rates.json"), URL: srv.URL + "/"}
			got := c.GetRates([]string{"USD"}, "CAD")
			if got == nil || len(got) != 0 {
				t.Errorf("GetRates() = %v, want empty map", got)
			}
		})
	}
}

func TestFxCache_BaseOnlyNeedsNoNetwork(t *testing.T) {
	c := &FxCache{Path: filepath.Join(t.TempDir(), "fx_rates.json"), URL: "http://127.0.0.1:0/"}
	if got := c.GetRates([]string{"CAD", "cad", ""}, "CAD"); len(got) != 0 {
		t.Errorf("GetRates() = %v, want empty map without any fetch", got)
	}
}

func TestFxCache_CorruptCacheIsRefetched(t *testing.T) {
	srv, hits := fxServer(t, `{"result":"success","rates":{"CAD":1,"USD":0.73}}`)
	path := filepath.Join(t.TempDir(), "fx_rates.json")
	writeFileOrFatal(t, path, `{"_fetched_at": 42}`)

	c := &FxCache{Path: path, URL: srv.URL + "/"}
	got := c.GetRates([]string{"USD"}, "CAD")
	if *hits != 1 {
		t.Errorf("server hit %d times, want 1", *hits)
	}
	if math.Abs(got["USD"]-1/0.73) > 1e-9 {
		t.Errorf("USD = %v, want %v", got["USD"], 1/0.73)
	}
}

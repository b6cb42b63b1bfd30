package fmp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etnz/portodash"
)

func TestFetchBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.URL.Path, "/api/v3/quote/XEQT.TO,FFFFX"; got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
		if got := r.URL.Query().Get("apikey"); got != "demo" {
			t.Errorf("apikey = %q, want demo", got)
		}
		// symbols echoed back with their suffixes, one entry priceless
		fmt.Fprint(w, `[
			{"symbol":"XEQT.TO","price":30.12,"name":"iShares"},
			{"symbol":"FFFFX","price":null}
		]`)
	}))
	defer srv.Close()

	c := NewWithBaseURL("demo", srv.Client(), srv.URL)
	got, err := c.FetchBatch(context.Background(), []string{"XEQT.TO", "FFFFX"})
	if err != nil {
		t.Fatalf("FetchBatch() error: %v", err)
	}
	if len(got) != 1 || got["XEQT.TO"] != 30.12 {
		t.Errorf("FetchBatch() = %v, want XEQT.TO only", got)
	}
}

func TestFetchBatch_EmptyTickerList(t *testing.T) {
	c := NewWithBaseURL("demo", nil, "http://127.0.0.1:0")
	got, err := c.FetchBatch(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Errorf("FetchBatch(nil) = (%v, %v), want empty without any request", got, err)
	}
}

func TestFetchBatch_Messages(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		status      int
		rateLimited bool
	}{
		{"Quota notice", `{"Information": "Limit reached, please upgrade"}`, 200, true},
		{"HTTP 429", `too many`, 429, true},
		{"Error message", `{"Error Message": "Invalid API key"}`, 200, false},
		{"Server failure", `oops`, 500, false},
		{"Garbage payload", `not json`, 200, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
				fmt.Fprint(w, test.body)
			}))
			defer srv.Close()

			c := NewWithBaseURL("demo", srv.Client(), srv.URL)
			_, err := c.FetchBatch(context.Background(), []string{"A"})
			if err == nil {
				t.Fatal("FetchBatch() succeeded, want an error")
			}
			if got := errors.Is(err, portodash.ErrRateLimited); got != test.rateLimited {
				t.Errorf("errors.Is(err, ErrRateLimited) = %v, want %v (err: %v)", got, test.rateLimited, err)
			}
			if test.name == "Error message" && !strings.Contains(err.Error(), "Invalid API key") {
				t.Errorf("error %v does not carry the provider message", err)
			}
		})
	}
}

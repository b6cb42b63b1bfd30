package portodash

import (
	"fmt"
	"path/filepath"
	"testing"
)

func TestLoadPortfolio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	writeFileOrFatal(t, path, `{
		"base_currency": "cad",
		"holdings": [
			{"ticker": "XEQT.TO", "shares": 10, "cost_basis": 250, "account": "tfsa"},
			{"ticker": "FFFFX", "shares": 5.5, "cost_basis": 60, "currency": "USD"},
			{"ticker": "XEQT.TO", "shares": 2, "cost_basis": 52, "account": "rrsp"}
		]
	}`)

	p, err := LoadPortfolio(path)
	if err != nil {
		t.Fatalf("LoadPortfolio() error: %v", err)
	}
	if p.BaseCurrency != "cad" {
		t.Errorf("BaseCurrency = %q", p.BaseCurrency)
	}
	if len(p.Holdings) != 3 {
		t.Fatalf("got %d holdings, want 3", len(p.Holdings))
	}
	if got := p.Holdings[1].Shares; !got.Equal(Q(5.5)) {
		t.Errorf("Shares = %v, want 5.5", got)
	}
	// duplicate tickers across accounts collapse to one fetch
	if got := fmt.Sprint(p.Tickers()); got != "[XEQT.TO FFFFX]" {
		t.Errorf("Tickers() = %s, want [XEQT.TO FFFFX]", got)
	}
}

func TestLoadPortfolio_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	writeFileOrFatal(t, path, `{"holdings": [{"ticker": "A", "shares": 1, "cost_basis": 1}]}`)
	p, err := LoadPortfolio(path)
	if err != nil {
		t.Fatalf("LoadPortfolio() error: %v", err)
	}
	if p.BaseCurrency != DefaultBaseCurrency {
		t.Errorf("BaseCurrency = %q, want %q", p.BaseCurrency, DefaultBaseCurrency)
	}
}

func TestLoadPortfolio_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name, content string
	}{
		{"Missing ticker", `{"holdings": [{"shares": 1, "cost_basis": 1}]}`},
		{"Malformed json", `{"holdings": [`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(dir, test.name+".json")
			writeFileOrFatal(t, path, test.content)
			if _, err := LoadPortfolio(path); err == nil {
				t.Error("LoadPortfolio() succeeded, want an error")
			}
		})
	}
	t.Run("Missing file", func(t *testing.T) {
		if _, err := LoadPortfolio(filepath.Join(dir, "nope.json")); err == nil {
			t.Error("LoadPortfolio() succeeded, want an error")
		}
	})
}

func TestEffectiveCurrency(t *testing.T) {
	tests := []struct {
		holding Holding
		want    string
	}{
		// the explicit field always wins, suffixes notwithstanding
		{Holding{Ticker: "XEQT.TO", Currency: "usd"}, "USD"},
		{Holding{Ticker: "FFFFX", Currency: "EUR"}, "EUR"},
		{Holding{Ticker: "XEQT.TO"}, "CAD"},
		{Holding{Ticker: "VTI.V"}, "CAD"},
		{Holding{Ticker: "CBIT.NE"}, "CAD"},
		{Holding{Ticker: "FFFFX"}, "USD"},
		{Holding{Ticker: "AAPL"}, "USD"},
	}
	for _, test := range tests {
		t.Run(test.holding.Ticker+"/"+test.holding.Currency, func(t *testing.T) {
			if got := test.holding.EffectiveCurrency(); got != test.want {
				t.Errorf("EffectiveCurrency() = %q, want %q", got, test.want)
			}
		})
	}
}

package portodash

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Holding is one position as declared in the portfolio file.
type Holding struct {
	Ticker    string   `json:"ticker"`
	Shares    Quantity `json:"shares"`
	CostBasis Quantity `json:"cost_basis"`
	Currency  string   `json:"currency,omitempty"`
	Account   string   `json:"account,omitempty"`
}

// Portfolio is the set of holdings and the reporting currency they are
// consolidated into.
type Portfolio struct {
	BaseCurrency string    `json:"base_currency,omitempty"`
	Holdings     []Holding `json:"holdings"`
}

// DefaultBaseCurrency is used when the portfolio file does not set one.
const DefaultBaseCurrency = "CAD"

// LoadPortfolio reads and validates the portfolio JSON file.
func LoadPortfolio(path string) (*Portfolio, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read portfolio file %q: %w", path, err)
	}
	var p Portfolio
	if err := json.Unmarshal(content, &p); err != nil {
		return nil, fmt.Errorf("malformed portfolio file %q: %w", path, err)
	}
	if p.BaseCurrency == "" {
		p.BaseCurrency = DefaultBaseCurrency
	}
	for i, h := range p.Holdings {
		if h.Ticker == "" {
			return nil, fmt.Errorf("portfolio file %q: holding %d has no ticker", path, i)
		}
	}
	return &p, nil
}

// Tickers returns the holdings' tickers, deduplicated, in declaration order.
func (p *Portfolio) Tickers() []string {
	seen := make(map[string]struct{}, len(p.Holdings))
	tickers := make([]string, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		if _, dup := seen[h.Ticker]; dup {
			continue
		}
		seen[h.Ticker] = struct{}{}
		tickers = append(tickers, h.Ticker)
	}
	return tickers
}

// EffectiveCurrency returns the currency a holding is denominated in. The
// explicit currency field is authoritative; the exchange-suffix heuristic is
// kept only as a fallback for legacy portfolio files that never declared one.
func (h Holding) EffectiveCurrency() string {
	if h.Currency != "" {
		return strings.ToUpper(h.Currency)
	}
	switch {
	case strings.HasSuffix(h.Ticker, ".TO"), strings.HasSuffix(h.Ticker, ".V"), strings.HasSuffix(h.Ticker, ".NE"):
		return "CAD" // Toronto, TSX Venture, NEO
	default:
		return "USD"
	}
}

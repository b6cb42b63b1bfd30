package portodash

import (
	"sort"
)

// Position is one holding valued in the reporting currency.
type Position struct {
	Ticker   string
	Account  string
	Currency string // currency the instrument is denominated in
	Shares   Quantity

	// Price is the resolved unit price in the instrument's own currency,
	// zero when unavailable.
	Price  Money
	Source Provenance

	// MarketValue, CostTotal and Gain are in the reporting currency.
	MarketValue Money
	CostTotal   Money
	Gain        Money
	GainPct     Percent
	Allocation  Percent

	// Converted is false when the position is foreign and no FX rate was
	// available; such positions keep their native-currency figures and are
	// excluded from the aggregates.
	Converted bool
}

// Valuation is the portfolio valued in the reporting currency.
type Valuation struct {
	Currency  string
	Positions []Position

	TotalValue Money
	TotalCost  Money
	TotalGain  Money

	// Unconverted lists tickers excluded from the totals for lack of an FX
	// rate. Callers surface them instead of silently misreporting.
	Unconverted []string
}

// Value combines holdings, resolved quotes, and FX rates into a portfolio
// valuation in the base currency. Positions are sorted by market value,
// largest first. rates maps currency code to rate-to-base; the base currency
// itself needs no entry.
func Value(holdings []Holding, res Resolution, rates map[string]float64, base string) Valuation {
	v := Valuation{
		Currency:   base,
		TotalValue: M(0, base),
		TotalCost:  M(0, base),
		TotalGain:  M(0, base),
	}

	for _, h := range holdings {
		q := res.Quote(h.Ticker)
		ccy := h.EffectiveCurrency()

		pos := Position{
			Ticker:   h.Ticker,
			Account:  h.Account,
			Currency: ccy,
			Shares:   h.Shares,
			Price:    M(q.PriceOrZero(), ccy),
			Source:   q.Source,
		}

		value := pos.Price.Mul(h.Shares)
		cost := M(h.CostBasis.Decimal(), ccy).Mul(h.Shares)

		rate, ok := 1.0, true
		if ccy != base {
			rate, ok = rates[ccy]
		}
		if ok {
			pos.Converted = true
			pos.MarketValue = value.Convert(rate, base)
			pos.CostTotal = cost.Convert(rate, base)
			pos.Gain = pos.MarketValue.Sub(pos.CostTotal)
			if !pos.CostTotal.IsZero() {
				pos.GainPct = pos.Gain.DivMoney(pos.CostTotal)
			}
			v.TotalValue = v.TotalValue.Add(pos.MarketValue)
			v.TotalCost = v.TotalCost.Add(pos.CostTotal)
		} else {
			// keep native figures so the position is still displayable
			pos.MarketValue = value
			pos.CostTotal = cost
			pos.Gain = value.Sub(cost)
			v.Unconverted = append(v.Unconverted, h.Ticker)
		}
		v.Positions = append(v.Positions, pos)
	}

	v.TotalGain = v.TotalValue.Sub(v.TotalCost)

	for i := range v.Positions {
		if v.Positions[i].Converted && v.TotalValue.IsPositive() {
			v.Positions[i].Allocation = v.Positions[i].MarketValue.DivMoney(v.TotalValue)
		}
	}

	sort.SliceStable(v.Positions, func(i, j int) bool {
		return v.Positions[i].MarketValue.GreaterThan(v.Positions[j].MarketValue)
	})
	return v
}

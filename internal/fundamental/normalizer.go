// Package fundamental converts provider fundamentals into display units.
package fundamental

import "StockPanel/internal/model"

const trillion = 1e12

// Normalize maps a raw provider record onto a FundamentalSnapshot.
// ROE and dividend yield fractions become percentages and market cap is expressed in trillions.
// Omitted fields stay missing; they are never replaced with zero.
func Normalize(raw model.RawFundamentals) model.FundamentalSnapshot {
	return model.FundamentalSnapshot{
		PERatio:       model.FromPtr(raw.ForwardPE),
		ROE:           model.FromPtr(raw.ReturnOnEquity).Map(percent),
		EPS:           model.FromPtr(raw.TrailingEPS),
		DividendYield: model.FromPtr(raw.DividendYield).Map(percent),
		Beta:          model.FromPtr(raw.Beta),
		MarketCap:     model.FromPtr(raw.MarketCap).Map(func(v float64) float64 { return v / trillion }),
	}
}

func percent(v float64) float64 { return v * 100 }

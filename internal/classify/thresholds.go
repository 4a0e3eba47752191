package classify

import (
	"fmt"
	"math"
)

// Band is a buy/sell threshold pair.
type Band struct {
	Buy  float64 `yaml:"buy"`
	Sell float64 `yaml:"sell"`
}

// Thresholds holds the bands for every metric classified with fixed thresholds.
// Price-versus-SMA and MACD-versus-signal comparisons use the reference value itself as
// both thresholds and are not configurable.
type Thresholds struct {
	RSI           Band `yaml:"rsi"`
	PERatio       Band `yaml:"pe_ratio"`
	ROE           Band `yaml:"roe"`
	EPS           Band `yaml:"eps"`
	DividendYield Band `yaml:"dividend_yield"`
}

// DefaultThresholds returns the standard panel bands.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RSI:           Band{Buy: 70, Sell: 30},
		PERatio:       Band{Buy: 15, Sell: 25},
		ROE:           Band{Buy: 15, Sell: 5},
		EPS:           Band{Buy: 1, Sell: 0},
		DividendYield: Band{Buy: 5, Sell: 2},
	}
}

// Validate rejects non-finite thresholds.
func (t Thresholds) Validate() error {
	bands := map[string]Band{
		"rsi":            t.RSI,
		"pe_ratio":       t.PERatio,
		"roe":            t.ROE,
		"eps":            t.EPS,
		"dividend_yield": t.DividendYield,
	}
	for name, b := range bands {
		if !finite(b.Buy) || !finite(b.Sell) {
			return fmt.Errorf("thresholds.%s must be finite", name)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

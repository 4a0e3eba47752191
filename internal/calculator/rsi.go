package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

// RSI computes the relative strength index from simple (not Wilder) moving averages of
// bar-over-bar gains and losses. The first bar contributes a zero change, so the output is
// defined from position period-1 onward.
//
// A window with no losses reads 100 when it has gains and NaN when flat.
func RSI(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errPeriod
	}
	n := len(closes)
	out := nanSlice(n)
	if n < period {
		return out, nil
	}

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else if change < 0 {
			losses[i] = -change
		}
	}

	avgGain := talib.Sma(gains, period)
	avgLoss := talib.Sma(losses, period)
	for i := period - 1; i < n; i++ {
		out[i] = rsiValue(avgGain[i], avgLoss[i])
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	// Rolling sums of non-negative values can drift just below zero.
	avgGain = math.Max(avgGain, 0)
	avgLoss = math.Max(avgLoss, 0)
	if avgLoss == 0 {
		if avgGain == 0 {
			return math.NaN()
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

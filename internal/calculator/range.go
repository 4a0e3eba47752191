package calculator

import (
	"errors"
	"fmt"
	"math"

	"StockPanel/internal/model"
)

// TradingDaysPerYear is the session count treated as one trading year.
const TradingDaysPerYear = 252

// CalculateRange scans the most recent sessions bars and returns the high and low.
// Fewer bars than sessions are scanned in full.
func CalculateRange(bars []model.OHLCV, sessions int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, fmt.Errorf("range: %w", model.ErrInsufficientHistory)
	}
	start := max(len(bars)-sessions, 0)
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars[start:] {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	return high, low, nil
}

// RangePosition returns where current sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	return math.Min(math.Max(pos, 0), 1), nil
}

// Range52w builds the trailing one-year range for the panel.
func Range52w(bars []model.OHLCV) model.Range52w {
	high, low, err := CalculateRange(bars, TradingDaysPerYear)
	if err != nil {
		return model.Range52w{High: model.Insufficient(), Low: model.Insufficient(), Position: model.Insufficient()}
	}
	r := model.Range52w{High: model.Known(high), Low: model.Known(low)}
	r.Position = model.FromResult(RangePosition(bars[len(bars)-1].Close, high, low))
	return r
}

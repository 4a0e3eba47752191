package calculator

import (
	"errors"
	"fmt"
	"math"

	"StockPanel/internal/model"

	"github.com/markcheno/go-talib"
)

var errPeriod = errors.New("period must be positive")

// SMA computes the trailing simple moving average for every position of values.
// The first period-1 positions are NaN; a series shorter than period is NaN throughout.
func SMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errPeriod
	}
	if len(values) < period {
		return nanSlice(len(values)), nil
	}
	out := talib.Sma(values, period)
	for i := 0; i < period-1; i++ {
		out[i] = math.NaN()
	}
	// talib keeps a running sum, so a constant window can drift off its own value.
	// Price-versus-SMA ties must compare equal.
	run := 0
	for i, v := range values {
		if i > 0 && v == values[i-1] {
			run++
		} else {
			run = 1
		}
		if run >= period {
			out[i] = v
		}
	}
	return out, nil
}

// LatestSMA returns the simple moving average of the last period values.
func LatestSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errPeriod
	}
	if len(values) < period {
		return 0, fmt.Errorf("sma(%d) over %d values: %w", period, len(values), model.ErrInsufficientHistory)
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// EMA computes the exponential moving average with α = 2/(span+1), seeded by the first value
// and without bias adjustment. Every position is defined.
func EMA(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errPeriod
	}
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out, nil
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

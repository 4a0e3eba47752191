package calculator

import (
	"fmt"
	"math"
	"time"

	"StockPanel/internal/model"
)

// Offsets from the end of the series for each variation: base = close[N-offset].
const (
	DailyOffset   = 2
	WeeklyOffset  = 6
	MonthlyOffset = 22
	AnnualOffset  = 252
)

// PctChange returns (current-base)/base × 100.
func PctChange(current, base float64) (float64, error) {
	if base == 0 || math.IsNaN(base) || math.IsInf(base, 0) || math.IsNaN(current) || math.IsInf(current, 0) {
		return 0, fmt.Errorf("pct change %v over %v: %w", current, base, model.ErrIndeterminate)
	}
	return (current - base) / base * 100, nil
}

// ChangeFromEnd compares the last close with close[N-offset].
func ChangeFromEnd(closes []float64, offset int) (float64, error) {
	n := len(closes)
	if offset <= 0 || n < offset {
		return 0, fmt.Errorf("change over %d bars with %d bars: %w", offset, n, model.ErrInsufficientHistory)
	}
	return PctChange(closes[n-1], closes[n-offset])
}

// YearToDate compares the last close with the first close dated in now's calendar year.
func YearToDate(bars []model.OHLCV, now time.Time) (float64, error) {
	if len(bars) == 0 {
		return 0, fmt.Errorf("ytd: %w", model.ErrInsufficientHistory)
	}
	year := now.Year()
	for _, b := range bars {
		if b.Time.In(now.Location()).Year() == year {
			return PctChange(bars[len(bars)-1].Close, b.Close)
		}
	}
	return 0, fmt.Errorf("ytd: no bar in %d: %w", year, model.ErrInsufficientHistory)
}

// Variations computes each period change independently; a short history only
// degrades the affected fields. Classifications are left NotAvailable.
func Variations(series model.PriceSeries, now time.Time) model.VariationSet {
	closes := series.Closes()
	var vs model.VariationSet
	vs.Daily.Reading = model.FromResult(ChangeFromEnd(closes, DailyOffset))
	vs.Weekly.Reading = model.FromResult(ChangeFromEnd(closes, WeeklyOffset))
	vs.Monthly.Reading = model.FromResult(ChangeFromEnd(closes, MonthlyOffset))
	vs.YTD.Reading = model.FromResult(YearToDate(series.Bars, now))
	vs.Annual.Reading = model.FromResult(ChangeFromEnd(closes, AnnualOffset))
	return vs
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("mean of empty series: %w", model.ErrInsufficientHistory)
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

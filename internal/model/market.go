package model

import (
	"fmt"
	"time"
)

// OHLCV represents a single daily session bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the trailing daily history of one instrument, oldest first.
// Bars are borrowed by the calculators and never mutated.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.Bars) }

// Last returns the most recent bar. It panics on an empty series.
func (s PriceSeries) Last() OHLCV { return s.Bars[len(s.Bars)-1] }

// Closes extracts the close prices in bar order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes extracts the session volumes in bar order.
func (s PriceSeries) Volumes() []float64 {
	vols := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		vols[i] = b.Volume
	}
	return vols
}

// Dates extracts the bar timestamps in order.
func (s PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		dates[i] = b.Time
	}
	return dates
}

// Validate checks the series is non-empty and strictly increasing in time.
func (s PriceSeries) Validate() error {
	if len(s.Bars) == 0 {
		return ErrDataUnavailable
	}
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Time.After(s.Bars[i-1].Time) {
			return fmt.Errorf("%w: bar %d (%s) not after bar %d (%s)", ErrUnorderedSeries,
				i, s.Bars[i].Time.Format("2006-01-02"), i-1, s.Bars[i-1].Time.Format("2006-01-02"))
		}
	}
	return nil
}

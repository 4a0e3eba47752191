package model

import (
	"iter"
	"math"
)

// Series is a finite, restartable sequence aligned index-for-index with the input bars.
// Undefined positions hold NaN.
type Series struct {
	values []float64
}

// NewSeries wraps values without copying. Callers must not mutate values afterwards.
func NewSeries(values []float64) Series { return Series{values: values} }

func (s Series) Len() int { return len(s.values) }

// At returns the value at position i.
func (s Series) At(i int) float64 { return s.values[i] }

// Last returns the final value, or NaN for an empty series.
func (s Series) Last() float64 {
	if len(s.values) == 0 {
		return math.NaN()
	}
	return s.values[len(s.values)-1]
}

// All yields (index, value) pairs. Each call starts a fresh pass.
func (s Series) All() iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for i, v := range s.values {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values yields the values only.
func (s Series) Values() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for _, v := range s.values {
			if !yield(v) {
				return
			}
		}
	}
}

// Slice returns a copy of the underlying values.
func (s Series) Slice() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// IndicatorKind names a technical indicator on the panel.
type IndicatorKind string

const (
	KindRSI    IndicatorKind = "RSI"
	KindSMA50  IndicatorKind = "SMA50"
	KindSMA200 IndicatorKind = "SMA200"
	KindMACD   IndicatorKind = "MACD"
)

// IndicatorResult is one computed indicator with its latest reading and full history.
type IndicatorResult struct {
	Kind   IndicatorKind
	Latest Reading
	Class  Classification
	Line   Series
	// Signal is only populated for MACD.
	Signal Series
}

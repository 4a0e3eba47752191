package model

import "time"

// Classification is the qualitative state of a reading against its thresholds.
type Classification int

const (
	NotAvailable Classification = iota
	Favorable
	Neutral
	Unfavorable
)

func (c Classification) String() string {
	switch c {
	case Favorable:
		return "favorable"
	case Neutral:
		return "neutral"
	case Unfavorable:
		return "unfavorable"
	default:
		return "not_available"
	}
}

// ClassifiedReading pairs a reading with its classification.
type ClassifiedReading struct {
	Reading
	Class Classification
}

// VariationSet holds period-over-period close changes in percent.
type VariationSet struct {
	Daily   ClassifiedReading
	Weekly  ClassifiedReading
	Monthly ClassifiedReading
	YTD     ClassifiedReading
	Annual  ClassifiedReading
}

// RawFundamentals is the provider record. Nil fields were omitted by the source.
// ReturnOnEquity and DividendYield are fractions, MarketCap is in currency units.
type RawFundamentals struct {
	ForwardPE      *float64
	ReturnOnEquity *float64
	TrailingEPS    *float64
	DividendYield  *float64
	Beta           *float64
	MarketCap      *float64
}

// FundamentalSnapshot holds normalized metrics: ROE and DividendYield in percent, MarketCap in trillions.
type FundamentalSnapshot struct {
	PERatio       Reading
	ROE           Reading
	EPS           Reading
	DividendYield Reading
	Beta          Reading
	MarketCap     Reading
}

// FundamentalPanel is the classified view of a FundamentalSnapshot.
// Beta and MarketCap are informational and carry no classification.
type FundamentalPanel struct {
	PERatio       ClassifiedReading
	ROE           ClassifiedReading
	EPS           ClassifiedReading
	DividendYield ClassifiedReading
	Beta          Reading
	MarketCap     Reading
}

// VolumeComparison compares the latest session volume to the trailing mean.
type VolumeComparison struct {
	Current Reading
	Average Reading
	Class   Classification
}

// Range52w is the trailing 52-week price range and where the last close sits in it (0..1).
type Range52w struct {
	High     Reading
	Low      Reading
	Position Reading
}

// Chart carries the aligned series needed to plot the panel.
type Chart struct {
	Dates  []time.Time
	Close  Series
	SMA50  Series
	SMA200 Series
	MACD   Series
	Signal Series
}

// PanelSnapshot is the complete, immutable result of one panel computation.
type PanelSnapshot struct {
	Symbol       string
	AsOf         time.Time
	CurrentPrice float64
	Variations   VariationSet
	RSI          IndicatorResult
	SMA50        IndicatorResult
	SMA200       IndicatorResult
	MACD         IndicatorResult
	Fundamentals FundamentalPanel
	Volume       VolumeComparison
	Range        Range52w
	Chart        Chart
}

// DegradedField names one panel field that did not produce a usable number.
type DegradedField struct {
	Field  string
	Status Status
}

// Degraded lists every field whose reading is not OK, in display order.
func (p *PanelSnapshot) Degraded() []DegradedField {
	fields := []struct {
		name string
		r    Reading
	}{
		{"daily", p.Variations.Daily.Reading},
		{"weekly", p.Variations.Weekly.Reading},
		{"monthly", p.Variations.Monthly.Reading},
		{"ytd", p.Variations.YTD.Reading},
		{"annual", p.Variations.Annual.Reading},
		{"rsi", p.RSI.Latest},
		{"sma50", p.SMA50.Latest},
		{"sma200", p.SMA200.Latest},
		{"macd", p.MACD.Latest},
		{"pe_ratio", p.Fundamentals.PERatio.Reading},
		{"roe", p.Fundamentals.ROE.Reading},
		{"eps", p.Fundamentals.EPS.Reading},
		{"dividend_yield", p.Fundamentals.DividendYield.Reading},
		{"beta", p.Fundamentals.Beta},
		{"market_cap", p.Fundamentals.MarketCap},
		{"volume_average", p.Volume.Average},
	}
	var out []DegradedField
	for _, f := range fields {
		if !f.r.OK() {
			out = append(out, DegradedField{Field: f.name, Status: f.r.Status})
		}
	}
	return out
}

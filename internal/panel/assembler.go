package panel

import (
	"fmt"
	"math"
	"time"

	"StockPanel/internal/calculator"
	"StockPanel/internal/classify"
	"StockPanel/internal/fundamental"
	"StockPanel/internal/model"

	"github.com/rs/zerolog/log"
)

// Assembler builds one PanelSnapshot per call. It holds no per-call state and can be
// shared between goroutines working on different instruments.
type Assembler struct {
	Thresholds classify.Thresholds
	// Now anchors the year-to-date variation.
	Now func() time.Time
}

// NewAssembler creates an Assembler using the wall clock.
func NewAssembler(th classify.Thresholds) *Assembler {
	return &Assembler{Thresholds: th, Now: time.Now}
}

// Assemble computes variations, indicators, fundamentals and volume for one instrument.
// Only an empty or malformed price series fails; every other shortfall degrades its own field.
func (a *Assembler) Assemble(series model.PriceSeries, raw model.RawFundamentals) (*model.PanelSnapshot, error) {
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("assemble panel %s: %w", series.Symbol, err)
	}

	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}

	closes := series.Closes()
	last := series.Last()
	price := model.Known(last.Close)

	snap := &model.PanelSnapshot{
		Symbol:       series.Symbol,
		AsOf:         last.Time,
		CurrentPrice: last.Close,
		Variations:   classifyVariations(calculator.Variations(series, now)),
		Range:        calculator.Range52w(series.Bars),
	}

	rsi, _ := calculator.RSI(closes, calculator.DefaultRSIPeriod)
	snap.RSI = indicator(model.KindRSI, rsi, calculator.DefaultRSIPeriod)
	snap.RSI.Class = a.Thresholds.RSI.Classify(snap.RSI.Latest)

	sma50, _ := calculator.SMA(closes, 50)
	snap.SMA50 = indicator(model.KindSMA50, sma50, 50)
	snap.SMA50.Class = againstReference(price, snap.SMA50.Latest)

	sma200, _ := calculator.SMA(closes, 200)
	snap.SMA200 = indicator(model.KindSMA200, sma200, 200)
	snap.SMA200.Class = againstReference(price, snap.SMA200.Latest)

	macdLine, signalLine, _ := calculator.MACD(closes,
		calculator.DefaultMACDShort, calculator.DefaultMACDLong, calculator.DefaultMACDSignal)
	snap.MACD = indicator(model.KindMACD, macdLine, 1)
	snap.MACD.Signal = model.NewSeries(signalLine)
	histogram := model.Known(macdLine[len(macdLine)-1] - signalLine[len(signalLine)-1])
	snap.MACD.Class = classify.Classify(histogram, 0, 0)

	snap.Fundamentals = a.classifyFundamentals(fundamental.Normalize(raw))
	snap.Volume = compareVolume(series)

	snap.Chart = model.Chart{
		Dates:  series.Dates(),
		Close:  model.NewSeries(closes),
		SMA50:  snap.SMA50.Line,
		SMA200: snap.SMA200.Line,
		MACD:   snap.MACD.Line,
		Signal: snap.MACD.Signal,
	}

	for _, d := range snap.Degraded() {
		log.Warn().
			Str("symbol", snap.Symbol).
			Str("field", d.Field).
			Str("status", d.Status.String()).
			Msg("panel field degraded")
	}
	return snap, nil
}

// indicator wraps a computed line. A NaN tail is insufficient history while the line is
// shorter than warmup and indeterminate afterwards.
func indicator(kind model.IndicatorKind, line []float64, warmup int) model.IndicatorResult {
	res := model.IndicatorResult{Kind: kind, Line: model.NewSeries(line)}
	v := res.Line.Last()
	switch {
	case !math.IsNaN(v):
		res.Latest = model.Known(v)
	case len(line) < warmup:
		res.Latest = model.Insufficient()
	default:
		res.Latest = model.Indeterminate()
	}
	return res
}

// againstReference classifies price with the reference value as both thresholds.
func againstReference(price, ref model.Reading) model.Classification {
	if !ref.OK() {
		return model.NotAvailable
	}
	return classify.Classify(price, ref.Value, ref.Value)
}

func classifyVariations(vs model.VariationSet) model.VariationSet {
	for _, cr := range []*model.ClassifiedReading{&vs.Daily, &vs.Weekly, &vs.Monthly, &vs.YTD, &vs.Annual} {
		cr.Class = classify.Binary(cr.Reading, 0)
	}
	return vs
}

func (a *Assembler) classifyFundamentals(f model.FundamentalSnapshot) model.FundamentalPanel {
	th := a.Thresholds
	return model.FundamentalPanel{
		PERatio:       model.ClassifiedReading{Reading: f.PERatio, Class: th.PERatio.Classify(f.PERatio)},
		ROE:           model.ClassifiedReading{Reading: f.ROE, Class: th.ROE.Classify(f.ROE)},
		EPS:           model.ClassifiedReading{Reading: f.EPS, Class: th.EPS.Classify(f.EPS)},
		DividendYield: model.ClassifiedReading{Reading: f.DividendYield, Class: th.DividendYield.Classify(f.DividendYield)},
		Beta:          f.Beta,
		MarketCap:     f.MarketCap,
	}
}

func compareVolume(series model.PriceSeries) model.VolumeComparison {
	vc := model.VolumeComparison{
		Current: model.Known(series.Last().Volume),
		Average: model.FromResult(calculator.Mean(series.Volumes())),
	}
	vc.Class = model.NotAvailable
	if vc.Average.OK() {
		vc.Class = classify.Binary(vc.Current, vc.Average.Value)
	}
	return vc
}

package classify

import "StockPanel/internal/model"

// Classify maps a reading onto a qualitative state.
//
// With buy >= sell, values above buy are favorable and values below sell unfavorable.
// With buy < sell, lower is better: values below buy are favorable and values above sell
// unfavorable. Anything in between, including exact ties, is neutral. Absent or
// indeterminate readings are NotAvailable.
func Classify(r model.Reading, buy, sell float64) model.Classification {
	if !r.OK() {
		return model.NotAvailable
	}
	v := r.Value
	if buy < sell {
		switch {
		case v < buy:
			return model.Favorable
		case v > sell:
			return model.Unfavorable
		}
		return model.Neutral
	}
	switch {
	case v > buy:
		return model.Favorable
	case v < sell:
		return model.Unfavorable
	}
	return model.Neutral
}

// Binary is strictly-above versus not-above threshold, with no neutral band.
func Binary(r model.Reading, threshold float64) model.Classification {
	if !r.OK() {
		return model.NotAvailable
	}
	if r.Value > threshold {
		return model.Favorable
	}
	return model.Unfavorable
}

// Band applies Classify with its own thresholds.
func (b Band) Classify(r model.Reading) model.Classification {
	return Classify(r, b.Buy, b.Sell)
}

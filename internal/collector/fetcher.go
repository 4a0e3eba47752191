package collector

import (
	"context"
	"sort"

	"StockPanel/internal/model"
)

// Fetcher defines the interface for fetching instrument data.
type Fetcher interface {
	// FetchDailyBars returns up to sessions daily bars, oldest first.
	FetchDailyBars(ctx context.Context, symbol string, sessions int) ([]model.OHLCV, error)
	// FetchFundamentals returns the provider's fundamentals record. Omitted metrics stay nil.
	FetchFundamentals(ctx context.Context, symbol string) (model.RawFundamentals, error)
	Name() string
}

// normalizeBars sorts bars chronologically, keeps the last bar of any repeated session
// date and trims to the most recent sessions bars.
func normalizeBars(bars []model.OHLCV, sessions int) []model.OHLCV {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && sameSession(out[n-1], b) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	if sessions > 0 && len(out) > sessions {
		out = out[len(out)-sessions:]
	}
	return out
}

func sameSession(a, b model.OHLCV) bool {
	ay, am, ad := a.Time.Date()
	by, bm, bd := b.Time.Date()
	return ay == by && am == bm && ad == bd
}

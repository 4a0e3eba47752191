package collector

import (
	"context"
	"time"

	"StockPanel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price        float64
	DailyData    []model.OHLCV
	Fundamentals model.RawFundamentals
	// BarsErr and FundamentalsErr, when set, are returned by the matching fetch.
	BarsErr         error
	FundamentalsErr error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(ctx context.Context, _ string, sessions int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.BarsErr != nil {
		return nil, m.BarsErr
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, sessions, time.Now()), nil
}

func (m *MockFetcher) FetchFundamentals(ctx context.Context, _ string) (model.RawFundamentals, error) {
	if err := ctx.Err(); err != nil {
		return model.RawFundamentals{}, err
	}
	if m.FundamentalsErr != nil {
		return model.RawFundamentals{}, m.FundamentalsErr
	}
	return m.Fundamentals, nil
}

// generateMockBars drifts upward around basePrice, one bar per calendar day ending at end.
func generateMockBars(basePrice float64, count int, end time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   day.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000 + float64(i%5)*10000,
		}
	}
	return bars
}

package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockPanel/internal/metrics"
	"StockPanel/internal/model"
	"StockPanel/internal/panel"

	"github.com/rs/zerolog/log"
)

// DefaultSessions is the number of daily bars requested per panel. It covers the
// 200-session average and the 252-session annual variation with room for holidays.
const DefaultSessions = 300

// Collector fetches one instrument's data and hands it to the assembler.
type Collector struct {
	Fetcher   Fetcher
	Assembler *panel.Assembler
	Sessions  int
	Metrics   *metrics.Metrics
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, assembler *panel.Assembler, m *metrics.Metrics) *Collector {
	return &Collector{Fetcher: fetcher, Assembler: assembler, Sessions: DefaultSessions, Metrics: m}
}

// Collect builds the panel for symbol. Failing to get price history is fatal; failing to
// get fundamentals only leaves those fields missing.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.PanelSnapshot, error) {
	sessions := c.Sessions
	if sessions <= 0 {
		sessions = DefaultSessions
	}
	provider := c.Fetcher.Name()

	start := time.Now()
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, sessions)
	c.Metrics.ObserveFetch(provider, "bars", time.Since(start), err)
	if err != nil {
		c.Metrics.ObservePanel(nil, outcome(err))
		return nil, fmt.Errorf("fetch daily bars %s: %w", symbol, err)
	}

	start = time.Now()
	raw, err := c.Fetcher.FetchFundamentals(ctx, symbol)
	c.Metrics.ObserveFetch(provider, "fundamentals", time.Since(start), err)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Str("provider", provider).
			Msg("fundamentals unavailable, continuing without them")
		raw = model.RawFundamentals{}
	}

	series := model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}
	snap, err := c.Assembler.Assemble(series, raw)
	if err != nil {
		c.Metrics.ObservePanel(nil, outcome(err))
		return nil, err
	}
	c.Metrics.ObservePanel(snap, "ok")
	log.Info().Str("symbol", symbol).Float64("price", snap.CurrentPrice).
		Int("degraded", len(snap.Degraded())).Msg("panel assembled")
	return snap, nil
}

func outcome(err error) string {
	if errors.Is(err, model.ErrDataUnavailable) {
		return "unavailable"
	}
	return "error"
}

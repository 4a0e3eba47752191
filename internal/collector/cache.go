package collector

import (
	"context"
	"fmt"
	"time"

	"StockPanel/internal/model"

	"github.com/patrickmn/go-cache"
)

// CachingFetcher memoizes successful fetches of an inner Fetcher for a TTL.
// Errors are never cached.
type CachingFetcher struct {
	inner Fetcher
	cache *cache.Cache
}

// NewCachingFetcher wraps inner. A non-positive ttl caches entries for the life of the process.
func NewCachingFetcher(inner Fetcher, ttl time.Duration) *CachingFetcher {
	return &CachingFetcher{
		inner: inner,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CachingFetcher) Name() string { return c.inner.Name() }

func (c *CachingFetcher) FetchDailyBars(ctx context.Context, symbol string, sessions int) ([]model.OHLCV, error) {
	key := fmt.Sprintf("bars:%s:%d", symbol, sessions)
	if v, ok := c.cache.Get(key); ok {
		return cloneBars(v.([]model.OHLCV)), nil
	}
	bars, err := c.inner.FetchDailyBars(ctx, symbol, sessions)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, cloneBars(bars))
	return bars, nil
}

func (c *CachingFetcher) FetchFundamentals(ctx context.Context, symbol string) (model.RawFundamentals, error) {
	key := "fund:" + symbol
	if v, ok := c.cache.Get(key); ok {
		return v.(model.RawFundamentals), nil
	}
	raw, err := c.inner.FetchFundamentals(ctx, symbol)
	if err != nil {
		return model.RawFundamentals{}, err
	}
	c.cache.SetDefault(key, raw)
	return raw, nil
}

// Flush drops every cached entry.
func (c *CachingFetcher) Flush() { c.cache.Flush() }

// cloneBars keeps callers from mutating cached slices.
func cloneBars(bars []model.OHLCV) []model.OHLCV {
	out := make([]model.OHLCV, len(bars))
	copy(out, bars)
	return out
}

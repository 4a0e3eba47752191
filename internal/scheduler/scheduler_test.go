package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"StockPanel/internal/model"
	"StockPanel/internal/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeSource) Collect(_ context.Context, symbol string) (*model.PanelSnapshot, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	f.mu.Unlock()
	if err := f.fail[symbol]; err != nil {
		return nil, err
	}
	return &model.PanelSnapshot{
		Symbol:       symbol,
		AsOf:         time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC),
		CurrentPrice: 10,
	}, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return f.err
}

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func newTestScheduler(src *fakeSource, snd *fakeSender, watchlist ...string) *Scheduler {
	return NewScheduler(context.Background(), src, snd, watchlist, notifier.RenderOptions{Markup: notifier.MarkupPlain})
}

func TestRunNow_SendsOnePanelPerSymbol(t *testing.T) {
	src := &fakeSource{fail: map[string]error{
		"GONE": fmt.Errorf("fetch: %w", model.ErrDataUnavailable),
		"BAD":  errors.New("connection reset"),
	}}
	snd := &fakeSender{}
	s := newTestScheduler(src, snd, "AAPL", "GONE", "BAD")

	s.RunNow()

	assert.Equal(t, []string{"AAPL", "GONE", "BAD"}, src.calls)
	msgs := snd.messages()
	require.Len(t, msgs, 3)
	assert.Contains(t, msgs[0], "AAPL | 2026-10-13")
	assert.Equal(t, "❌ No price data available for GONE", msgs[1])
	assert.Contains(t, msgs[2], "connection reset")
}

func TestRunNow_SendFailureDoesNotStopWatchlist(t *testing.T) {
	src := &fakeSource{}
	snd := &fakeSender{err: errors.New("telegram down")}
	s := newTestScheduler(src, snd, "A", "B")

	s.RunNow()
	assert.Len(t, snd.messages(), 2)
}

func TestRunNow_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &fakeSource{}
	s := NewScheduler(ctx, src, &fakeSender{}, []string{"A"}, notifier.DefaultRenderOptions())

	s.RunNow()
	assert.Empty(t, src.calls)
}

func TestHandleCommand(t *testing.T) {
	src := &fakeSource{}
	snd := &fakeSender{}
	s := newTestScheduler(src, snd, "SPY")
	ctx := context.Background()

	reply := s.HandleCommand(ctx, "/panel msft")
	assert.Contains(t, reply, "MSFT | 2026-10-13")

	reply = s.HandleCommand(ctx, "/panel@StockPanelBot nvda")
	assert.Contains(t, reply, "NVDA")

	assert.Equal(t, "Usage: /panel TICKER", s.HandleCommand(ctx, "/panel"))
	assert.Equal(t, notifier.FormatHelp(notifier.MarkupPlain), s.HandleCommand(ctx, "/help"))
	assert.Equal(t, notifier.FormatHelp(notifier.MarkupPlain), s.HandleCommand(ctx, "hello"))
	assert.Equal(t, notifier.FormatHelp(notifier.MarkupPlain), s.HandleCommand(ctx, "   "))

	assert.Equal(t, "", s.HandleCommand(ctx, "/watchlist"))
	assert.Len(t, snd.messages(), 1)
	assert.Equal(t, []string{"MSFT", "NVDA", "SPY"}, src.calls)
}

func TestRegister(t *testing.T) {
	s := newTestScheduler(&fakeSource{}, &fakeSender{})

	require.NoError(t, s.Register("0 30 22 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("not a cron"))
}

package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"StockPanel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cr(v float64, c model.Classification) model.ClassifiedReading {
	return model.ClassifiedReading{Reading: model.Known(v), Class: c}
}

func sampleSnapshot() *model.PanelSnapshot {
	snap := &model.PanelSnapshot{
		Symbol:       "AAPL",
		AsOf:         time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC),
		CurrentPrice: 231.5,
		Variations: model.VariationSet{
			Daily:   cr(0.42, model.Favorable),
			Weekly:  cr(-1.3, model.Unfavorable),
			Monthly: cr(2.25, model.Favorable),
			YTD:     model.ClassifiedReading{Reading: model.Indeterminate()},
			Annual:  model.ClassifiedReading{Reading: model.Insufficient()},
		},
		RSI:    model.IndicatorResult{Kind: model.KindRSI, Latest: model.Known(55.5), Class: model.Neutral},
		SMA50:  model.IndicatorResult{Kind: model.KindSMA50, Latest: model.Known(220), Class: model.Favorable},
		SMA200: model.IndicatorResult{Kind: model.KindSMA200, Latest: model.Insufficient()},
		MACD: model.IndicatorResult{Kind: model.KindMACD, Latest: model.Known(1.5), Class: model.Favorable,
			Signal: model.NewSeries([]float64{1.2})},
		Fundamentals: model.FundamentalPanel{
			PERatio:       cr(28.1, model.Unfavorable),
			ROE:           cr(147.25, model.Favorable),
			EPS:           cr(6.08, model.Favorable),
			DividendYield: model.ClassifiedReading{Reading: model.Missing()},
			Beta:          model.Known(1.24),
			MarketCap:     model.Known(3.52),
		},
		Volume: model.VolumeComparison{Current: model.Known(45_600_000), Average: model.Known(52_100_000), Class: model.Unfavorable},
		Range: model.Range52w{High: model.Known(260), Low: model.Known(165), Position: model.Known(0.7)},
	}
	return snap
}

func TestParseMarkup(t *testing.T) {
	m, err := ParseMarkup(" ANSI ")
	require.NoError(t, err)
	assert.Equal(t, MarkupANSI, m)

	_, err = ParseMarkup("markdown")
	assert.Error(t, err)
}

func TestFormatPanel_HTML(t *testing.T) {
	out := FormatPanel(sampleSnapshot(), DefaultRenderOptions())

	assert.Contains(t, out, "<b>AAPL | 2026-10-13</b>")
	assert.Contains(t, out, "Current price: $231.50")
	assert.Contains(t, out, "🟢 Daily variation: +0.42%")
	assert.Contains(t, out, "🔴 Weekly variation: -1.30%")
	assert.Contains(t, out, "⚪ YTD variation: indeterminate")
	assert.Contains(t, out, "⚪ Annual variation: N/A")
	assert.Contains(t, out, "52-week range: $165.00 - $260.00 (at 70%)")
	assert.Contains(t, out, "🟡 RSI: 55.50")
	assert.Contains(t, out, "⚪ SMA 200: N/A")
	assert.Contains(t, out, "🟢 MACD: 1.50 (signal 1.20)")
	assert.Contains(t, out, "🔴 P/E ratio: 28.10")
	assert.Contains(t, out, "ROE: 147.25%")
	assert.Contains(t, out, "⚪ Dividend yield: N/A")
	assert.Contains(t, out, "Beta: 1.24")
	assert.Contains(t, out, "Market cap: $3.52T")
	assert.Contains(t, out, "🔴 Volume: 45600K")
	assert.Contains(t, out, "Average volume: 52100K")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestFormatPanel_EscapesHTML(t *testing.T) {
	snap := sampleSnapshot()
	snap.Symbol = "M&M<"
	out := FormatPanel(snap, DefaultRenderOptions())
	assert.Contains(t, out, "M&amp;M&lt;")
}

func TestFormatPanel_ANSI(t *testing.T) {
	out := FormatPanel(sampleSnapshot(), RenderOptions{Markup: MarkupANSI, ShowIndicatorClasses: true})

	assert.Contains(t, out, ansiGreen+"Daily variation: +0.42%"+ansiReset)
	assert.Contains(t, out, ansiRed+"Weekly variation: -1.30%"+ansiReset)
	assert.Contains(t, out, ansiYellow+"RSI: 55.50"+ansiReset)
	assert.NotContains(t, out, "<b>")
}

func TestFormatPanel_PlainWithoutIndicatorClasses(t *testing.T) {
	out := FormatPanel(sampleSnapshot(), RenderOptions{Markup: MarkupPlain})

	assert.Contains(t, out, "== Fundamentals ==")
	assert.Contains(t, out, "Daily variation: +0.42% [favorable]")
	assert.Contains(t, out, "Annual variation: N/A [not_available]")
	assert.Contains(t, out, "\nRSI: 55.50\n")
	assert.Contains(t, out, "\nSMA 50: $220.00\n")
	assert.NotContains(t, out, "\033[")
}

func TestFormatHelp_FollowsMarkup(t *testing.T) {
	htmlHelp := FormatHelp(MarkupHTML)
	assert.True(t, strings.HasPrefix(htmlHelp, "<b>Commands</b>\n"))
	assert.Contains(t, htmlHelp, "/panel TICKER")

	plain := FormatHelp(MarkupPlain)
	assert.True(t, strings.HasPrefix(plain, "== Commands ==\n"))
	assert.NotContains(t, plain, "<b>")

	assert.True(t, strings.HasPrefix(FormatHelp(MarkupANSI), ansiBold+"Commands"+ansiReset))
}

func TestWriteChartCSV(t *testing.T) {
	nan := math.NaN()
	chart := model.Chart{
		Dates: []time.Time{
			time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		Close:  model.NewSeries([]float64{10, 11}),
		SMA50:  model.NewSeries([]float64{nan, nan}),
		SMA200: model.NewSeries([]float64{nan, nan}),
		MACD:   model.NewSeries([]float64{0, 0.0798}),
		Signal: model.NewSeries([]float64{0, 0.016}),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteChartCSV(&buf, chart))

	want := "date,close,sma50,sma200,macd,signal\n" +
		"2026-01-02,10.0000,,,0.0000,0.0000\n" +
		"2026-01-05,11.0000,,,0.0798,0.0160\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteChartCSV_MisalignedSeries(t *testing.T) {
	chart := model.Chart{Dates: []time.Time{time.Now()}, Close: model.NewSeries([]float64{1, 2})}
	assert.Error(t, WriteChartCSV(&bytes.Buffer{}, chart))
}

type fakeTelegram struct {
	mu       sync.Mutex
	sent     []map[string]any
	failures atomic.Int32
	updates  atomic.Int32
}

func (f *fakeTelegram) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			if f.failures.Load() > 0 {
				f.failures.Add(-1)
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprint(w, `{"ok":false,"description":"Too Many Requests"}`)
				return
			}
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.mu.Lock()
			f.sent = append(f.sent, body)
			f.mu.Unlock()
			fmt.Fprint(w, `{"ok":true}`)
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if f.updates.Add(1) == 1 {
				fmt.Fprint(w, `{"ok":true,"result":[{"update_id":7,"message":{"text":" /panel AAPL "}},{"update_id":8}]}`)
				return
			}
			assert.Equal(t, "9", r.URL.Query().Get("offset"))
			fmt.Fprint(w, `{"ok":true,"result":[]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func (f *fakeTelegram) messages() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.sent...)
}

func newTestNotifier(t *testing.T, fake *fakeTelegram) *TelegramNotifier {
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)
	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIURL = srv.URL
	n.RetryDelay = time.Millisecond
	n.PollTimeout = 0
	return n
}

func TestTelegramSend(t *testing.T) {
	fake := &fakeTelegram{}
	n := newTestNotifier(t, fake)

	require.NoError(t, n.Send(context.Background(), "<b>hi</b>"))
	msgs := fake.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "42", msgs[0]["chat_id"])
	assert.Equal(t, "HTML", msgs[0]["parse_mode"])
	assert.Equal(t, "<b>hi</b>", msgs[0]["text"])
}

func TestTelegramSendWithRetry(t *testing.T) {
	fake := &fakeTelegram{}
	fake.failures.Store(2)
	n := newTestNotifier(t, fake)

	require.NoError(t, n.SendWithRetry(context.Background(), "x", 3))
	assert.Len(t, fake.messages(), 1)
}

func TestTelegramSendWithRetryExhausted(t *testing.T) {
	fake := &fakeTelegram{}
	fake.failures.Store(5)
	n := newTestNotifier(t, fake)

	err := n.SendWithRetry(context.Background(), "x", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 retries exhausted")
	assert.Contains(t, err.Error(), "Too Many Requests")
}

func TestStartPolling_DispatchesCommands(t *testing.T) {
	fake := &fakeTelegram{}
	n := newTestNotifier(t, fake)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []string
	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(_ context.Context, cmd string) string {
			got = append(got, cmd)
			return "reply to " + cmd
		})
		close(done)
	}()

	require.Eventually(t, func() bool { return len(fake.messages()) == 1 && fake.updates.Load() >= 2 },
		2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []string{"/panel AAPL"}, got)
	assert.Equal(t, "reply to /panel AAPL", fake.messages()[0]["text"])
}

package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"StockPanel/internal/model"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	// DefaultEODHDBaseURL is the base URL for the EODHD API.
	DefaultEODHDBaseURL = "https://eodhd.com/api"
	// DefaultEODHDRateLimit is requests per second.
	DefaultEODHDRateLimit = 10
)

// APIError is a non-2xx response from a data provider.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d on %s: %s", e.StatusCode, e.Endpoint, e.Message)
}

// EODHDFetcher implements Fetcher using the EODHD end-of-day and fundamentals API.
type EODHDFetcher struct {
	client  *resty.Client
	apiKey  string
	limiter *rate.Limiter
	now     func() time.Time
}

// EODHDOption configures an EODHDFetcher.
type EODHDOption func(*EODHDFetcher)

// WithEODHDBaseURL overrides the API base URL.
func WithEODHDBaseURL(baseURL string) EODHDOption {
	return func(f *EODHDFetcher) { f.client.SetBaseURL(baseURL) }
}

// WithEODHDRateLimit sets the request rate in requests per second.
func WithEODHDRateLimit(rps int) EODHDOption {
	return func(f *EODHDFetcher) { f.limiter = rate.NewLimiter(rate.Limit(rps), rps) }
}

// WithEODHDProxy routes requests through proxyURL.
func WithEODHDProxy(proxyURL string) EODHDOption {
	return func(f *EODHDFetcher) {
		if proxyURL != "" {
			f.client.SetProxy(proxyURL)
		}
	}
}

// NewEODHDFetcher creates an EODHD fetcher.
func NewEODHDFetcher(apiKey string, opts ...EODHDOption) *EODHDFetcher {
	f := &EODHDFetcher{
		client: resty.New().
			SetBaseURL(DefaultEODHDBaseURL).
			SetTimeout(30*time.Second).
			SetHeader("Accept", "application/json"),
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(DefaultEODHDRateLimit), DefaultEODHDRateLimit),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *EODHDFetcher) Name() string { return "eodhd" }

// optFloat decodes numbers, numeric strings and null. Anything else is treated as absent.
type optFloat struct {
	v *float64
}

func (o *optFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		o.v = &n
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			o.v = &n
		}
	}
	return nil
}

type eodBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type eodFundamentals struct {
	Highlights struct {
		MarketCapitalization optFloat `json:"MarketCapitalization"`
		EarningsShare        optFloat `json:"EarningsShare"`
		DividendYield        optFloat `json:"DividendYield"`
		ReturnOnEquityTTM    optFloat `json:"ReturnOnEquityTTM"`
	} `json:"Highlights"`
	Valuation struct {
		ForwardPE optFloat `json:"ForwardPE"`
	} `json:"Valuation"`
	Technicals struct {
		Beta optFloat `json:"Beta"`
	} `json:"Technicals"`
}

func (f *EODHDFetcher) get(ctx context.Context, path string, params map[string]string, result any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("eodhd rate limit: %w", err)
	}
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("api_token", f.apiKey).
		SetQueryParam("fmt", "json").
		SetResult(result).
		Get(path)
	if err != nil {
		return fmt.Errorf("eodhd request %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		return &APIError{StatusCode: resp.StatusCode(), Endpoint: path, Message: resp.String()}
	}
	return nil
}

func (f *EODHDFetcher) FetchDailyBars(ctx context.Context, symbol string, sessions int) ([]model.OHLCV, error) {
	// Roughly 252 sessions per 365 calendar days, padded for holidays.
	from := f.now().AddDate(0, 0, -(sessions*365/252 + 10))
	var raw []eodBar
	err := f.get(ctx, "/eod/"+url.PathEscape(symbol), map[string]string{
		"period": "d",
		"order":  "a",
		"from":   from.Format("2006-01-02"),
	}, &raw)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("eodhd: no bars for %s: %w", symbol, model.ErrDataUnavailable)
	}

	bars := make([]model.OHLCV, 0, len(raw))
	for _, r := range raw {
		t, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}
		bars = append(bars, model.OHLCV{Time: t, Open: r.Open, High: r.High, Low: r.Low, Close: r.Close, Volume: r.Volume})
	}
	return normalizeBars(bars, sessions), nil
}

func (f *EODHDFetcher) FetchFundamentals(ctx context.Context, symbol string) (model.RawFundamentals, error) {
	var raw eodFundamentals
	if err := f.get(ctx, "/fundamentals/"+url.PathEscape(symbol), nil, &raw); err != nil {
		return model.RawFundamentals{}, err
	}
	return model.RawFundamentals{
		ForwardPE:      raw.Valuation.ForwardPE.v,
		ReturnOnEquity: raw.Highlights.ReturnOnEquityTTM.v,
		TrailingEPS:    raw.Highlights.EarningsShare.v,
		DividendYield:  raw.Highlights.DividendYield.v,
		Beta:           raw.Technicals.Beta.v,
		MarketCap:      raw.Highlights.MarketCapitalization.v,
	}, nil
}

package collector

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"StockPanel/internal/model"

	"github.com/go-resty/resty/v2"
)

const (
	yahooChartURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooSummaryURL = "https://query2.finance.yahoo.com/v10/finance/quoteSummary"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	client     *resty.Client
	ChartURL   string
	SummaryURL string
	SymbolMap  map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetHeaders(map[string]string{
			"Accept":     "application/json",
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		})
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &YahooFetcher{
		client:     client,
		ChartURL:   yahooChartURL,
		SummaryURL: yahooSummaryURL,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from the chart API. Null quote entries decode as nil.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset    int    `json:"gmtoffset"`
				ExchangeName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} wrapper. Missing metrics arrive as {}.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				ForwardPE     yahooValue `json:"forwardPE"`
				DividendYield yahooValue `json:"dividendYield"`
				Beta          yahooValue `json:"beta"`
				MarketCap     yahooValue `json:"marketCap"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				ForwardPE   yahooValue `json:"forwardPE"`
				TrailingEps yahooValue `json:"trailingEps"`
				Beta        yahooValue `json:"beta"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				ReturnOnEquity yahooValue `json:"returnOnEquity"`
			} `json:"financialData"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

func valueAt(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

// orDefault returns *v, or def when the entry is null.
func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// chartRange picks the smallest Yahoo range that covers the requested sessions.
func chartRange(sessions int) string {
	switch {
	case sessions <= 20:
		return "1mo"
	case sessions <= 60:
		return "3mo"
	case sessions <= 120:
		return "6mo"
	case sessions <= 245:
		return "1y"
	case sessions <= 495:
		return "2y"
	default:
		return "5y"
	}
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, sessions int) ([]model.OHLCV, error) {
	var chart yahooChart
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"range":    chartRange(sessions),
		}).
		SetResult(&chart).
		SetError(&chart).
		Get(f.ChartURL + "/" + url.PathEscape(f.yahooSymbol(symbol)))
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s: %w", chart.Chart.Error.Description, model.ErrDataUnavailable)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s: %w", symbol, model.ErrDataUnavailable)
	}

	result := chart.Chart.Result[0]
	loc := time.FixedZone(result.Meta.ExchangeName, result.Meta.GMTOffset)
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := valueAt(quote.Close, i)
		if c == nil {
			continue // null bars (holidays, halted sessions)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).In(loc),
			// A null price field falls back to the close so it cannot become a zero low.
			Open:   orDefault(valueAt(quote.Open, i), *c),
			High:   orDefault(valueAt(quote.High, i), *c),
			Low:    orDefault(valueAt(quote.Low, i), *c),
			Close:  *c,
			Volume: orDefault(valueAt(quote.Volume, i), 0),
		})
	}
	return normalizeBars(bars, sessions), nil
}

func (f *YahooFetcher) FetchFundamentals(ctx context.Context, symbol string) (model.RawFundamentals, error) {
	var summary yahooSummary
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("modules", "summaryDetail,defaultKeyStatistics,financialData").
		SetResult(&summary).
		SetError(&summary).
		Get(f.SummaryURL + "/" + url.PathEscape(f.yahooSymbol(symbol)))
	if err != nil {
		return model.RawFundamentals{}, fmt.Errorf("yahoo summary fetch: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return model.RawFundamentals{}, fmt.Errorf("yahoo summary error: %s", summary.QuoteSummary.Error.Description)
	}
	if !resp.IsSuccess() {
		return model.RawFundamentals{}, fmt.Errorf("yahoo summary: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return model.RawFundamentals{}, nil
	}

	r := summary.QuoteSummary.Result[0]
	return model.RawFundamentals{
		ForwardPE:      firstOf(r.DefaultKeyStatistics.ForwardPE.Raw, r.SummaryDetail.ForwardPE.Raw),
		ReturnOnEquity: r.FinancialData.ReturnOnEquity.Raw,
		TrailingEPS:    r.DefaultKeyStatistics.TrailingEps.Raw,
		DividendYield:  r.SummaryDetail.DividendYield.Raw,
		Beta:           firstOf(r.SummaryDetail.Beta.Raw, r.DefaultKeyStatistics.Beta.Raw),
		MarketCap:      r.SummaryDetail.MarketCap.Raw,
	}, nil
}

func firstOf(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

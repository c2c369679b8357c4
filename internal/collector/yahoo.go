package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"StockLens/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// errNotOffered is returned for operations the Yahoo chart API has no
// equivalent for. The loader treats it like any other remote failure.
var errNotOffered = errors.New("not offered by yahoo")

// YahooFetcher implements Fetcher using the Yahoo Finance public chart API.
// It serves history and info only.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	Timeout   time.Duration
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  &http.Client{Transport: transport},
		Timeout: timeout,
		SymbolMap: map[string]string{
			"SPX":   "^GSPC",
			"SP500": "^GSPC",
			"NDX":   "^IXIC",
			"DJIA":  "^DJI",
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

func yahooInterval(tf model.Timeframe) string {
	switch tf {
	case model.TimeframeWeekly:
		return "1wk"
	case model.TimeframeMonthly, model.TimeframeYearly:
		return "1mo"
	default:
		return "1d"
	}
}

func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string, tf model.Timeframe, p model.Period) (*model.QuoteHistory, error) {
	rng := string(p)
	if tf == model.TimeframeYearly {
		rng = string(model.Period5Y)
	}
	result, err := f.fetchChart(ctx, "history", symbol, yahooInterval(tf), rng)
	if err != nil {
		return nil, err
	}
	bars, err := chartBars(result)
	if err != nil {
		return nil, invalid("history", symbol, "%v", err)
	}
	if tf == model.TimeframeYearly {
		bars = aggregateYearly(bars)
	}
	h := model.HistoryFromBars(symbol, tf, p, bars)
	if err := h.Validate(); err != nil {
		return nil, invalid("history", symbol, "%v", err)
	}
	return h, nil
}

func (f *YahooFetcher) FetchInfo(ctx context.Context, symbol string) (*model.SymbolInfo, error) {
	result, err := f.fetchChart(ctx, "info", symbol, "1d", "1d")
	if err != nil {
		return nil, err
	}
	meta := result.Get("meta")
	if meta == nil || meta.Type() != fastjson.TypeObject {
		return nil, invalid("info", symbol, "chart has no meta object")
	}
	name := optString(meta, "longName")
	if name == "" {
		name = optString(meta, "shortName")
	}
	return &model.SymbolInfo{
		Symbol:           symbol,
		Name:             name,
		FiftyTwoWeekHigh: optFloat(meta, "fiftyTwoWeekHigh"),
		FiftyTwoWeekLow:  optFloat(meta, "fiftyTwoWeekLow"),
	}, nil
}

func (f *YahooFetcher) FetchPrediction(_ context.Context, symbol string, _ int) (*model.PredictionResult, error) {
	return nil, newError(KindRemote, "prediction", symbol, errNotOffered)
}

func (f *YahooFetcher) FetchPopular(_ context.Context) ([]model.StockSummary, error) {
	return nil, newError(KindRemote, "popular", "", errNotOffered)
}

func (f *YahooFetcher) Search(_ context.Context, _ string) ([]model.StockSummary, error) {
	return nil, newError(KindRemote, "search", "", errNotOffered)
}

// fetchChart returns chart.result[0] of the chart API response.
func (f *YahooFetcher) fetchChart(ctx context.Context, op, symbol, interval, rng string) (*fastjson.Value, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		strings.TrimRight(f.BaseURL, "/"), url.PathEscape(f.yahooSymbol(symbol)), interval, rng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, newError(KindUnreachable, op, symbol, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, transportError(op, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(op, symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newError(KindRemote, op, symbol, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body, 200)))
	}

	// The parsed value outlives this call, so it gets its own parser.
	v, err := fastjson.ParseBytes(body)
	if err != nil {
		return nil, newError(KindInvalidResponse, op, symbol, err)
	}
	if e := v.Get("chart", "error"); e != nil && e.Type() == fastjson.TypeObject {
		return nil, newError(KindRemote, op, symbol, fmt.Errorf("yahoo api error: %s", e.GetStringBytes("description")))
	}
	result := v.Get("chart", "result", "0")
	if result == nil {
		return nil, invalid(op, symbol, "yahoo: no data returned")
	}
	return result, nil
}

// chartBars converts a chart result into chronologically sorted daily bars.
// Null bars (holidays etc.) are skipped; of several bars on one day the last wins.
func chartBars(result *fastjson.Value) ([]model.OHLCV, error) {
	stamps := result.GetArray("timestamp")
	if len(stamps) == 0 {
		return nil, errors.New("no timestamps")
	}
	quote := result.Get("indicators", "quote", "0")
	if quote == nil {
		return nil, errors.New("no quote indicators")
	}
	channel := func(key string, i int) float64 {
		arr := quote.GetArray(key)
		if i >= len(arr) {
			return 0
		}
		return arr[i].GetFloat64()
	}

	bars := make([]model.OHLCV, 0, len(stamps))
	for i, ts := range stamps {
		c := channel("close", i)
		if c == 0 {
			continue
		}
		day := model.Day(time.Unix(ts.GetInt64(), 0).UTC())
		bar := model.OHLCV{
			Time:   day,
			Open:   channel("open", i),
			High:   channel("high", i),
			Low:    channel("low", i),
			Close:  c,
			Volume: channel("volume", i),
		}
		if n := len(bars); n > 0 && !day.After(bars[n-1].Time) {
			if day.Equal(bars[n-1].Time) {
				bars[n-1] = bar
			}
			continue
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, errors.New("all bars are null")
	}
	return bars, nil
}

// aggregateYearly folds monthly bars into calendar-year bars dated at the
// last bar of each year.
func aggregateYearly(monthly []model.OHLCV) []model.OHLCV {
	var yearly []model.OHLCV
	for _, m := range monthly {
		n := len(yearly)
		if n == 0 || yearly[n-1].Time.Year() != m.Time.Year() {
			yearly = append(yearly, m)
			continue
		}
		y := &yearly[n-1]
		if m.High > y.High {
			y.High = m.High
		}
		if m.Low < y.Low {
			y.Low = m.Low
		}
		y.Time = m.Time
		y.Close = m.Close
		y.Volume += m.Volume
	}
	return yearly
}

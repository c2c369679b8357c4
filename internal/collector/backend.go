package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"StockLens/internal/model"
)

// DefaultTimeout bounds every backend round trip.
const DefaultTimeout = 5 * time.Second

// BackendFetcher implements Fetcher against the stock backend REST API.
type BackendFetcher struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

// NewBackendFetcher creates a new fetcher with optional proxy support.
func NewBackendFetcher(baseURL, proxyURL string, timeout time.Duration) *BackendFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &BackendFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Transport: transport},
		Timeout: timeout,
	}
}

func (f *BackendFetcher) Name() string { return "backend" }

func (f *BackendFetcher) FetchHistory(ctx context.Context, symbol string, tf model.Timeframe, p model.Period) (*model.QuoteHistory, error) {
	q := url.Values{"timeframe": {string(tf)}, "period": {string(p)}}
	var h *model.QuoteHistory
	err := f.get(ctx, "history", symbol, "/stocks/history/"+url.PathEscape(symbol), q, func(v *fastjson.Value) (err error) {
		h, err = decodeHistory(v, symbol, tf, p)
		return err
	})
	return h, err
}

func (f *BackendFetcher) FetchInfo(ctx context.Context, symbol string) (*model.SymbolInfo, error) {
	var info *model.SymbolInfo
	err := f.get(ctx, "info", symbol, "/stocks/info/"+url.PathEscape(symbol), nil, func(v *fastjson.Value) (err error) {
		info, err = decodeInfo(v, symbol)
		return err
	})
	return info, err
}

func (f *BackendFetcher) FetchPrediction(ctx context.Context, symbol string, days int) (*model.PredictionResult, error) {
	q := url.Values{"days": {strconv.Itoa(days)}}
	var p *model.PredictionResult
	err := f.get(ctx, "prediction", symbol, "/stocks/predict/"+url.PathEscape(symbol), q, func(v *fastjson.Value) (err error) {
		p, err = decodePrediction(v, symbol)
		return err
	})
	return p, err
}

func (f *BackendFetcher) FetchPopular(ctx context.Context) ([]model.StockSummary, error) {
	var list []model.StockSummary
	err := f.get(ctx, "popular", "", "/stocks/popular", nil, func(v *fastjson.Value) (err error) {
		list, err = decodeSummaries(v)
		return err
	})
	return list, err
}

func (f *BackendFetcher) Search(ctx context.Context, query string) ([]model.StockSummary, error) {
	var list []model.StockSummary
	err := f.get(ctx, "search", "", "/stocks/search", url.Values{"q": {query}}, func(v *fastjson.Value) (err error) {
		list, err = decodeSummaries(v)
		return err
	})
	return list, err
}

// get performs one round trip under the fetcher timeout and hands the parsed
// payload to decode. The payload is only valid inside decode.
func (f *BackendFetcher) get(ctx context.Context, op, symbol, path string, q url.Values, decode func(*fastjson.Value) error) error {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := f.BaseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return newError(KindUnreachable, op, symbol, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return transportError(op, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(op, symbol, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(KindRemote, op, symbol, fmt.Errorf("status %d, body: %s", resp.StatusCode, truncate(body, 200)))
	}

	var parser fastjson.Parser
	v, err := parser.ParseBytes(body)
	if err != nil {
		return newError(KindInvalidResponse, op, symbol, err)
	}
	if v.Type() == fastjson.TypeObject && v.Exists("error") {
		msg := string(v.GetStringBytes("error"))
		if detail := v.GetStringBytes("message"); len(detail) > 0 {
			msg += ": " + string(detail)
		}
		return newError(KindRemote, op, symbol, errors.New(msg))
	}
	if err := decode(v); err != nil {
		return newError(KindInvalidResponse, op, symbol, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

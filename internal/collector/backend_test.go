package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

func serve(t *testing.T, status int, body string) *BackendFetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewBackendFetcher(srv.URL, "", time.Second)
}

func TestFetchHistory_OK(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(`{"dates":["2026-01-02","2026-01-05","2026-01-06"],
			"open":[1,2,3],"high":[2,3,4],"low":[0.5,1.5,2.5],"close":[1.5,2.5,3.5],"volume":[10,20,30]}`))
	}))
	defer srv.Close()

	f := NewBackendFetcher(srv.URL+"/", "", time.Second)
	h, err := f.FetchHistory(context.Background(), "AAPL", model.TimeframeWeekly, model.Period6M)
	require.NoError(t, err)
	assert.Equal(t, "/stocks/history/AAPL", gotPath)
	assert.Equal(t, "period=6mo&timeframe=weekly", gotQuery)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, h.Close)
	assert.True(t, h.HasOHLC())
	assert.Equal(t, "2026-01-05", model.FormatDay(h.Dates[1]))
}

func TestFetchHistory_CloseOnly(t *testing.T) {
	f := serve(t, 200, `{"dates":["2026-01-02","2026-01-05"],"close":[1,2]}`)
	h, err := f.FetchHistory(context.Background(), "AAPL", model.TimeframeDaily, model.Period1M)
	require.NoError(t, err)
	assert.Nil(t, h.Open)
	assert.False(t, h.HasOHLC())
}

func TestFetchHistory_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing close", `{"dates":["2026-01-02"]}`},
		{"missing dates", `{"close":[1]}`},
		{"short close", `{"dates":["2026-01-02","2026-01-05"],"close":[1]}`},
		{"short optional", `{"dates":["2026-01-02","2026-01-05"],"close":[1,2],"volume":[1]}`},
		{"null value", `{"dates":["2026-01-02","2026-01-05"],"close":[1,null]}`},
		{"unordered dates", `{"dates":["2026-01-05","2026-01-02"],"close":[1,2]}`},
		{"not json", `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := serve(t, 200, tt.body)
			_, err := f.FetchHistory(context.Background(), "AAPL", model.TimeframeDaily, model.Period1M)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidResponse)
			assert.Equal(t, KindInvalidResponse, KindOf(err))
		})
	}
}

func TestFetchInfo(t *testing.T) {
	f := serve(t, 200, `{"symbol":"MSFT","name":"Microsoft","market_cap":3.1e12,"pe_ratio":0}`)
	info, err := f.FetchInfo(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "Microsoft", info.Name)
	assert.Empty(t, info.Sector)
	require.NotNil(t, info.MarketCap)
	assert.InDelta(t, 3.1e12, *info.MarketCap, 1)
	assert.Nil(t, info.PERatio, "zero means unknown")

	f = serve(t, 200, `[1,2,3]`)
	_, err = f.FetchInfo(context.Background(), "MSFT")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

const predictionBody = `{"ticker":"AAPL","last_price":3,
	"prediction":{"dates":["2026-01-04","2026-01-05"],"values":[4,5]},
	"actual":{"dates":["2026-01-01","2026-01-02","2026-01-03"],"test_actual":[1,2,3],"test_pred":[1.1,2.1,2.9]}}`

func TestFetchPrediction(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(predictionBody))
	}))
	defer srv.Close()

	p, err := NewBackendFetcher(srv.URL, "", time.Second).FetchPrediction(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	assert.Equal(t, "days=2", gotQuery)
	assert.Equal(t, 2, p.Horizon())
	assert.Equal(t, 3.0, p.LastPrice)
	assert.Equal(t, []float64{1.1, 2.1, 2.9}, p.History.BacktestPredictedValues)
}

func TestFetchPrediction_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"error field", 200, `{"error":"데이터 없음","message":"no data"}`, ErrRemote},
		{"http 500", 500, `{"error":"boom"}`, ErrRemote},
		{"no forecast", 200, `{"actual":{"dates":[],"test_actual":[],"test_pred":[]}}`, ErrInvalidResponse},
		{"no history", 200, `{"prediction":{"dates":["2026-01-04"],"values":[4]}}`, ErrInvalidResponse},
		{"mismatch", 200, `{"prediction":{"dates":["2026-01-04"],"values":[4,5]},
			"actual":{"dates":["2026-01-03"],"test_actual":[1],"test_pred":[1]}}`, ErrInvalidResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := serve(t, tt.status, tt.body)
			_, err := f.FetchPrediction(context.Background(), "AAPL", 30)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := NewBackendFetcher(srv.URL, "", 50*time.Millisecond)
	start := time.Now()
	_, err := f.FetchPrediction(context.Background(), "AAPL", 30)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewBackendFetcher(url, "", time.Second).FetchInfo(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrUnreachable)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "info", fe.Op)
	assert.Equal(t, "AAPL", fe.Symbol)
}

func TestFetchPopularAndSearch(t *testing.T) {
	f := serve(t, 200, `[{"symbol":"AAPL","name":"Apple Inc.","sector":"Technology"},{"name":"no symbol"}]`)
	list, err := f.FetchPopular(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Technology", list[0].Sector)

	list, err = f.Search(context.Background(), "app")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	f = serve(t, 200, `{"symbol":"AAPL"}`)
	_, err = f.FetchPopular(context.Background())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindTimeout, KindOf(context.DeadlineExceeded))
	assert.Equal(t, KindUnreachable, KindOf(errors.New("connection refused")))
	assert.Equal(t, KindRemote, KindOf(newError(KindRemote, "info", "X", errors.New("x"))))
}

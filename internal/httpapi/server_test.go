package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/collector"
	"StockLens/internal/labels"
	"StockLens/internal/loader"
	"StockLens/internal/model"
	"StockLens/internal/presenter"
	"StockLens/internal/recorder"
	"StockLens/internal/view"
	"StockLens/internal/watchlist"
)

func newTestServer(t *testing.T, f collector.Fetcher) *httptest.Server {
	t.Helper()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "loads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	l := labels.Default()
	deps := view.Deps{
		Loader:    loader.New(f, rec),
		Presenter: presenter.New(l),
		Labels:    l,
		Watchlist: watchlist.New(watchlist.NewMemoryStore()),
	}
	dash := view.NewDashboard(deps, view.DashboardOptions{})
	srv := httptest.NewServer(NewServer(deps, dash, rec, 30).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{})
	var body map[string]string
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/health", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestDashboard_LoadsOnFirstRequest(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{Err: errors.New("backend down")})

	var state view.DashboardState
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/dashboard", &state))
	assert.Len(t, state.Indices, 4)
	assert.Len(t, state.Cards, 10)
	require.NotNil(t, state.Preview)
	assert.Equal(t, "AAPL", state.Preview.Symbol)

	require.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/api/dashboard/preview/tsla", &state))
	assert.Equal(t, "TSLA", state.Preview.Symbol)
	assert.Len(t, state.Cards, 10, "preview switch keeps the other sections")
}

func TestStock(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{})

	var state view.DetailState
	require.Equal(t, http.StatusOK,
		do(t, http.MethodGet, srv.URL+"/api/stocks/msft?timeframe=weekly&period=6mo&chart=candle", &state))
	assert.Equal(t, "MSFT", state.Symbol)
	assert.Equal(t, "마이크로소프트", state.Name)
	assert.Equal(t, "weekly", string(state.Timeframe))
	assert.Equal(t, "candlestick", state.Price.Traces[0].Type)

	var errBody map[string]string
	assert.Equal(t, http.StatusBadRequest,
		do(t, http.MethodGet, srv.URL+"/api/stocks/msft?timeframe=hourly", &errBody))
	assert.Contains(t, errBody["error"], "hourly")
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{Err: errors.New("backend down")})
	var state view.SearchState
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/search?q=nvda", &state))
	require.NotEmpty(t, state.Results)
	assert.Equal(t, "NVDA", state.Results[0].Symbol)
	assert.Equal(t, "synthetic", string(state.Source))
}

func TestWatchlistEndpoints(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{})

	var state view.WatchlistState
	require.Equal(t, http.StatusOK, do(t, http.MethodPut, srv.URL+"/api/watchlist/msft", &state))
	require.Equal(t, http.StatusOK, do(t, http.MethodPut, srv.URL+"/api/watchlist/TSLA", &state))
	require.Equal(t, http.StatusOK, do(t, http.MethodDelete, srv.URL+"/api/watchlist/MSFT", &state))
	assert.Equal(t, []string{"TSLA"}, state.Symbols)
	require.Len(t, state.Cards, 1, "mutations return the reloaded page")
	assert.Equal(t, "TSLA", state.Cards[0].Symbol)

	require.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/api/watchlist/nvda/toggle", &state))
	assert.Equal(t, []string{"TSLA", "NVDA"}, state.Symbols)
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/api/watchlist/NVDA/toggle", &state))
	assert.Equal(t, []string{"TSLA"}, state.Symbols)

	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/watchlist", &state))
	require.Len(t, state.Cards, 1)
	assert.Equal(t, "TSLA", state.Cards[0].Symbol)
	assert.True(t, state.Cards[0].Watched)
}

func TestDashboard_ClientDisconnectStillRefreshes(t *testing.T) {
	rec := &countingRecorder{}
	l := labels.Default()
	deps := view.Deps{
		Loader:    loader.New(&collector.MockFetcher{Delay: 50 * time.Millisecond}, rec),
		Presenter: presenter.New(l),
		Labels:    l,
	}
	dash := view.NewDashboard(deps, view.DashboardOptions{CardCount: 2})
	h := NewServer(deps, dash, rec, 30).Handler()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)

	state := dash.State()
	require.False(t, state.UpdatedAt.IsZero(), "shared dashboard is refreshed despite the dropped client")
	assert.Equal(t, model.SourceRemote, state.PopularSource)
	require.NotNil(t, state.Preview)
	assert.Equal(t, model.SourceRemote, state.Preview.Chart.Source)
	assert.Zero(t, rec.synthetic(), "no load is recorded as a backend failure")

	req = httptest.NewRequest(http.MethodPost, "/api/dashboard/preview/TSLA", nil).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "TSLA", dash.State().Preview.Symbol)
	assert.Equal(t, model.SourceRemote, dash.State().Preview.Chart.Source)
}

type countingRecorder struct {
	recorder.NoopRecorder
	mu     sync.Mutex
	events []recorder.LoadEvent
}

func (c *countingRecorder) RecordLoad(evt *recorder.LoadEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, *evt)
	return nil
}

func (c *countingRecorder) synthetic() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Source != string(model.SourceRemote) {
			n++
		}
	}
	return n
}

func TestDiagnosticsLoads(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{Err: errors.New("backend down")})
	do(t, http.MethodGet, srv.URL+"/api/search?q=aapl", nil)

	var body struct {
		Loads []recorder.LoadEvent `json:"loads"`
	}
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/diagnostics/loads?limit=5", &body))
	require.Len(t, body.Loads, 1)
	assert.Equal(t, "search", body.Loads[0].Operation)
	assert.Equal(t, "synthetic", body.Loads[0].Source)
	assert.Equal(t, "unreachable", body.Loads[0].FailureKind)

	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, srv.URL+"/api/diagnostics/loads?limit=zero", nil))
}

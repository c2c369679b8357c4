// Package httpapi serves the page controllers' ready-to-render state as
// JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"StockLens/internal/model"
	"StockLens/internal/presenter"
	"StockLens/internal/recorder"
	"StockLens/internal/view"
)

// Server exposes the dashboard, stock detail, search, watchlist and load
// diagnostics endpoints. The dashboard is shared; every other page gets a
// fresh controller per request, closed when the client goes away.
type Server struct {
	deps      view.Deps
	dashboard *view.Dashboard
	recorder  recorder.Recorder
	horizon   int
}

// NewServer creates a Server. rec may be nil.
func NewServer(deps view.Deps, dash *view.Dashboard, rec recorder.Recorder, horizon int) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Server{deps: deps, dashboard: dash, recorder: rec, horizon: horizon}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("POST /api/dashboard/preview/{symbol}", s.handlePreview)
	mux.HandleFunc("GET /api/stocks/{symbol}", s.handleStock)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/watchlist", s.handleGetWatchlist)
	mux.HandleFunc("PUT /api/watchlist/{symbol}", s.handleAddWatchlist)
	mux.HandleFunc("DELETE /api/watchlist/{symbol}", s.handleRemoveWatchlist)
	mux.HandleFunc("POST /api/watchlist/{symbol}/toggle", s.handleToggleWatchlist)
	mux.HandleFunc("GET /api/diagnostics/loads", s.handleLoads)
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// closeOnDone tears c down once the request ends.
func closeOnDone(ctx context.Context, c interface{ Close() }) func() {
	stop := context.AfterFunc(ctx, c.Close)
	return func() { stop() }
}

func symbolParam(r *http.Request) (string, bool) {
	sym := strings.ToUpper(strings.TrimSpace(r.PathValue("symbol")))
	return sym, sym != ""
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// shared detaches a load of the shared dashboard from the client, so a
// dropped connection cannot abandon a refresh other clients will read.
func shared(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	state := s.dashboard.State()
	if state.UpdatedAt.IsZero() {
		state, _ = s.dashboard.Refresh(shared(r))
	}
	writeJSON(w, state)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sym, ok := symbolParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	state, _ := s.dashboard.SelectPreview(shared(r), sym)
	writeJSON(w, state)
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	sym, ok := symbolParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	q := r.URL.Query()
	tf, err := model.ParseTimeframe(q.Get("timeframe"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := model.ParsePeriod(q.Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail := view.NewStockDetail(s.deps, s.horizon)
	defer closeOnDone(r.Context(), detail)()
	state, applied := detail.Open(r.Context(), sym, tf, p, presenter.ParseMode(q.Get("chart")))
	if !applied {
		return
	}
	writeJSON(w, state)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	search := view.NewSearch(s.deps)
	defer closeOnDone(r.Context(), search)()
	state, applied := search.Query(r.Context(), r.URL.Query().Get("q"))
	if !applied {
		return
	}
	writeJSON(w, state)
}

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	wv := view.NewWatchlistView(s.deps)
	defer closeOnDone(r.Context(), wv)()
	state, applied := wv.Load(r.Context())
	if !applied {
		return
	}
	writeJSON(w, state)
}

func (s *Server) handleAddWatchlist(w http.ResponseWriter, r *http.Request) {
	s.mutateWatchlist(w, r, (*view.WatchlistView).Add)
}

func (s *Server) handleRemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	s.mutateWatchlist(w, r, (*view.WatchlistView).Remove)
}

func (s *Server) handleToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	s.mutateWatchlist(w, r, (*view.WatchlistView).Toggle)
}

type watchlistOp func(*view.WatchlistView, context.Context, string) (view.WatchlistState, bool)

// mutateWatchlist applies op and responds with the reloaded watchlist page.
func (s *Server) mutateWatchlist(w http.ResponseWriter, r *http.Request, op watchlistOp) {
	sym, ok := symbolParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	if s.deps.Watchlist == nil {
		writeError(w, http.StatusServiceUnavailable, "watchlist storage not configured")
		return
	}
	wv := view.NewWatchlistView(s.deps)
	defer closeOnDone(r.Context(), wv)()
	state, applied := op(wv, r.Context(), sym)
	if !applied {
		return
	}
	writeJSON(w, state)
}

func (s *Server) handleLoads(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, 500)
	}
	events, err := s.recorder.RecentLoads(limit)
	if err != nil {
		log.Printf("[ERROR] recent loads: %v", err)
		writeError(w, http.StatusInternalServerError, "load history unavailable")
		return
	}
	if events == nil {
		events = []recorder.LoadEvent{}
	}
	writeJSON(w, map[string]any{"loads": events})
}

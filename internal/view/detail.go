package view

import (
	"context"
	"strings"
	"sync"

	"StockLens/internal/calculator"
	"StockLens/internal/labels"
	"StockLens/internal/model"
	"StockLens/internal/presenter"
)

// Range is the 52-week band of a stock.
type Range struct {
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Position float64 `json:"position"`
}

// DetailState is a snapshot of the stock detail page.
type DetailState struct {
	Symbol     string            `json:"symbol"`
	Name       string            `json:"name"`
	Sector     string            `json:"sector,omitempty"`
	Industry   string            `json:"industry,omitempty"`
	Info       *model.SymbolInfo `json:"info"`
	InfoSource model.Source      `json:"info_source"`
	Timeframe  model.Timeframe   `json:"timeframe"`
	Period     model.Period      `json:"period"`
	Mode       presenter.Mode    `json:"mode"`
	Price      *presenter.Chart  `json:"price_chart"`
	Prediction *presenter.Chart  `json:"prediction_chart"`
	Range      *Range            `json:"range_52w,omitempty"`
	Watched    bool              `json:"watched"`
}

// StockDetail drives the per-stock page.
type StockDetail struct {
	deps    Deps
	horizon int

	guard guard
	mu    sync.RWMutex
	state DetailState
}

// NewStockDetail creates the detail controller. horizon is the prediction
// length in days.
func NewStockDetail(deps Deps, horizon int) *StockDetail {
	if horizon <= 0 {
		horizon = 30
	}
	return &StockDetail{deps: deps, horizon: horizon}
}

// State returns the current snapshot.
func (s *StockDetail) State() DetailState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Open loads info, history and prediction for symbol concurrently and
// reports whether the result was applied. Changing any parameter while a
// load is in flight discards the older load.
func (s *StockDetail) Open(ctx context.Context, symbol string, tf model.Timeframe, p model.Period, mode presenter.Mode) (DetailState, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	t := s.guard.begin(strings.Join([]string{symbol, string(tf), string(p), string(mode)}, "|"))

	var (
		info model.Loaded[*model.SymbolInfo]
		hist model.Loaded[*model.QuoteHistory]
		pred model.Loaded[*model.PredictionResult]
		wg   sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		info = s.deps.Loader.LoadInfo(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		hist = s.deps.Loader.LoadHistory(ctx, symbol, tf, p)
	}()
	go func() {
		defer wg.Done()
		pred = s.deps.Loader.LoadPrediction(ctx, symbol, s.horizon)
	}()
	wg.Wait()

	name := info.Result.Name
	if name == "" {
		name = symbol
	}
	next := DetailState{
		Symbol:     symbol,
		Name:       labels.Name(s.deps.Labels, symbol, name),
		Sector:     labels.Sector(s.deps.Labels, info.Result.Sector),
		Industry:   labels.Sector(s.deps.Labels, info.Result.Industry),
		Info:       info.Result,
		InfoSource: info.Source,
		Timeframe:  hist.Result.Timeframe,
		Period:     hist.Result.Period,
		Mode:       mode,
		Price:      s.deps.Presenter.HistoryChart(hist, name, mode),
		Prediction: s.deps.Presenter.PredictionChart(pred),
		Range:      yearRange(info.Result, hist.Result),
	}
	if s.deps.Watchlist != nil {
		next.Watched = s.deps.Watchlist.Contains(ctx, symbol)
	}

	applied := s.guard.apply(ctx, t, func() {
		s.mu.Lock()
		s.state = next
		s.mu.Unlock()
	})
	if !applied {
		return s.State(), false
	}
	return next, true
}

// Close marks the page torn down; in-flight loads are discarded.
func (s *StockDetail) Close() { s.guard.close() }

// yearRange prefers the backend's 52-week fields and computes the band
// from the history otherwise.
func yearRange(info *model.SymbolInfo, h *model.QuoteHistory) *Range {
	last := h.CloseSeries().Last()
	var high, low float64
	if info.FiftyTwoWeekHigh != nil && info.FiftyTwoWeekLow != nil {
		high, low = *info.FiftyTwoWeekHigh, *info.FiftyTwoWeekLow
	} else {
		var err error
		if high, low, err = calculator.Range52Week(h); err != nil {
			return nil
		}
	}
	pos, err := calculator.Position52Week(last, high, low)
	if err != nil {
		return nil
	}
	return &Range{High: high, Low: low, Position: pos}
}

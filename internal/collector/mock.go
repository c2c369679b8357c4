package collector

import (
	"context"
	"sync"
	"time"

	"StockLens/internal/catalog"
	"StockLens/internal/model"
	"StockLens/internal/synth"
)

// MockFetcher returns controllable fixed data for development and testing.
// Nil data fields fall back to generated series; a non-nil Err fails every
// call; Delay simulates a slow backend and honours ctx.
type MockFetcher struct {
	History    *model.QuoteHistory
	Info       *model.SymbolInfo
	Prediction *model.PredictionResult
	Popular    []model.StockSummary
	Err        error
	Delay      time.Duration

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times op was invoked.
func (m *MockFetcher) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockFetcher) begin(ctx context.Context, op, symbol string) error {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return transportError(op, symbol, ctx.Err())
		}
	}
	if m.Err != nil {
		return m.Err
	}
	return nil
}

func (m *MockFetcher) FetchHistory(ctx context.Context, symbol string, tf model.Timeframe, p model.Period) (*model.QuoteHistory, error) {
	if err := m.begin(ctx, "history", symbol); err != nil {
		return nil, err
	}
	if m.History != nil {
		return m.History, nil
	}
	return synth.History(symbol, tf, p, time.Now()), nil
}

func (m *MockFetcher) FetchInfo(ctx context.Context, symbol string) (*model.SymbolInfo, error) {
	if err := m.begin(ctx, "info", symbol); err != nil {
		return nil, err
	}
	if m.Info != nil {
		return m.Info, nil
	}
	return synth.Info(symbol), nil
}

func (m *MockFetcher) FetchPrediction(ctx context.Context, symbol string, days int) (*model.PredictionResult, error) {
	if err := m.begin(ctx, "prediction", symbol); err != nil {
		return nil, err
	}
	if m.Prediction != nil {
		return m.Prediction, nil
	}
	return synth.Prediction(symbol, days, time.Now()), nil
}

func (m *MockFetcher) FetchPopular(ctx context.Context) ([]model.StockSummary, error) {
	if err := m.begin(ctx, "popular", ""); err != nil {
		return nil, err
	}
	if m.Popular != nil {
		return m.Popular, nil
	}
	return catalog.Popular, nil
}

func (m *MockFetcher) Search(ctx context.Context, query string) ([]model.StockSummary, error) {
	if err := m.begin(ctx, "search", ""); err != nil {
		return nil, err
	}
	return catalog.Match(query), nil
}

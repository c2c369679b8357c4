package collector

import (
	"context"

	"StockLens/internal/model"
)

// Fetcher defines the interface for fetching market data. Every method
// fails with a *FetchError.
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol string, tf model.Timeframe, p model.Period) (*model.QuoteHistory, error)
	FetchInfo(ctx context.Context, symbol string) (*model.SymbolInfo, error)
	FetchPrediction(ctx context.Context, symbol string, days int) (*model.PredictionResult, error)
	FetchPopular(ctx context.Context) ([]model.StockSummary, error)
	Search(ctx context.Context, query string) ([]model.StockSummary, error)
	Name() string
}

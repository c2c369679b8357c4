package loader

import (
	"context"
	"sync"

	"StockLens/internal/model"
)

// LoadHistories loads one history per symbol concurrently. Results are in
// symbol order; a failing symbol is synthesized without affecting the rest.
func (l *Loader) LoadHistories(ctx context.Context, symbols []string, tf model.Timeframe, p model.Period) []model.Loaded[*model.QuoteHistory] {
	return fanOut(symbols, func(s string) model.Loaded[*model.QuoteHistory] {
		return l.LoadHistory(ctx, s, tf, p)
	})
}

// LoadInfos loads one info per symbol concurrently, in symbol order.
func (l *Loader) LoadInfos(ctx context.Context, symbols []string) []model.Loaded[*model.SymbolInfo] {
	return fanOut(symbols, func(s string) model.Loaded[*model.SymbolInfo] {
		return l.LoadInfo(ctx, s)
	})
}

func fanOut[T any](symbols []string, fn func(string) T) []T {
	out := make([]T, len(symbols))
	var wg sync.WaitGroup
	for i, s := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = fn(s)
		}()
	}
	wg.Wait()
	return out
}

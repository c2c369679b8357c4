package view

import (
	"context"
	"sync"
)

// WatchlistState is a snapshot of the watchlist page.
type WatchlistState struct {
	Symbols []string `json:"symbols"`
	Cards   []Card   `json:"cards"`
}

// WatchlistView drives the watchlist page. Every mutation reloads the
// cards so the page always mirrors the persisted set.
type WatchlistView struct {
	deps Deps

	guard guard
	mu    sync.RWMutex
	state WatchlistState
}

func NewWatchlistView(deps Deps) *WatchlistView {
	return &WatchlistView{deps: deps}
}

func (w *WatchlistView) State() WatchlistState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Load builds a card for every watched symbol.
func (w *WatchlistView) Load(ctx context.Context) (WatchlistState, bool) {
	t := w.guard.begin("watchlist")
	next := WatchlistState{Symbols: []string{}, Cards: []Card{}}
	if w.deps.Watchlist != nil {
		next.Symbols = w.deps.Watchlist.List(ctx)
	}
	if len(next.Symbols) > 0 {
		next.Cards = w.deps.cards(ctx, next.Symbols, nil)
	}

	applied := w.guard.apply(ctx, t, func() {
		w.mu.Lock()
		w.state = next
		w.mu.Unlock()
	})
	if !applied {
		return w.State(), false
	}
	return next, true
}

// Add watches symbol and reloads.
func (w *WatchlistView) Add(ctx context.Context, symbol string) (WatchlistState, bool) {
	if w.guard.isClosed() || w.deps.Watchlist == nil {
		return w.State(), false
	}
	w.deps.Watchlist.Add(ctx, symbol)
	return w.Load(ctx)
}

// Toggle flips symbol's membership and reloads.
func (w *WatchlistView) Toggle(ctx context.Context, symbol string) (WatchlistState, bool) {
	if w.guard.isClosed() || w.deps.Watchlist == nil {
		return w.State(), false
	}
	w.deps.Watchlist.Toggle(ctx, symbol)
	return w.Load(ctx)
}

// Remove drops symbol and reloads.
func (w *WatchlistView) Remove(ctx context.Context, symbol string) (WatchlistState, bool) {
	if w.guard.isClosed() || w.deps.Watchlist == nil {
		return w.State(), false
	}
	w.deps.Watchlist.Remove(ctx, symbol)
	return w.Load(ctx)
}

func (w *WatchlistView) Close() { w.guard.close() }

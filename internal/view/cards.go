// Package view holds the page controllers. Each controller issues its
// loads concurrently, applies results only while they are still the
// latest request, and exposes a snapshot of ready-to-render state.
package view

import (
	"context"
	"strings"
	"sync"

	"StockLens/internal/labels"
	"StockLens/internal/loader"
	"StockLens/internal/model"
	"StockLens/internal/presenter"
	"StockLens/internal/watchlist"
)

// SparkPoints is the number of closes drawn on a stock card.
const SparkPoints = 14

// Deps are the collaborators shared by every controller.
type Deps struct {
	Loader    *loader.Loader
	Presenter *presenter.Presenter
	Labels    labels.Lookup
	Watchlist *watchlist.Watchlist
}

// Card is one stock tile.
type Card struct {
	Symbol     string           `json:"symbol"`
	Name       string           `json:"name"`
	Sector     string           `json:"sector,omitempty"`
	MarketCap  *float64         `json:"market_cap,omitempty"`
	Spark      *presenter.Spark `json:"spark"`
	Watched    bool             `json:"watched"`
	InfoSource model.Source     `json:"info_source"`
}

// cards loads info and a one-month daily history for every symbol
// concurrently. known supplies names for symbols whose info lacks one.
func (d Deps) cards(ctx context.Context, symbols []string, known map[string]model.StockSummary) []Card {
	var (
		infos []model.Loaded[*model.SymbolInfo]
		hists []model.Loaded[*model.QuoteHistory]
		wg    sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		infos = d.Loader.LoadInfos(ctx, symbols)
	}()
	go func() {
		defer wg.Done()
		hists = d.Loader.LoadHistories(ctx, symbols, model.TimeframeDaily, model.Period1M)
	}()
	wg.Wait()

	watched := d.watched(ctx)
	out := make([]Card, len(symbols))
	for i, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		info := infos[i].Result
		name, sector := info.Name, info.Sector
		if s, ok := known[sym]; ok {
			if name == "" {
				name = s.Name
			}
			if sector == "" {
				sector = s.Sector
			}
		}
		if name == "" {
			name = sym
		}
		out[i] = Card{
			Symbol:     sym,
			Name:       labels.Name(d.Labels, sym, name),
			Sector:     labels.Sector(d.Labels, sector),
			MarketCap:  info.MarketCap,
			Spark:      d.Presenter.Sparkline(hists[i], SparkPoints),
			Watched:    watched[sym],
			InfoSource: infos[i].Source,
		}
	}
	return out
}

func (d Deps) watched(ctx context.Context) map[string]bool {
	set := make(map[string]bool)
	if d.Watchlist == nil {
		return set
	}
	for _, s := range d.Watchlist.List(ctx) {
		set[s] = true
	}
	return set
}

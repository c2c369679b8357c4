package view

import (
	"context"
	"strings"
	"sync"
	"time"

	"StockLens/internal/catalog"
	"StockLens/internal/labels"
	"StockLens/internal/model"
	"StockLens/internal/presenter"
)

// IndexPoints is the number of closes drawn on a market index card.
const IndexPoints = 30

// DashboardOptions configures the dashboard page.
type DashboardOptions struct {
	PreviewSymbol string
	Horizon       int
	CardCount     int
}

func (o DashboardOptions) withDefaults() DashboardOptions {
	if o.PreviewSymbol == "" {
		o.PreviewSymbol = "AAPL"
	}
	if o.Horizon <= 0 {
		o.Horizon = 30
	}
	if o.CardCount <= 0 {
		o.CardCount = 10
	}
	return o
}

// IndexCard is one market index tile.
type IndexCard struct {
	Symbol        string              `json:"symbol"`
	Name          string              `json:"name"`
	Value         float64             `json:"value"`
	ChangePercent string              `json:"change_percent"`
	Direction     presenter.Direction `json:"direction"`
	Spark         *presenter.Spark    `json:"spark"`
	Source        model.Source        `json:"source"`
}

// Preview is the prediction shown on the dashboard.
type Preview struct {
	Symbol string           `json:"symbol"`
	Name   string           `json:"name"`
	Chart  *presenter.Chart `json:"chart"`
}

// DashboardState is a snapshot of the dashboard page.
type DashboardState struct {
	Loading       bool         `json:"loading"`
	Indices       []IndexCard  `json:"indices"`
	Cards         []Card       `json:"cards"`
	PopularSource model.Source `json:"popular_source,omitempty"`
	Preview       *Preview     `json:"preview,omitempty"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Dashboard drives the landing page: market indices, popular stock cards
// and one prediction preview.
type Dashboard struct {
	deps Deps
	opts DashboardOptions

	refresh guard
	preview guard

	mu            sync.RWMutex
	state         DashboardState
	previewSymbol string
}

// NewDashboard creates the dashboard controller.
func NewDashboard(deps Deps, opts DashboardOptions) *Dashboard {
	opts = opts.withDefaults()
	return &Dashboard{deps: deps, opts: opts, previewSymbol: strings.ToUpper(opts.PreviewSymbol)}
}

// State returns the current snapshot.
func (d *Dashboard) State() DashboardState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Refresh reloads every section concurrently and reports whether the
// result was applied. A newer Refresh, Close, or the end of ctx discards
// this one and keeps the previous sections.
func (d *Dashboard) Refresh(ctx context.Context) (DashboardState, bool) {
	t := d.refresh.begin("refresh")
	d.mu.Lock()
	d.state.Loading = true
	symbol := d.previewSymbol
	d.mu.Unlock()
	pt := d.preview.begin(symbol)

	var (
		indices []IndexCard
		cards   []Card
		popular model.Source
		preview *Preview
		wg      sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		indices = d.loadIndices(ctx)
	}()
	go func() {
		defer wg.Done()
		cards, popular = d.loadCards(ctx)
	}()
	go func() {
		defer wg.Done()
		preview = d.loadPreview(ctx, symbol)
	}()
	wg.Wait()

	d.preview.apply(ctx, pt, func() {
		d.mu.Lock()
		d.state.Preview = preview
		d.mu.Unlock()
	})
	applied := d.refresh.apply(ctx, t, func() {
		d.mu.Lock()
		d.state.Loading = false
		d.state.Indices = indices
		d.state.Cards = cards
		d.state.PopularSource = popular
		d.state.UpdatedAt = time.Now()
		d.mu.Unlock()
	})
	if !applied && d.refresh.current(t) {
		d.mu.Lock()
		d.state.Loading = false
		d.mu.Unlock()
	}
	return d.State(), applied
}

// SelectPreview switches the prediction preview to symbol. Only the
// preview is reloaded.
func (d *Dashboard) SelectPreview(ctx context.Context, symbol string) (DashboardState, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	t := d.preview.begin(symbol)

	preview := d.loadPreview(ctx, symbol)
	applied := d.preview.apply(ctx, t, func() {
		d.mu.Lock()
		d.previewSymbol = symbol
		d.state.Preview = preview
		d.mu.Unlock()
	})
	return d.State(), applied
}

// Close marks the page torn down; in-flight loads are discarded.
func (d *Dashboard) Close() {
	d.refresh.close()
	d.preview.close()
}

func (d *Dashboard) loadIndices(ctx context.Context) []IndexCard {
	symbols := make([]string, len(catalog.Indices))
	for i, ix := range catalog.Indices {
		symbols[i] = ix.Symbol
	}
	hists := d.deps.Loader.LoadHistories(ctx, symbols, model.TimeframeDaily, model.Period1M)

	out := make([]IndexCard, len(hists))
	for i, h := range hists {
		spark := d.deps.Presenter.Sparkline(h, IndexPoints)
		out[i] = IndexCard{
			Symbol:        catalog.Indices[i].Symbol,
			Name:          catalog.Indices[i].Name,
			Value:         spark.Last,
			ChangePercent: spark.ChangePercent,
			Direction:     spark.Direction,
			Spark:         spark,
			Source:        h.Source,
		}
	}
	return out
}

func (d *Dashboard) loadCards(ctx context.Context) ([]Card, model.Source) {
	popular := d.deps.Loader.LoadPopular(ctx)
	list := popular.Result
	if len(list) > d.opts.CardCount {
		list = list[:d.opts.CardCount]
	}
	symbols := make([]string, len(list))
	known := make(map[string]model.StockSummary, len(list))
	for i, s := range list {
		symbols[i] = s.Symbol
		known[strings.ToUpper(s.Symbol)] = s
	}
	return d.deps.cards(ctx, symbols, known), popular.Source
}

func (d *Dashboard) loadPreview(ctx context.Context, symbol string) *Preview {
	res := d.deps.Loader.LoadPrediction(ctx, symbol, d.opts.Horizon)
	name := symbol
	if s, ok := catalog.Lookup(symbol); ok {
		name = s.Name
	}
	return &Preview{
		Symbol: symbol,
		Name:   labels.Name(d.deps.Labels, symbol, name),
		Chart:  d.deps.Presenter.PredictionChart(res),
	}
}

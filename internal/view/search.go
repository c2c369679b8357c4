package view

import (
	"context"
	"strings"
	"sync"

	"StockLens/internal/labels"
	"StockLens/internal/model"
)

// SearchResult is one row of the search page.
type SearchResult struct {
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	Sector  string `json:"sector,omitempty"`
	Watched bool   `json:"watched"`
}

// SearchState is a snapshot of the search page.
type SearchState struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Source  model.Source   `json:"source,omitempty"`
}

// Search drives the search page.
type Search struct {
	deps Deps

	guard guard
	mu    sync.RWMutex
	state SearchState
}

func NewSearch(deps Deps) *Search {
	return &Search{deps: deps}
}

func (s *Search) State() SearchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Query runs a search for q. A newer Query discards this one.
func (s *Search) Query(ctx context.Context, q string) (SearchState, bool) {
	q = strings.TrimSpace(q)
	t := s.guard.begin(q)

	next := SearchState{Query: q, Results: []SearchResult{}}
	if q != "" {
		res := s.deps.Loader.Search(ctx, q)
		watched := s.deps.watched(ctx)
		next.Source = res.Source
		for _, r := range res.Result {
			sym := strings.ToUpper(r.Symbol)
			name := r.Name
			if name == "" {
				name = sym
			}
			next.Results = append(next.Results, SearchResult{
				Symbol:  sym,
				Name:    labels.Name(s.deps.Labels, sym, name),
				Sector:  labels.Sector(s.deps.Labels, r.Sector),
				Watched: watched[sym],
			})
		}
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

func (s *Search) Close() { s.guard.close() }

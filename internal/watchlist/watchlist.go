// Package watchlist is an ordered set of ticker symbols persisted as one
// JSON array record. Every call reads the record fresh; every mutation
// writes the whole set back before returning. Storage failures degrade to
// an empty set and never surface as errors.
package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"slices"
	"strings"
)

// Key names the record holding the watchlist.
const Key = "watchlist"

// Watchlist is safe for concurrent use to the extent the Store is;
// concurrent writers resolve last-writer-wins.
type Watchlist struct {
	store Store
	key   string
}

// New creates a Watchlist over store using the default record Key.
func New(store Store) *Watchlist {
	return &Watchlist{store: store, key: Key}
}

// List returns the symbols in insertion order.
func (w *Watchlist) List(ctx context.Context) []string {
	return w.read(ctx)
}

// Contains reports whether symbol is in the set.
func (w *Watchlist) Contains(ctx context.Context, symbol string) bool {
	return slices.Contains(w.read(ctx), normalize(symbol))
}

// Add appends symbol unless it is already present.
func (w *Watchlist) Add(ctx context.Context, symbol string) {
	symbol = normalize(symbol)
	if symbol == "" {
		return
	}
	list := w.read(ctx)
	if slices.Contains(list, symbol) {
		return
	}
	w.write(ctx, append(list, symbol))
}

// Remove deletes symbol if present.
func (w *Watchlist) Remove(ctx context.Context, symbol string) {
	symbol = normalize(symbol)
	list := w.read(ctx)
	i := slices.Index(list, symbol)
	if i < 0 {
		return
	}
	w.write(ctx, slices.Delete(list, i, i+1))
}

// Toggle adds or removes symbol and reports whether it is now watched.
func (w *Watchlist) Toggle(ctx context.Context, symbol string) bool {
	if w.Contains(ctx, symbol) {
		w.Remove(ctx, symbol)
		return false
	}
	w.Add(ctx, symbol)
	return normalize(symbol) != ""
}

func (w *Watchlist) read(ctx context.Context) []string {
	data, err := w.store.Get(ctx, w.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[WARN] read watchlist: %v, treating as empty", err)
		}
		return []string{}
	}
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("[WARN] corrupt watchlist record: %v, treating as empty", err)
		return []string{}
	}
	list := make([]string, 0, len(raw))
	for _, s := range raw {
		s = normalize(s)
		if s != "" && !slices.Contains(list, s) {
			list = append(list, s)
		}
	}
	return list
}

func (w *Watchlist) write(ctx context.Context, list []string) {
	data, err := json.Marshal(list)
	if err != nil {
		log.Printf("[ERROR] encode watchlist: %v", err)
		return
	}
	if err := w.store.Put(ctx, w.key, data); err != nil {
		log.Printf("[ERROR] write watchlist: %v, change lost", err)
	}
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

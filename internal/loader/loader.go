// Package loader resolves every data request into a usable result: the
// backend answer when it is valid, a deterministic synthetic substitute of
// the same shape otherwise. Nothing here returns an error.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"StockLens/internal/catalog"
	"StockLens/internal/collector"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
	"StockLens/internal/synth"
)

// Loader wraps a Fetcher with synthetic fallback.
type Loader struct {
	Fetcher  collector.Fetcher
	Recorder recorder.Recorder
	Now      func() time.Time
	// Timeout bounds each fetch on top of the fetcher's own deadline.
	// Zero leaves the fetcher's deadline alone.
	Timeout time.Duration
}

// New creates a Loader. A nil recorder disables load recording.
func New(f collector.Fetcher, rec recorder.Recorder) *Loader {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Loader{Fetcher: f, Recorder: rec, Now: time.Now}
}

func (l *Loader) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// LoadHistory loads a quote history, synthesizing one for the same
// symbol, timeframe and period when the backend fails.
func (l *Loader) LoadHistory(ctx context.Context, symbol string, tf model.Timeframe, p model.Period) model.Loaded[*model.QuoteHistory] {
	symbol = normalize(symbol)
	if tf == "" {
		tf = model.TimeframeDaily
	}
	if p == "" {
		p = model.Period1Y
	}
	return load(ctx, l, "history", symbol,
		func(ctx context.Context, f collector.Fetcher) (*model.QuoteHistory, error) {
			return f.FetchHistory(ctx, symbol, tf, p)
		},
		func(h *model.QuoteHistory) error { return h.Validate() },
		func(now time.Time) *model.QuoteHistory { return synth.History(symbol, tf, p, now) },
	)
}

// LoadInfo loads symbol info, falling back to the static catalog.
func (l *Loader) LoadInfo(ctx context.Context, symbol string) model.Loaded[*model.SymbolInfo] {
	symbol = normalize(symbol)
	return load(ctx, l, "info", symbol,
		func(ctx context.Context, f collector.Fetcher) (*model.SymbolInfo, error) {
			return f.FetchInfo(ctx, symbol)
		},
		func(info *model.SymbolInfo) error {
			if info == nil {
				return errors.New("nil info")
			}
			return nil
		},
		func(time.Time) *model.SymbolInfo { return synth.Info(symbol) },
	)
}

// LoadPrediction loads an horizonDays prediction. horizonDays below one is
// raised to one.
func (l *Loader) LoadPrediction(ctx context.Context, symbol string, horizonDays int) model.Loaded[*model.PredictionResult] {
	symbol = normalize(symbol)
	if horizonDays < 1 {
		horizonDays = 1
	}
	return load(ctx, l, "prediction", symbol,
		func(ctx context.Context, f collector.Fetcher) (*model.PredictionResult, error) {
			return f.FetchPrediction(ctx, symbol, horizonDays)
		},
		func(p *model.PredictionResult) error { return p.Validate() },
		func(now time.Time) *model.PredictionResult { return synth.Prediction(symbol, horizonDays, now) },
	)
}

// LoadPopular loads the popular list padded to catalog.PopularMinimum.
func (l *Loader) LoadPopular(ctx context.Context) model.Loaded[[]model.StockSummary] {
	res := load(ctx, l, "popular", "",
		func(ctx context.Context, f collector.Fetcher) ([]model.StockSummary, error) {
			return f.FetchPopular(ctx)
		},
		nil,
		func(time.Time) []model.StockSummary { return catalog.Popular },
	)
	if len(res.Result) < catalog.PopularMinimum {
		res.Result = catalog.Pad(res.Result)
	}
	return res
}

// Search queries the backend, falling back to a local catalog match.
func (l *Loader) Search(ctx context.Context, query string) model.Loaded[[]model.StockSummary] {
	query = strings.TrimSpace(query)
	return load(ctx, l, "search", "",
		func(ctx context.Context, f collector.Fetcher) ([]model.StockSummary, error) {
			return f.Search(ctx, query)
		},
		nil,
		func(time.Time) []model.StockSummary { return catalog.Match(query) },
	)
}

// load is the single fallback path: one real attempt, then synthesis only
// once that attempt has failed. A failure caused by the caller giving up
// (ctx done) still yields a substitute but is not recorded as a backend
// failure.
func load[T any](
	ctx context.Context,
	l *Loader,
	op, symbol string,
	fetch func(context.Context, collector.Fetcher) (T, error),
	check func(T) error,
	substitute func(time.Time) T,
) model.Loaded[T] {
	start := l.now()
	res, err := attempt(ctx, l, op, symbol, fetch)
	if err == nil && check != nil {
		if cerr := check(res); cerr != nil {
			err = &collector.FetchError{Kind: collector.KindInvalidResponse, Op: op, Symbol: symbol, Err: cerr}
		}
	}

	evt := &recorder.LoadEvent{Operation: op, Symbol: symbol, At: start}
	var out model.Loaded[T]
	if err == nil {
		out = model.Loaded[T]{Result: res, Source: model.SourceRemote, LoadedAt: l.now()}
	} else {
		kind := collector.KindOf(err)
		if ctx.Err() != nil {
			log.Printf("[INFO] %s %s abandoned by caller: %v", op, symbol, ctx.Err())
			return model.Loaded[T]{
				Result:   substitute(start),
				Source:   model.SourceSynthetic,
				Failure:  string(kind),
				LoadedAt: l.now(),
			}
		}
		log.Printf("[WARN] %s %s failed (%s): %v, using synthetic data", op, symbol, kind, err)
		out = model.Loaded[T]{
			Result:   substitute(start),
			Source:   model.SourceSynthetic,
			Failure:  string(kind),
			LoadedAt: l.now(),
		}
		evt.FailureKind = string(kind)
		evt.Detail = err.Error()
	}
	evt.Source = string(out.Source)
	evt.Duration = out.LoadedAt.Sub(start)

	if l.Recorder != nil {
		if rerr := l.Recorder.RecordLoad(evt); rerr != nil {
			log.Printf("[WARN] record %s load: %v", op, rerr)
		}
	}
	return out
}

// attempt runs fetch once. A panicking fetcher counts as an invalid response.
func attempt[T any](ctx context.Context, l *Loader, op, symbol string, fetch func(context.Context, collector.Fetcher) (T, error)) (res T, err error) {
	if l.Fetcher == nil {
		return res, &collector.FetchError{Kind: collector.KindUnreachable, Op: op, Symbol: symbol, Err: errors.New("no fetcher configured")}
	}
	defer func() {
		if r := recover(); r != nil {
			var zero T
			res = zero
			err = &collector.FetchError{Kind: collector.KindInvalidResponse, Op: op, Symbol: symbol, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}
	return fetch(ctx, l.Fetcher)
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

package synth

import (
	"math"
	"strconv"
	"strings"
	"time"

	"StockLens/internal/catalog"
	"StockLens/internal/model"
)

const (
	// HistoryWindow is the number of days in a synthetic backtest window.
	HistoryWindow = 30
	// historyNoise is the daily noise of the backtest window's actual path.
	historyNoise = 0.02
	// biasDrift scales the symbol bias into a total drift over a series.
	biasDrift = 0.10
)

// basePrices are reference levels for well-known symbols.
var basePrices = map[string]float64{
	"AAPL":  180,
	"MSFT":  400,
	"GOOGL": 140,
	"AMZN":  180,
	"TSLA":  250,
	"META":  500,
	"NVDA":  800,
	"JPM":   180,
	"V":     270,
	"WMT":   150,
	"^GSPC": 5000,
	"^IXIC": 17000,
	"^DJI":  40000,
	"^VIX":  25,
}

// BasePrice returns the starting level for a symbol's synthetic series.
// Unknown symbols get a bias-derived level in [100, 300].
func BasePrice(symbol string) float64 {
	if p, ok := basePrices[strings.ToUpper(symbol)]; ok {
		return p
	}
	return 200 + 100*Bias(symbol)
}

// History synthesizes a quote history ending at end, with one bar per
// timeframe step across the period (at least two bars).
func History(symbol string, tf model.Timeframe, p model.Period, end time.Time) *model.QuoteHistory {
	end = model.Day(end)
	start := p.Start(end)
	var dates []time.Time
	for d := end; !d.Before(start); d = tf.Prev(d) {
		dates = append(dates, d)
	}
	for len(dates) < 2 {
		dates = append(dates, tf.Prev(dates[len(dates)-1]))
	}
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}

	n := len(dates)
	vol := tf.Volatility()
	g := ForSymbol(symbol, "history", string(tf), string(p))
	closes := g.BoundedWalk(BasePrice(symbol), n, vol, rampFor(Bias(symbol)*biasDrift, n))

	h := &model.QuoteHistory{
		Symbol:    strings.ToUpper(symbol),
		Timeframe: tf,
		Period:    p,
		Dates:     dates,
		Open:      make([]float64, n),
		High:      make([]float64, n),
		Low:       make([]float64, n),
		Close:     closes,
		Volume:    make([]float64, n),
	}
	for i, c := range closes {
		o := c * (1 + g.uniform(vol/2))
		if i > 0 {
			o = closes[i-1]
		}
		h.Open[i] = o
		h.High[i] = math.Max(o, c) * (1 + g.rng.Float64()*vol/2)
		h.Low[i] = math.Max(math.Min(o, c)*(1-g.rng.Float64()*vol/2), MinPrice)
		h.Volume[i] = math.Round(1e6 * (1 + 4*g.rng.Float64()))
	}
	return h
}

// Info synthesizes symbol info from the static catalog. Fields the catalog
// does not know stay absent.
func Info(symbol string) *model.SymbolInfo {
	symbol = strings.ToUpper(symbol)
	info := &model.SymbolInfo{Symbol: symbol}
	if s, ok := catalog.Lookup(symbol); ok {
		info.Name = s.Name
		info.Sector = s.Sector
		info.Industry = s.Industry
	}
	return info
}

// Prediction synthesizes a prediction: a HistoryWindow-day actual path
// ending at end, a backtest of it, and a horizonDays forecast starting the
// day after end.
func Prediction(symbol string, horizonDays int, end time.Time) *model.PredictionResult {
	if horizonDays < 1 {
		horizonDays = 1
	}
	end = model.Day(end)
	g := ForSymbol(symbol, "prediction", strconv.Itoa(horizonDays))

	actual := g.BoundedWalk(BasePrice(symbol), HistoryWindow, historyNoise,
		rampFor(Bias(symbol)*biasDrift, HistoryWindow))
	backtest := g.BacktestSeries(actual)
	last := actual[len(actual)-1]
	fc := g.Forecast(last, horizonDays)

	histDates := make([]time.Time, HistoryWindow)
	for i := range histDates {
		histDates[i] = end.AddDate(0, 0, i-(HistoryWindow-1))
	}
	fcDates := make([]time.Time, horizonDays)
	for i := range fcDates {
		fcDates[i] = end.AddDate(0, 0, i+1)
	}

	return &model.PredictionResult{
		Ticker:    strings.ToUpper(symbol),
		LastPrice: last,
		History: model.PredictionHistory{
			Dates:                   histDates,
			ActualValues:            actual,
			BacktestPredictedValues: backtest,
		},
		Forecast: model.Forecast{Dates: fcDates, Values: fc.Values},
	}
}

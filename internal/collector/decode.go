package collector

import (
	"fmt"
	"time"

	"github.com/valyala/fastjson"

	"StockLens/internal/model"
)

// floats reads the number array at key. A missing key is an error.
func floats(v *fastjson.Value, key string) ([]float64, error) {
	x := v.Get(key)
	if x == nil {
		return nil, fmt.Errorf("missing %q", key)
	}
	arr, err := x.Array()
	if err != nil {
		return nil, fmt.Errorf("%q: %w", key, err)
	}
	out := make([]float64, len(arr))
	for i, el := range arr {
		f, err := el.Float64()
		if err != nil {
			return nil, fmt.Errorf("%q[%d]: %w", key, i, err)
		}
		out[i] = f
	}
	return out, nil
}

// dayArray reads the YYYY-MM-DD string array at key.
func dayArray(v *fastjson.Value, key string) ([]time.Time, error) {
	x := v.Get(key)
	if x == nil {
		return nil, fmt.Errorf("missing %q", key)
	}
	arr, err := x.Array()
	if err != nil {
		return nil, fmt.Errorf("%q: %w", key, err)
	}
	out := make([]time.Time, len(arr))
	for i, el := range arr {
		b, err := el.StringBytes()
		if err != nil {
			return nil, fmt.Errorf("%q[%d]: %w", key, i, err)
		}
		d, err := model.ParseDay(string(b))
		if err != nil {
			return nil, fmt.Errorf("%q[%d]: %w", key, i, err)
		}
		out[i] = d
	}
	return out, nil
}

// optFloat returns a positive number at key, or nil. The backend reports
// unknown numeric fields as 0.
func optFloat(v *fastjson.Value, key string) *float64 {
	x := v.Get(key)
	if x == nil || x.Type() != fastjson.TypeNumber {
		return nil
	}
	f := x.GetFloat64()
	if f <= 0 {
		return nil
	}
	return model.Float(f)
}

func optString(v *fastjson.Value, key string) string {
	return string(v.GetStringBytes(key))
}

func decodeHistory(v *fastjson.Value, symbol string, tf model.Timeframe, p model.Period) (*model.QuoteHistory, error) {
	dates, err := dayArray(v, "dates")
	if err != nil {
		return nil, err
	}
	closes, err := floats(v, "close")
	if err != nil {
		return nil, err
	}
	if len(closes) != len(dates) {
		return nil, fmt.Errorf("close has %d points, dates has %d", len(closes), len(dates))
	}
	h := &model.QuoteHistory{Symbol: symbol, Timeframe: tf, Period: p, Dates: dates, Close: closes}
	for _, ch := range []struct {
		key string
		dst *[]float64
	}{{"open", &h.Open}, {"high", &h.High}, {"low", &h.Low}, {"volume", &h.Volume}} {
		if !v.Exists(ch.key) {
			continue
		}
		vals, err := floats(v, ch.key)
		if err != nil {
			return nil, err
		}
		*ch.dst = vals
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func decodeInfo(v *fastjson.Value, symbol string) (*model.SymbolInfo, error) {
	if v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("info payload is %s, not an object", v.Type())
	}
	info := &model.SymbolInfo{
		Symbol:           optString(v, "symbol"),
		Name:             optString(v, "name"),
		Sector:           optString(v, "sector"),
		Industry:         optString(v, "industry"),
		MarketCap:        optFloat(v, "market_cap"),
		PERatio:          optFloat(v, "pe_ratio"),
		FiftyTwoWeekHigh: optFloat(v, "fifty_two_week_high"),
		FiftyTwoWeekLow:  optFloat(v, "fifty_two_week_low"),
	}
	if info.Symbol == "" {
		info.Symbol = symbol
	}
	return info, nil
}

func decodePrediction(v *fastjson.Value, symbol string) (*model.PredictionResult, error) {
	fc := v.Get("prediction")
	hist := v.Get("actual")
	if fc == nil || fc.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("missing forecast section")
	}
	if hist == nil || hist.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("missing history section")
	}

	var (
		p   = &model.PredictionResult{Ticker: optString(v, "ticker")}
		err error
	)
	if p.Ticker == "" {
		p.Ticker = symbol
	}
	if p.Forecast.Dates, err = dayArray(fc, "dates"); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	if p.Forecast.Values, err = floats(fc, "values"); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	if p.History.Dates, err = dayArray(hist, "dates"); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	if p.History.ActualValues, err = floats(hist, "test_actual"); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	if p.History.BacktestPredictedValues, err = floats(hist, "test_pred"); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.LastPrice = v.GetFloat64("last_price")
	if p.LastPrice <= 0 {
		p.LastPrice = p.LastActual()
	}
	return p, nil
}

func decodeSummaries(v *fastjson.Value) ([]model.StockSummary, error) {
	arr, err := v.Array()
	if err != nil {
		return nil, err
	}
	out := make([]model.StockSummary, 0, len(arr))
	for _, el := range arr {
		sym := optString(el, "symbol")
		if sym == "" {
			continue
		}
		out = append(out, model.StockSummary{
			Symbol:   sym,
			Name:     optString(el, "name"),
			Sector:   optString(el, "sector"),
			Industry: optString(el, "industry"),
		})
	}
	return out, nil
}

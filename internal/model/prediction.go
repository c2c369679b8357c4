package model

import (
	"errors"
	"fmt"
	"time"
)

// PredictionHistory is the backtest window: actual closes next to the
// model's reconstruction of them.
type PredictionHistory struct {
	Dates                   []time.Time
	ActualValues            []float64
	BacktestPredictedValues []float64
}

// Forecast is the future part of a prediction.
type Forecast struct {
	Dates  []time.Time
	Values []float64
}

// PredictionResult is an N-day price prediction for one ticker.
type PredictionResult struct {
	Ticker    string
	LastPrice float64
	History   PredictionHistory
	Forecast  Forecast
}

// Validate enforces parallel lengths and a forecast that starts right after
// the history window (no more than one calendar day apart).
func (p *PredictionResult) Validate() error {
	if p == nil {
		return errors.New("nil prediction")
	}
	h := p.History
	if len(h.Dates) == 0 {
		return errors.New("empty history window")
	}
	if len(h.ActualValues) != len(h.Dates) || len(h.BacktestPredictedValues) != len(h.Dates) {
		return fmt.Errorf("history length mismatch: dates=%d actual=%d backtest=%d",
			len(h.Dates), len(h.ActualValues), len(h.BacktestPredictedValues))
	}
	if len(p.Forecast.Dates) == 0 {
		return errors.New("empty forecast")
	}
	if len(p.Forecast.Values) != len(p.Forecast.Dates) {
		return fmt.Errorf("forecast length mismatch: dates=%d values=%d",
			len(p.Forecast.Dates), len(p.Forecast.Values))
	}
	if err := checkIncreasing(h.Dates); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := checkIncreasing(p.Forecast.Dates); err != nil {
		return fmt.Errorf("forecast: %w", err)
	}
	last := h.Dates[len(h.Dates)-1]
	first := p.Forecast.Dates[0]
	if !first.After(last) {
		return fmt.Errorf("forecast starts %s, not after history end %s", FormatDay(first), FormatDay(last))
	}
	if first.Sub(last) > 24*time.Hour {
		return fmt.Errorf("gap between history end %s and forecast start %s", FormatDay(last), FormatDay(first))
	}
	return nil
}

// LastActual returns the final actual value of the history window.
func (p *PredictionResult) LastActual() float64 {
	v := p.History.ActualValues
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}

// LastForecast returns the final forecast value.
func (p *PredictionResult) LastForecast() float64 {
	v := p.Forecast.Values
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}

// Horizon returns the number of forecast days.
func (p *PredictionResult) Horizon() int { return len(p.Forecast.Dates) }

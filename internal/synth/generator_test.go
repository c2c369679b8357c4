package synth

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

func TestSeed(t *testing.T) {
	// 'A'=65 'B'=66
	assert.InDelta(t, 1.31, Seed("AB"), 1e-9)
	assert.Equal(t, Bias("AAPL"), Bias("AAPL"), "bias must be stable for one symbol")
}

func TestBoundedWalk_Deterministic(t *testing.T) {
	a := ForSymbol("AAPL", "x").BoundedWalk(180, 60, 0.02, 0.01)
	b := ForSymbol("AAPL", "x").BoundedWalk(180, 60, 0.02, 0.01)
	require.Equal(t, a, b, "same symbol and parameters")

	c := ForSymbol("MSFT", "x").BoundedWalk(180, 60, 0.02, 0.01)
	assert.NotEqual(t, a, c, "different symbols")
}

func TestBoundedWalk_StrictlyPositive(t *testing.T) {
	for _, sym := range []string{"AAPL", "TSLA", "X", "^VIX", "ZZZZZ"} {
		// Volatility and downward trend large enough to hit the floor often.
		vals := ForSymbol(sym).BoundedWalk(1, 500, 0.9, -0.5)
		for i, v := range vals {
			require.Greater(t, v, 0.0, "%s: value %d", sym, i)
		}
	}
}

func TestBoundedWalk_Edges(t *testing.T) {
	g := New(1)
	assert.Nil(t, g.BoundedWalk(100, 0, 0.05, 0))

	for _, v := range g.BoundedWalk(100, 10, 0, 0) {
		require.Equal(t, 100.0, v, "zero volatility and trend stay flat")
	}
	assert.Equal(t, MinPrice, g.BoundedWalk(-5, 3, 0, 0)[0], "non-positive start clamps to floor")
}

func TestForecast_DriftFromScenarios(t *testing.T) {
	for i := uint64(0); i < 50; i++ {
		fc := New(i).Forecast(100, 30)
		require.Len(t, fc.Values, 30)
		require.Contains(t, TrendScenarios, fc.Drift)
	}
}

func TestRampFor_SumsToTotal(t *testing.T) {
	for _, steps := range []int{1, 7, 30, 90} {
		for _, drift := range TrendScenarios {
			per := rampFor(drift, steps)
			sum := 0.0
			for i := 0; i < steps; i++ {
				sum += per * float64(i+1) / float64(steps)
			}
			assert.InDelta(t, drift, sum, 1e-9, "steps=%d", steps)
		}
	}
}

func TestBacktestSeries_WithinError(t *testing.T) {
	actual := ForSymbol("NVDA").BoundedWalk(800, 200, 0.02, 0)
	bt := ForSymbol("NVDA", "bt").BacktestSeries(actual)
	require.Len(t, bt, len(actual))

	meanErr := 0.0
	for i := range actual {
		rel := bt[i]/actual[i] - 1
		require.LessOrEqual(t, math.Abs(rel), BacktestError+1e-12, "point %d", i)
		meanErr += rel
	}
	meanErr /= float64(len(actual))
	assert.InDelta(t, 0, meanErr, 0.005, "mean error drifts")
}

func TestPrediction_Shape(t *testing.T) {
	end := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	p := Prediction("AAPL", 30, end)
	require.NoError(t, p.Validate())
	assert.Equal(t, 30, p.Horizon())
	assert.Len(t, p.History.ActualValues, HistoryWindow)
	assert.Equal(t, "2026-03-11", model.FormatDay(p.Forecast.Dates[0]))
	assert.Equal(t, p.LastActual(), p.LastPrice)

	again := Prediction("AAPL", 30, end)
	assert.Equal(t, p.Forecast.Values, again.Forecast.Values, "prediction is deterministic")
}

func TestHistory_Shape(t *testing.T) {
	end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		tf      model.Timeframe
		p       model.Period
		minBars int
	}{
		{model.TimeframeDaily, model.Period1M, 28},
		{model.TimeframeWeekly, model.Period1Y, 52},
		{model.TimeframeMonthly, model.Period5Y, 60},
		{model.TimeframeYearly, model.Period1M, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.tf)+"/"+string(tt.p), func(t *testing.T) {
			h := History("MSFT", tt.tf, tt.p, end)
			require.NoError(t, h.Validate())
			assert.True(t, h.HasOHLC())
			assert.GreaterOrEqual(t, h.Len(), tt.minBars)
			assert.True(t, h.Dates[h.Len()-1].Equal(end), "last bar %s", model.FormatDay(h.Dates[h.Len()-1]))
			for i := range h.Close {
				require.LessOrEqual(t, h.Low[i], h.Close[i], "bar %d", i)
				require.GreaterOrEqual(t, h.High[i], h.Close[i], "bar %d", i)
				require.Greater(t, h.Low[i], 0.0, "bar %d", i)
			}
		})
	}
}

func TestBasePrice(t *testing.T) {
	assert.Equal(t, 180.0, BasePrice("aapl"))
	p := BasePrice("QQQQ")
	assert.GreaterOrEqual(t, p, 100.0)
	assert.LessOrEqual(t, p, 300.0)
}

func TestInfo(t *testing.T) {
	info := Info("tsla")
	assert.Equal(t, "TSLA", info.Symbol)
	assert.NotEmpty(t, info.Name)

	unknown := Info("QQQQ")
	assert.Empty(t, unknown.Name, "unknown symbol leaves fields absent")
	assert.Nil(t, unknown.MarketCap)
}

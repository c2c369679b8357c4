// Package synth generates deterministic, plausible price series used as
// substitutes when the backend cannot serve real data.
package synth

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"
)

const (
	// MinPrice is the floor every generated price is clamped to.
	MinPrice = 0.01
	// ForecastNoise is the daily noise amplitude of a forecast walk.
	ForecastNoise = 0.05
	// BacktestError is the per-point error amplitude of a backtest series.
	BacktestError = 0.015
)

// TrendScenarios are the total drifts a forecast can take over its horizon:
// strong up, up, mild up, flat, mild down, down, strong down.
var TrendScenarios = []float64{0.15, 0.10, 0.05, 0, -0.05, -0.10, -0.15}

// Seed maps a symbol to its seed: the sum of its character codes over 100.
func Seed(symbol string) float64 {
	sum := 0
	for _, r := range symbol {
		sum += int(r)
	}
	return float64(sum) / 100
}

// Bias is the per-symbol bias in [-1, 1]. It is a pure function of the
// symbol, so repeated renders of one stock never disagree.
func Bias(symbol string) float64 {
	return math.Sin(Seed(symbol))
}

// Generator draws pseudo-random values from a fixed seed. It is not safe
// for concurrent use; create one per series.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator with the given seed.
func New(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// ForSymbol creates a Generator seeded from the symbol and the request
// parameters. Equal inputs always yield equal output.
func ForSymbol(symbol string, params ...string) *Generator {
	h := fnv.New64a()
	h.Write([]byte(strings.ToUpper(symbol)))
	for _, p := range params {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return New(h.Sum64())
}

// uniform returns a value drawn uniformly from [-amp, +amp].
func (g *Generator) uniform(amp float64) float64 {
	return (g.rng.Float64()*2 - 1) * amp
}

// BoundedWalk produces steps successive values, each the previous one
// multiplied by (1 + noise + trend). Noise is uniform in
// [-dailyVolatility, +dailyVolatility]; trend ramps linearly from
// trendPerStep/steps on the first step to trendPerStep on the last.
func (g *Generator) BoundedWalk(startValue float64, steps int, dailyVolatility, trendPerStep float64) []float64 {
	if steps <= 0 {
		return nil
	}
	if !(startValue >= MinPrice) {
		startValue = MinPrice
	}
	out := make([]float64, steps)
	prev := startValue
	for i := 0; i < steps; i++ {
		trend := trendPerStep * float64(i+1) / float64(steps)
		next := prev * (1 + g.uniform(dailyVolatility) + trend)
		if !(next >= MinPrice) {
			next = MinPrice
		}
		out[i] = next
		prev = next
	}
	return out
}

// ForecastPath is a generated forecast together with the drift scenario
// that shaped it.
type ForecastPath struct {
	Drift  float64
	Values []float64
}

// Forecast picks one drift from TrendScenarios and walks horizonDays steps
// from lastValue with ForecastNoise daily noise. The scenario is the total
// trend over the whole horizon, not a per-step trend: it is spread over a
// linear ramp (see rampFor) so a 30-day and a 7-day forecast under the same
// scenario end about the same relative distance from lastValue.
func (g *Generator) Forecast(lastValue float64, horizonDays int) ForecastPath {
	drift := TrendScenarios[g.rng.IntN(len(TrendScenarios))]
	return ForecastPath{
		Drift:  drift,
		Values: g.BoundedWalk(lastValue, horizonDays, ForecastNoise, rampFor(drift, horizonDays)),
	}
}

// BacktestSeries perturbs every actual value by an independent error in
// [-BacktestError, +BacktestError].
func (g *Generator) BacktestSeries(actual []float64) []float64 {
	out := make([]float64, len(actual))
	for i, v := range actual {
		out[i] = v * (1 + g.uniform(BacktestError))
	}
	return out
}

// rampFor returns the final-step trend whose linear ramp over steps adds
// up to the total drift.
func rampFor(total float64, steps int) float64 {
	if steps <= 0 {
		return 0
	}
	return 2 * total / float64(steps+1)
}

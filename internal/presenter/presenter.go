// Package presenter turns loaded series into render-ready chart
// descriptors: traces, divider shapes and annotations. It holds no state
// and makes no assumption about the plotting surface.
package presenter

import (
	"fmt"

	"StockLens/internal/labels"
	"StockLens/internal/model"
)

const (
	ColorActual   = "#3366cc"
	ColorBacktest = "#cccccc"
	ColorUp       = "#46d369"
	ColorDown     = "#e50914"
	ColorDivider  = "rgba(255,255,255,0.5)"
)

// SyntheticDisclaimer is attached to every chart built from synthetic data.
const SyntheticDisclaimer = "실시간 데이터를 불러오지 못해 생성된 예시 데이터입니다"

// Mode selects how a quote history is drawn.
type Mode string

const (
	ModeLine   Mode = "line"
	ModeCandle Mode = "candle"
)

// ParseMode defaults to line for anything but "candle".
func ParseMode(s string) Mode {
	if Mode(s) == ModeCandle {
		return ModeCandle
	}
	return ModeLine
}

// Line styles a trace or shape.
type Line struct {
	Color string `json:"color"`
	Width int    `json:"width,omitempty"`
	Dash  string `json:"dash,omitempty"`
}

// Trace is one plotted series.
type Trace struct {
	Name            string    `json:"name"`
	Type            string    `json:"type"` // "scatter" or "candlestick"
	Mode            string    `json:"mode,omitempty"`
	X               []string  `json:"x"`
	Y               []float64 `json:"y,omitempty"`
	Open            []float64 `json:"open,omitempty"`
	High            []float64 `json:"high,omitempty"`
	Low             []float64 `json:"low,omitempty"`
	Close           []float64 `json:"close,omitempty"`
	Line            *Line     `json:"line,omitempty"`
	IncreasingColor string    `json:"increasing_color,omitempty"`
	DecreasingColor string    `json:"decreasing_color,omitempty"`
}

// Shape is a vertical marker spanning the plot height at X0.
type Shape struct {
	Type string `json:"type"`
	X0   string `json:"x0"`
	X1   string `json:"x1"`
	Line Line   `json:"line"`
}

// Annotation is a text label. YRef "paper" places Y relative to the plot.
type Annotation struct {
	X     string  `json:"x"`
	Y     float64 `json:"y"`
	YRef  string  `json:"yref"`
	Text  string  `json:"text"`
	Color string  `json:"color,omitempty"`
}

// Summary describes the forecast end relative to the last actual value.
type Summary struct {
	LastActual    float64   `json:"last_actual"`
	LastForecast  float64   `json:"last_forecast"`
	ChangePercent string    `json:"change_percent"`
	Direction     Direction `json:"direction"`
}

// Chart is a complete render-ready figure.
type Chart struct {
	Title       string       `json:"title"`
	XTitle      string       `json:"x_title"`
	YTitle      string       `json:"y_title"`
	Traces      []Trace      `json:"traces"`
	Shapes      []Shape      `json:"shapes,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Summary     *Summary     `json:"summary,omitempty"`
	Source      model.Source `json:"source"`
	Disclaimer  string       `json:"disclaimer,omitempty"`
}

// Presenter builds charts using an injected label lookup for titles.
type Presenter struct {
	Labels labels.Lookup
}

// New creates a Presenter. A nil lookup renders raw symbols.
func New(l labels.Lookup) *Presenter {
	return &Presenter{Labels: l}
}

func (p *Presenter) chart(title string, src model.Source) *Chart {
	c := &Chart{Title: title, XTitle: "날짜", YTitle: "주가 ($)", Source: src}
	if src == model.SourceSynthetic {
		c.Disclaimer = SyntheticDisclaimer
	}
	return c
}

// PredictionChart renders actual, backtest and forecast traces with a
// divider at the last history date and a summary annotation at the
// forecast end.
func (p *Presenter) PredictionChart(res model.Loaded[*model.PredictionResult]) *Chart {
	pr := res.Result
	title := pr.Ticker
	if name, ok := lookupName(p.Labels, pr.Ticker); ok {
		title = fmt.Sprintf("%s (%s)", pr.Ticker, name)
	}
	c := p.chart(title+" 딥러닝 모델 주가 예측 결과", res.Source)

	histX := model.FormatDays(pr.History.Dates)
	fcX := model.FormatDays(pr.Forecast.Dates)
	lastActual, lastForecast := pr.LastActual(), pr.LastForecast()
	dir := DirectionOf(lastActual, lastForecast)
	pct := FormatChange(ChangePercent(lastActual, lastForecast))

	c.Traces = []Trace{
		{Name: "실제 가격 (테스트)", Type: "scatter", Mode: "lines", X: histX, Y: pr.History.ActualValues,
			Line: &Line{Color: ColorActual, Width: 2}},
		{Name: "예측 가격 (테스트)", Type: "scatter", Mode: "lines", X: histX, Y: pr.History.BacktestPredictedValues,
			Line: &Line{Color: ColorBacktest, Width: 2, Dash: "dot"}},
		{Name: "예측 가격 (미래)", Type: "scatter", Mode: "lines", X: fcX, Y: pr.Forecast.Values,
			Line: &Line{Color: dir.Color(), Width: 3}},
	}

	boundary := histX[len(histX)-1]
	c.Shapes = []Shape{{Type: "line", X0: boundary, X1: boundary, Line: Line{Color: ColorDivider, Width: 2, Dash: "dash"}}}
	c.Annotations = []Annotation{
		{X: boundary, Y: 1.05, YRef: "paper", Text: "현재", Color: ColorDivider},
		{
			X:     fcX[len(fcX)-1],
			Y:     lastForecast,
			YRef:  "y",
			Text:  fmt.Sprintf("%d일 후 예측: %s (%s)", pr.Horizon(), FormatPrice(lastForecast), pct),
			Color: dir.Color(),
		},
	}
	c.Summary = &Summary{LastActual: lastActual, LastForecast: lastForecast, ChangePercent: pct, Direction: dir}
	return c
}

// HistoryChart renders a close line, or a candlestick when mode is
// ModeCandle and the history carries OHLC channels. name is the display
// name used in the title; empty means the symbol.
func (p *Presenter) HistoryChart(res model.Loaded[*model.QuoteHistory], name string, mode Mode) *Chart {
	h := res.Result
	if name == "" {
		name = h.Symbol
	}
	x := model.FormatDays(h.Dates)

	if mode == ModeCandle && h.HasOHLC() {
		c := p.chart(name+" 캔들스틱 차트", res.Source)
		c.Traces = []Trace{{
			Name: h.Symbol, Type: "candlestick", X: x,
			Open: h.Open, High: h.High, Low: h.Low, Close: h.Close,
			IncreasingColor: ColorUp, DecreasingColor: ColorDown,
		}}
		return c
	}

	c := p.chart(name+" 주가 차트", res.Source)
	c.Traces = []Trace{{Name: "종가", Type: "scatter", Mode: "lines", X: x, Y: h.Close, Line: &Line{Color: ColorDown, Width: 2}}}
	return c
}

// Spark is the mini chart on a stock or index card.
type Spark struct {
	Trace         Trace        `json:"trace"`
	Last          float64      `json:"last"`
	ChangePercent string       `json:"change_percent"`
	Direction     Direction    `json:"direction"`
	Source        model.Source `json:"source"`
}

// Sparkline renders the last points closes. The change is measured between
// the last two closes of the full series.
func (p *Presenter) Sparkline(res model.Loaded[*model.QuoteHistory], points int) *Spark {
	series := res.Result.CloseSeries()
	tail := series.Tail(points)

	last := series.Last()
	prev := last
	if n := len(series.Values); n > 1 {
		prev = series.Values[n-2]
	}
	dir := DirectionOf(prev, last)
	return &Spark{
		Trace: Trace{
			Name: res.Result.Symbol, Type: "scatter", Mode: "lines",
			X: model.FormatDays(tail.Dates), Y: tail.Values,
			Line: &Line{Color: dir.Color(), Width: 2},
		},
		Last:          last,
		ChangePercent: FormatChange(ChangePercent(prev, last)),
		Direction:     dir,
		Source:        res.Source,
	}
}

func lookupName(l labels.Lookup, symbol string) (string, bool) {
	if l == nil {
		return "", false
	}
	return l.StockName(symbol)
}

package model

import (
	"errors"
	"fmt"
	"time"
)

// DayLayout is the wire format of a calendar day.
const DayLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string. Longer timestamps are accepted and truncated.
func ParseDay(s string) (time.Time, error) {
	if len(s) > len(DayLayout) {
		s = s[:len(DayLayout)]
	}
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatDay renders a calendar day.
func FormatDay(t time.Time) string { return t.Format(DayLayout) }

// FormatDays renders a slice of calendar days.
func FormatDays(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = FormatDay(d)
	}
	return out
}

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TimeSeries is an ordered (date, value) sequence.
type TimeSeries struct {
	Dates  []time.Time
	Values []float64
}

// Validate checks that the series is non-empty, parallel and strictly increasing by date.
func (s TimeSeries) Validate() error {
	if len(s.Dates) == 0 {
		return errors.New("empty series")
	}
	if len(s.Dates) != len(s.Values) {
		return fmt.Errorf("dates/values length mismatch: %d != %d", len(s.Dates), len(s.Values))
	}
	return checkIncreasing(s.Dates)
}

// Last returns the final value, or 0 for an empty series.
func (s TimeSeries) Last() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Values[len(s.Values)-1]
}

// Tail returns the last n points. The result shares no memory with s.
func (s TimeSeries) Tail(n int) TimeSeries {
	start := len(s.Values) - n
	if start < 0 {
		start = 0
	}
	return TimeSeries{
		Dates:  append([]time.Time(nil), s.Dates[start:]...),
		Values: append([]float64(nil), s.Values[start:]...),
	}
}

func checkIncreasing(dates []time.Time) error {
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return fmt.Errorf("dates not strictly increasing at index %d (%s <= %s)",
				i, FormatDay(dates[i]), FormatDay(dates[i-1]))
		}
	}
	return nil
}

// QuoteHistory bundles parallel OHLCV channels. Close is mandatory; the
// other channels are nil when the source did not provide them.
type QuoteHistory struct {
	Symbol    string
	Timeframe Timeframe
	Period    Period
	Dates     []time.Time
	Open      []float64
	High      []float64
	Low       []float64
	Close     []float64
	Volume    []float64
}

// Validate enforces the channel-length invariant.
func (h *QuoteHistory) Validate() error {
	if h == nil {
		return errors.New("nil history")
	}
	if err := h.CloseSeries().Validate(); err != nil {
		return err
	}
	for name, ch := range map[string][]float64{"open": h.Open, "high": h.High, "low": h.Low, "volume": h.Volume} {
		if ch != nil && len(ch) != len(h.Dates) {
			return fmt.Errorf("%s length %d != dates length %d", name, len(ch), len(h.Dates))
		}
	}
	return nil
}

// HasOHLC reports whether candlestick rendering is possible.
func (h *QuoteHistory) HasOHLC() bool {
	n := len(h.Dates)
	return n > 0 && len(h.Open) == n && len(h.High) == n && len(h.Low) == n && len(h.Close) == n
}

// CloseSeries projects the close channel.
func (h *QuoteHistory) CloseSeries() TimeSeries {
	return TimeSeries{Dates: h.Dates, Values: h.Close}
}

// Len returns the number of bars.
func (h *QuoteHistory) Len() int { return len(h.Dates) }

// HistoryFromBars converts chronologically sorted bars into a QuoteHistory.
func HistoryFromBars(symbol string, tf Timeframe, p Period, bars []OHLCV) *QuoteHistory {
	h := &QuoteHistory{
		Symbol:    symbol,
		Timeframe: tf,
		Period:    p,
		Dates:     make([]time.Time, len(bars)),
		Open:      make([]float64, len(bars)),
		High:      make([]float64, len(bars)),
		Low:       make([]float64, len(bars)),
		Close:     make([]float64, len(bars)),
		Volume:    make([]float64, len(bars)),
	}
	for i, b := range bars {
		h.Dates[i] = Day(b.Time)
		h.Open[i] = b.Open
		h.High[i] = b.High
		h.Low[i] = b.Low
		h.Close[i] = b.Close
		h.Volume[i] = b.Volume
	}
	return h
}

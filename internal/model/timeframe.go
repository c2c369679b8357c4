package model

import (
	"fmt"
	"time"
)

// Timeframe is the bar resolution of a quote history.
type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
	TimeframeYearly  Timeframe = "yearly"
)

// ParseTimeframe parses s, defaulting to daily when s is empty.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(s); tf {
	case "":
		return TimeframeDaily, nil
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly, TimeframeYearly:
		return tf, nil
	default:
		return "", fmt.Errorf("unknown timeframe %q", s)
	}
}

// Prev steps t one bar back.
func (tf Timeframe) Prev(t time.Time) time.Time {
	switch tf {
	case TimeframeWeekly:
		return t.AddDate(0, 0, -7)
	case TimeframeMonthly:
		return t.AddDate(0, -1, 0)
	case TimeframeYearly:
		return t.AddDate(-1, 0, 0)
	default:
		return t.AddDate(0, 0, -1)
	}
}

// Volatility is the per-bar noise amplitude used when synthesizing bars.
func (tf Timeframe) Volatility() float64 {
	switch tf {
	case TimeframeWeekly:
		return 0.04
	case TimeframeMonthly:
		return 0.07
	case TimeframeYearly:
		return 0.15
	default:
		return 0.02
	}
}

// Period is the lookback window of a quote history request.
type Period string

const (
	Period1M Period = "1mo"
	Period6M Period = "6mo"
	Period1Y Period = "1y"
	Period5Y Period = "5y"
)

// ParsePeriod parses s, defaulting to 1y when s is empty.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return Period1Y, nil
	case Period1M, Period6M, Period1Y, Period5Y:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Start returns the first day covered by the period ending at end.
func (p Period) Start(end time.Time) time.Time {
	switch p {
	case Period1M:
		return end.AddDate(0, -1, 0)
	case Period6M:
		return end.AddDate(0, -6, 0)
	case Period5Y:
		return end.AddDate(-5, 0, 0)
	default:
		return end.AddDate(-1, 0, 0)
	}
}

package calculator

import (
	"errors"
	"math"

	"StockLens/internal/model"
)

// Range52Week returns the high and low over the year ending at the last
// bar. High/Low channels are used when present, closes otherwise.
func Range52Week(h *model.QuoteHistory) (high, low float64, err error) {
	if h == nil || h.Len() == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	n := h.Len()
	cutoff := h.Dates[n-1].AddDate(-1, 0, 0)
	highs, lows := h.High, h.Low
	if len(highs) != n || len(lows) != n {
		highs, lows = h.Close, h.Close
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := n - 1; i >= 0 && h.Dates[i].After(cutoff); i-- {
		if highs[i] > high {
			high = highs[i]
		}
		if lows[i] < low {
			low = lows[i]
		}
	}
	return high, low, nil
}

// Position52Week returns where the current price sits within the 52-week range (0.0~1.0).
func Position52Week(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

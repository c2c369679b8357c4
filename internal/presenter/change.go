package presenter

import (
	"github.com/shopspring/decimal"
)

// Direction is the sign class of a price move. Ties count as up.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// DirectionOf classifies the move from one value to another by its
// displayed percentage, so a move that rounds to 0.00% is up.
func DirectionOf(from, to float64) Direction {
	if ChangePercent(from, to).IsNegative() {
		return Down
	}
	return Up
}

// Color returns the display color of the direction.
func (d Direction) Color() string {
	if d == Down {
		return ColorDown
	}
	return ColorUp
}

var hundred = decimal.NewFromInt(100)

// ChangePercent returns (to-from)/from*100 rounded to two places. A zero
// base yields zero.
func ChangePercent(from, to float64) decimal.Decimal {
	if from == 0 {
		return decimal.Zero
	}
	base := decimal.NewFromFloat(from)
	return decimal.NewFromFloat(to).Sub(base).Div(base).Mul(hundred).Round(2)
}

// FormatChange renders a percentage with two decimals and an explicit +
// when non-negative, e.g. "+5.00%".
func FormatChange(pct decimal.Decimal) string {
	s := pct.StringFixed(2) + "%"
	if !pct.IsNegative() {
		return "+" + s
	}
	return s
}

// FormatPrice renders a price as "$X.XX".
func FormatPrice(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

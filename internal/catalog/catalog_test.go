package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

func TestPad_FillsToMinimum(t *testing.T) {
	got := Pad(Popular)
	require.Len(t, got, PopularMinimum)
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, "NFLX", got[10].Symbol)
}

func TestPad_SkipsDuplicates(t *testing.T) {
	in := []model.StockSummary{{Symbol: "NFLX"}, {Symbol: "AAPL"}}
	got := Pad(in)

	seen := map[string]int{}
	for _, s := range got {
		seen[s.Symbol]++
	}
	for sym, n := range seen {
		assert.Equal(t, 1, n, "%s duplicated", sym)
	}
	assert.Len(t, got, PopularMinimum)
	assert.Len(t, in, 2, "input slice was modified")
}

func TestPad_LongListUntouched(t *testing.T) {
	long := append(append([]model.StockSummary{}, Popular...), Reserve...)
	require.Greater(t, len(long), PopularMinimum)

	var got []model.StockSummary
	require.NotPanics(t, func() { got = Pad(long) })
	assert.Equal(t, long, got)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"aapl", "AAPL"},
		{"netflix", "NFLX"},
		{"  tesla ", "TSLA"},
	}
	for _, tt := range tests {
		got := Match(tt.query)
		require.NotEmpty(t, got, tt.query)
		assert.Equal(t, tt.want, got[0].Symbol, tt.query)
	}
	assert.Nil(t, Match(""))
}

func TestIndexName(t *testing.T) {
	assert.Equal(t, "Dow Jones", IndexName("^DJI"))
	assert.Equal(t, "XYZ", IndexName("XYZ"), "unknown index returns the symbol")
}

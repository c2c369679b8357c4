package model

// SymbolInfo describes a listed security. Only Symbol is guaranteed; empty
// strings and nil pointers mean the source did not provide the field.
type SymbolInfo struct {
	Symbol           string   `json:"symbol"`
	Name             string   `json:"name,omitempty"`
	Sector           string   `json:"sector,omitempty"`
	Industry         string   `json:"industry,omitempty"`
	MarketCap        *float64 `json:"market_cap,omitempty"`
	PERatio          *float64 `json:"pe_ratio,omitempty"`
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low,omitempty"`
}

// StockSummary is one entry of the popular or search listings.
type StockSummary struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 { return &v }

// Package catalog holds the static stock universe the application falls
// back on: the popular list, the reserve list used to pad short popular
// responses, and the market indices shown on the dashboard.
package catalog

import (
	"strings"

	"StockLens/internal/model"
)

// PopularMinimum is the number of entries the popular list is padded to.
const PopularMinimum = 20

// Popular is the list the backend serves from /stocks/popular.
var Popular = []model.StockSummary{
	{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Technology"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Sector: "Technology"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Sector: "Technology"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Sector: "Consumer Cyclical"},
	{Symbol: "TSLA", Name: "Tesla, Inc.", Sector: "Consumer Cyclical"},
	{Symbol: "META", Name: "Meta Platforms, Inc.", Sector: "Communication Services"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Sector: "Technology"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Sector: "Financial Services"},
	{Symbol: "V", Name: "Visa Inc.", Sector: "Financial Services"},
	{Symbol: "WMT", Name: "Walmart Inc.", Sector: "Consumer Defensive"},
}

// Reserve pads popular responses shorter than PopularMinimum.
var Reserve = []model.StockSummary{
	{Symbol: "NFLX", Name: "Netflix, Inc.", Sector: "Communication Services"},
	{Symbol: "ADBE", Name: "Adobe Inc.", Sector: "Technology"},
	{Symbol: "CRM", Name: "Salesforce, Inc.", Sector: "Technology"},
	{Symbol: "CSCO", Name: "Cisco Systems, Inc.", Sector: "Technology"},
	{Symbol: "PEP", Name: "PepsiCo, Inc.", Sector: "Consumer Defensive"},
	{Symbol: "INTC", Name: "Intel Corporation", Sector: "Technology"},
	{Symbol: "AMD", Name: "Advanced Micro Devices, Inc.", Sector: "Technology"},
	{Symbol: "PYPL", Name: "PayPal Holdings, Inc.", Sector: "Financial Services"},
	{Symbol: "CMCSA", Name: "Comcast Corporation", Sector: "Communication Services"},
	{Symbol: "COST", Name: "Costco Wholesale Corporation", Sector: "Consumer Defensive"},
	{Symbol: "DIS", Name: "The Walt Disney Company", Sector: "Communication Services"},
	{Symbol: "TMUS", Name: "T-Mobile US, Inc.", Sector: "Communication Services"},
	{Symbol: "IBM", Name: "International Business Machines", Sector: "Technology"},
	{Symbol: "GS", Name: "Goldman Sachs Group, Inc.", Sector: "Financial Services"},
	{Symbol: "BA", Name: "Boeing Company", Sector: "Industrials"},
	{Symbol: "UNH", Name: "UnitedHealth Group Incorporated", Sector: "Healthcare"},
	{Symbol: "HD", Name: "Home Depot, Inc.", Sector: "Consumer Cyclical"},
	{Symbol: "PG", Name: "Procter & Gamble Company", Sector: "Consumer Defensive"},
	{Symbol: "JNJ", Name: "Johnson & Johnson", Sector: "Healthcare"},
	{Symbol: "KO", Name: "Coca-Cola Company", Sector: "Consumer Defensive"},
}

// Index is a market index shown on the dashboard.
type Index struct {
	Symbol string
	Name   string
}

// Indices are loaded concurrently on every dashboard refresh.
var Indices = []Index{
	{Symbol: "^GSPC", Name: "S&P 500"},
	{Symbol: "^IXIC", Name: "NASDAQ"},
	{Symbol: "^DJI", Name: "Dow Jones"},
	{Symbol: "^VIX", Name: "VIX"},
}

// IndexName returns the display name of an index symbol, or the symbol itself.
func IndexName(symbol string) string {
	for _, ix := range Indices {
		if ix.Symbol == symbol {
			return ix.Name
		}
	}
	return symbol
}

// Lookup finds a symbol in the popular and reserve lists.
func Lookup(symbol string) (model.StockSummary, bool) {
	symbol = strings.ToUpper(symbol)
	for _, list := range [][]model.StockSummary{Popular, Reserve} {
		for _, s := range list {
			if s.Symbol == symbol {
				return s, true
			}
		}
	}
	return model.StockSummary{}, false
}

// Pad appends reserve entries (skipping duplicates) until the list holds
// at least PopularMinimum items. The input slice is not modified.
func Pad(list []model.StockSummary) []model.StockSummary {
	out := make([]model.StockSummary, len(list), max(len(list), PopularMinimum))
	copy(out, list)
	seen := make(map[string]bool, len(out))
	for _, s := range out {
		seen[s.Symbol] = true
	}
	for _, s := range Reserve {
		if len(out) >= PopularMinimum {
			break
		}
		if !seen[s.Symbol] {
			out = append(out, s)
			seen[s.Symbol] = true
		}
	}
	return out
}

// Match performs a case-insensitive substring search over symbols and names.
func Match(query string) []model.StockSummary {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []model.StockSummary
	for _, list := range [][]model.StockSummary{Popular, Reserve} {
		for _, s := range list {
			if strings.Contains(s.Symbol, q) || strings.Contains(strings.ToUpper(s.Name), q) {
				out = append(out, s)
			}
		}
	}
	return out
}

// Package labels maps symbols and sectors to display names. Lookups never
// fail: an unknown key renders as its raw English value.
package labels

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lookup resolves display labels.
type Lookup interface {
	StockName(symbol string) (string, bool)
	SectorName(sector string) (string, bool)
}

// Table is a read-only Lookup backed by two maps.
type Table struct {
	Stocks  map[string]string `yaml:"stocks"`
	Sectors map[string]string `yaml:"sectors"`
}

func (t *Table) StockName(symbol string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.Stocks[strings.ToUpper(symbol)]
	return v, ok
}

func (t *Table) SectorName(sector string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.Sectors[sector]
	return v, ok
}

// Name returns the localized stock name, or fallback when unknown.
func Name(l Lookup, symbol, fallback string) string {
	if l != nil {
		if v, ok := l.StockName(symbol); ok && v != "" {
			return v
		}
	}
	return fallback
}

// Sector returns the localized sector name, or the sector itself.
func Sector(l Lookup, sector string) string {
	if l != nil {
		if v, ok := l.SectorName(sector); ok && v != "" {
			return v
		}
	}
	return sector
}

// LoadFile reads a YAML table and layers it over Default(). An empty path
// returns Default() unchanged.
func LoadFile(path string) (*Table, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels file: %w", err)
	}
	var override Table
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse labels file: %w", err)
	}
	for k, v := range override.Stocks {
		t.Stocks[strings.ToUpper(k)] = v
	}
	maps.Copy(t.Sectors, override.Sectors)
	return t, nil
}

// Default returns a fresh copy of the built-in Korean tables.
func Default() *Table {
	return &Table{
		Stocks:  maps.Clone(koreanStockNames),
		Sectors: maps.Clone(koreanSectorNames),
	}
}

var koreanStockNames = map[string]string{
	"AAPL":  "애플",
	"MSFT":  "마이크로소프트",
	"GOOGL": "알파벳",
	"AMZN":  "아마존",
	"TSLA":  "테슬라",
	"META":  "메타플랫폼스",
	"NVDA":  "엔비디아",
	"JPM":   "JP모건체이스",
	"V":     "비자",
	"WMT":   "월마트",
	"NFLX":  "넷플릭스",
	"ADBE":  "어도비",
	"CRM":   "세일즈포스",
	"CSCO":  "시스코",
	"PEP":   "펩시코",
	"INTC":  "인텔",
	"AMD":   "AMD",
	"PYPL":  "페이팔",
	"CMCSA": "컴캐스트",
	"COST":  "코스트코",
	"DIS":   "디즈니",
	"TMUS":  "T-모바일",
	"IBM":   "IBM",
	"GS":    "골드만삭스",
	"BA":    "보잉",
	"UNH":   "유나이티드헬스",
	"HD":    "홈디포",
	"PG":    "프록터앤갬블",
	"JNJ":   "존슨앤존슨",
	"KO":    "코카콜라",
}

var koreanSectorNames = map[string]string{
	"Technology":                     "기술",
	"Consumer Cyclical":              "소비재",
	"Communication Services":         "통신 서비스",
	"Financial Services":             "금융 서비스",
	"Consumer Defensive":             "필수 소비재",
	"Healthcare":                     "헬스케어",
	"Industrials":                    "산업재",
	"Software - Infrastructure":      "소프트웨어 - 인프라",
	"Internet Content & Information": "인터넷 콘텐츠 및 정보",
	"Internet Retail":                "인터넷 소매",
	"Auto Manufacturers":             "자동차 제조",
	"Semiconductors":                 "반도체",
	"Banks - Diversified":            "은행 - 다각화",
	"Credit Services":                "신용 서비스",
	"Discount Stores":                "할인점",
	"Beverages - Non-Alcoholic":      "음료 - 비알콜",
	"Electronic Components":          "전자 부품",
	"Software - Application":         "소프트웨어 - 애플리케이션",
	"Telecom Services":               "통신 서비스",
	"Specialty Retail":               "전문 소매",
	"Medical Devices":                "의료 기기",
	"Pharmaceutical Retailers":       "제약 소매",
	"Insurance - Diversified":        "보험 - 다각화",
	"Restaurants":                    "레스토랑",
	"Aerospace & Defense":            "항공우주 및 방위",
	"Entertainment":                  "엔터테인먼트",
	"Drug Manufacturers":             "제약 제조",
	"Biotechnology":                  "생명공학",
	"Computer Hardware":              "컴퓨터 하드웨어",
}

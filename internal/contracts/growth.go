package contracts

import (
	"errors"
	"math"
)

// Sentinel errors for the screening pipeline.
// 누락 데이터는 예외가 아니라 값으로 전달 (missing data is a value, not a fault)
var (
	// ErrInsufficientData means a symbol has fewer than the required number
	// of quarterly records, or a required prior-year quarter is missing.
	ErrInsufficientData = errors.New("insufficient fundamental data")

	// ErrNoMarketCap means no market cap series exists for a symbol.
	ErrNoMarketCap = errors.New("market cap data not found")
)

// GrowthResult carries the YoY growth derived from one symbol's fundamentals.
// RevenueGrowth and MarginGrowth hold 0-2 percentages, most recent quarter
// first. A growth entry exists only when both the anchor quarter and its
// same-quarter prior-year counterpart carry a usable value.
type GrowthResult struct {
	Symbol         string
	RevenueGrowth  []float64
	MarginGrowth   []float64
	RecentRevenue  float64 // may be NaN
	RecentOpMargin float64 // may be NaN
}

// RevenueAvailable reports whether revenue growth covers both anchor
// quarters. Partial coverage never counts as available.
func (g *GrowthResult) RevenueAvailable(required int) bool {
	return len(g.RevenueGrowth) == required
}

// MarginAvailable reports whether margin growth covers both anchor quarters.
func (g *GrowthResult) MarginAvailable(required int) bool {
	return len(g.MarginGrowth) == required
}

// ScreenedStock is one accepted symbol in the final ranking.
// Growth fields are NaN when the corresponding entry was never computed;
// the formatter renders those as "missing", they are never coerced to zero.
type ScreenedStock struct {
	Symbol    string  `json:"symbol"`
	RevG1     float64 `json:"rev_g1"`
	RevG2     float64 `json:"rev_g2"`
	OpMG1     float64 `json:"opm_g1"`
	OpMG2     float64 `json:"opm_g2"`
	MarketCap float64 `json:"market_cap"`
}

// GrowthAt returns seq[i], or NaN when the sequence has no entry at i.
func GrowthAt(seq []float64, i int) float64 {
	if i < len(seq) {
		return seq[i]
	}
	return math.NaN()
}

package screening

import (
	"math"

	"github.com/wonny/growthscreen/internal/contracts"
)

// Skip reasons surfaced by the filter and the pipeline.
const (
	ReasonRevenueBelowLimit = "recent_revenue below limit"
	ReasonMarginBelowLimit  = "recent_margin below limit"
	ReasonThresholdNotMet   = "growth threshold not met"
	ReasonNoGrowthData      = "no usable growth data"
	ReasonInsufficientData  = "insufficient fundamentals"
	ReasonNoMarketCap       = "market cap unavailable"
	ReasonProcessingError   = "processing error"
)

// Thresholds defines the accept conditions for a screened symbol.
type Thresholds struct {
	MinRevenueGrowthPct float64 // YoY 매출 성장률 하한 (%)
	MinMarginGrowthPct  float64 // YoY 영업이익 성장률 하한 (%)
	MinRevenue          float64 // 최근 분기 매출 절대 하한
	MinMargin           float64 // 최근 분기 영업이익 절대 하한
}

// DefaultThresholds returns the absolute floors used when flags omit them:
// revenue 1000억, operating margin 100억.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinRevenue: 1000e8,
		MinMargin:  100e8,
	}
}

// Filter applies absolute floors and the availability-aware growth policy.
// ⭐ SSOT: 스크리닝 합격/탈락 판정은 여기서만
type Filter struct {
	thresholds Thresholds
	required   int
}

// NewFilter creates a filter for results computed over `required` anchor
// quarters.
func NewFilter(thresholds Thresholds, required int) *Filter {
	return &Filter{thresholds: thresholds, required: required}
}

// Check decides accept/reject for one growth result. Returns the empty
// string on accept, otherwise the skip reason.
//
// A growth metric is "available" only when it covers every anchor quarter.
// A symbol with a single available metric is judged on that metric alone;
// a symbol with neither is always rejected.
func (f *Filter) Check(result *contracts.GrowthResult) string {
	// Absolute floors first, on the raw recent values. A NaN recent value
	// (absent in the filing) does not trip the floor.
	if !math.IsNaN(result.RecentRevenue) && result.RecentRevenue < f.thresholds.MinRevenue {
		return ReasonRevenueBelowLimit
	}
	if !math.IsNaN(result.RecentOpMargin) && result.RecentOpMargin < f.thresholds.MinMargin {
		return ReasonMarginBelowLimit
	}

	revAvailable := result.RevenueAvailable(f.required)
	marginAvailable := result.MarginAvailable(f.required)

	switch {
	case revAvailable && marginAvailable:
		if !allExceed(result.RevenueGrowth, f.thresholds.MinRevenueGrowthPct) ||
			!allExceed(result.MarginGrowth, f.thresholds.MinMarginGrowthPct) {
			return ReasonThresholdNotMet
		}
	case revAvailable:
		if !allExceed(result.RevenueGrowth, f.thresholds.MinRevenueGrowthPct) {
			return ReasonThresholdNotMet
		}
	case marginAvailable:
		if !allExceed(result.MarginGrowth, f.thresholds.MinMarginGrowthPct) {
			return ReasonThresholdNotMet
		}
	default:
		return ReasonNoGrowthData
	}

	return ""
}

// allExceed reports whether every entry is strictly above the threshold.
func allExceed(growths []float64, threshold float64) bool {
	for _, g := range growths {
		if g <= threshold {
			return false
		}
	}
	return true
}

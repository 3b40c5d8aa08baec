package screening

import (
	"math"
	"sort"

	"github.com/wonny/growthscreen/internal/contracts"
)

// RequiredQuarters is the number of anchor quarters the screener compares.
const RequiredQuarters = 2

type quarterKey struct {
	year    int
	quarter int
}

// Calculator derives YoY growth from one symbol's quarterly fundamentals.
// ⭐ SSOT: YoY 성장률 계산은 여기서만
type Calculator struct {
	required int
}

// NewCalculator creates a calculator comparing the given number of anchor
// quarters (the screener uses RequiredQuarters).
func NewCalculator(required int) *Calculator {
	return &Calculator{required: required}
}

// Compute derives up to `required` YoY revenue-growth and margin-growth
// percentages, most recent quarter first, plus the raw values of the most
// recent quarter.
//
// Returns contracts.ErrInsufficientData when the symbol has fewer than
// `required` records, or when any anchor quarter lacks its same-quarter
// prior-year counterpart. A missing prior-year match for either anchor
// invalidates both metrics; partial anchor coverage is never trusted.
func (c *Calculator) Compute(records []contracts.Fundamental) (*contracts.GrowthResult, error) {
	if len(records) < c.required {
		return nil, contracts.ErrInsufficientData
	}

	// Anchors are positional: the first N records by date descending.
	// Duplicate (year, quarter) filings are NOT deduplicated here.
	sorted := make([]contracts.Fundamental, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	// (year, quarter) lookup over the full record set. On duplicate keys the
	// last record in input order wins.
	byQuarter := make(map[quarterKey]contracts.Fundamental, len(records))
	for _, r := range records {
		byQuarter[quarterKey{r.Year, r.Quarter}] = r
	}

	result := &contracts.GrowthResult{
		RecentRevenue:  math.NaN(),
		RecentOpMargin: math.NaN(),
	}
	if len(records) > 0 {
		result.Symbol = records[0].Symbol
	}

	for i := 0; i < c.required; i++ {
		anchor := sorted[i]

		curr, ok := byQuarter[quarterKey{anchor.Year, anchor.Quarter}]
		if !ok {
			return nil, contracts.ErrInsufficientData
		}
		prev, ok := byQuarter[quarterKey{anchor.Year - 1, anchor.Quarter}]
		if !ok {
			return nil, contracts.ErrInsufficientData
		}

		if i == 0 {
			result.RecentRevenue = curr.Revenue
			result.RecentOpMargin = curr.OpMargin
		}

		// Revenue: both values present and prior-year revenue non-zero.
		if curr.HasRevenue() && prev.HasRevenue() && prev.Revenue != 0 {
			result.RevenueGrowth = append(result.RevenueGrowth, yoyGrowth(curr.Revenue, prev.Revenue))
		}

		// Margin: both values present AND strictly positive. 적자 분기는 제외.
		if curr.HasOpMargin() && prev.HasOpMargin() && curr.OpMargin > 0 && prev.OpMargin > 0 {
			result.MarginGrowth = append(result.MarginGrowth, yoyGrowth(curr.OpMargin, prev.OpMargin))
		}
	}

	return result, nil
}

// yoyGrowth returns the percent change from prev to curr, normalized by the
// magnitude of prev so a negative base still yields a signed growth rate.
func yoyGrowth(curr, prev float64) float64 {
	return 100 * (curr - prev) / math.Abs(prev)
}

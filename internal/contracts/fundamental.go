package contracts

import (
	"math"
	"time"
)

// Fundamental represents one quarterly financial record for a symbol.
// Revenue and OpMargin are absolute amounts in KRW (억 단위 아님, 원 단위);
// either may be NaN when the filing did not report the value.
type Fundamental struct {
	Symbol   string
	Date     time.Time
	Year     int // fiscal year
	Quarter  int // fiscal quarter, 1-4
	Revenue  float64
	OpMargin float64 // 영업이익 (absolute amount, not a ratio)
}

// QuarterOf derives the fiscal quarter from a reporting date.
func QuarterOf(date time.Time) int {
	return (int(date.Month())-1)/3 + 1
}

// HasRevenue reports whether the revenue value was present in the filing.
func (f *Fundamental) HasRevenue() bool {
	return !math.IsNaN(f.Revenue)
}

// HasOpMargin reports whether the operating margin was present in the filing.
func (f *Fundamental) HasOpMargin() bool {
	return !math.IsNaN(f.OpMargin)
}

// MarketCap represents a symbol's market capitalization on a trading day.
type MarketCap struct {
	Symbol string
	Date   time.Time
	Value  float64
}

// LatestMarketCap returns the record with the most recent date, or false
// when the series is empty.
func LatestMarketCap(caps []MarketCap) (MarketCap, bool) {
	if len(caps) == 0 {
		return MarketCap{}, false
	}
	latest := caps[0]
	for _, mc := range caps[1:] {
		if mc.Date.After(latest.Date) {
			latest = mc
		}
	}
	return latest, true
}

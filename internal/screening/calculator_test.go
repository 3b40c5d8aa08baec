package screening

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/growthscreen/internal/contracts"
)

func record(symbol string, year, quarter int, revenue, opMargin float64) contracts.Fundamental {
	month := time.Month(quarter * 3)
	return contracts.Fundamental{
		Symbol:   symbol,
		Date:     time.Date(year, month, 30, 0, 0, 0, 0, time.UTC),
		Year:     year,
		Quarter:  quarter,
		Revenue:  revenue,
		OpMargin: opMargin,
	}
}

// Scenario: two recent quarters, both with prior-year counterparts.
func TestCalculator_Compute(t *testing.T) {
	calc := NewCalculator(RequiredQuarters)

	// Deliberately unordered input
	records := []contracts.Fundamental{
		{Symbol: "005930", Date: time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), Year: 2023, Quarter: 2, Revenue: 100, OpMargin: 15},
		{Symbol: "005930", Date: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), Year: 2024, Quarter: 2, Revenue: 120, OpMargin: 20},
		{Symbol: "005930", Date: time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC), Year: 2023, Quarter: 1, Revenue: 90, OpMargin: 10},
		{Symbol: "005930", Date: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), Year: 2024, Quarter: 1, Revenue: 110, OpMargin: 18},
	}

	result, err := calc.Compute(records)
	require.NoError(t, err)

	require.Len(t, result.RevenueGrowth, 2)
	assert.InDelta(t, 20.00, result.RevenueGrowth[0], 0.01)
	assert.InDelta(t, 22.22, result.RevenueGrowth[1], 0.01)

	require.Len(t, result.MarginGrowth, 2)
	assert.InDelta(t, 33.33, result.MarginGrowth[0], 0.01)
	assert.InDelta(t, 80.00, result.MarginGrowth[1], 0.01)

	assert.Equal(t, 120.0, result.RecentRevenue)
	assert.Equal(t, 20.0, result.RecentOpMargin)
}

func TestCalculator_TooFewRecords(t *testing.T) {
	calc := NewCalculator(RequiredQuarters)

	_, err := calc.Compute(nil)
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)

	_, err = calc.Compute([]contracts.Fundamental{record("A", 2024, 2, 100, 10)})
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)
}

// A missing prior-year quarter for either anchor invalidates the whole
// symbol, not just that anchor's entries.
func TestCalculator_MissingPriorYearAbortsBothMetrics(t *testing.T) {
	calc := NewCalculator(RequiredQuarters)

	records := []contracts.Fundamental{
		record("A", 2024, 2, 120, 20),
		record("A", 2024, 1, 110, 18),
		record("A", 2023, 2, 100, 15),
		// 2023Q1 missing: second anchor has no prior-year match
	}

	result, err := calc.Compute(records)
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)
	assert.Nil(t, result)
}

// Negative or zero margins are excluded from margin growth but still count
// as present for revenue growth. The two conditions are independent.
func TestCalculator_NegativeMarginExcluded(t *testing.T) {
	calc := NewCalculator(RequiredQuarters)

	records := []contracts.Fundamental{
		record("A", 2024, 2, 120, 20),
		record("A", 2024, 1, 110, 18),
		record("A", 2023, 2, 100, -5), // 적자 분기
		record("A", 2023, 1, 90, 10),
	}

	result, err := calc.Compute(records)
	require.NoError(t, err)

	assert.Len(t, result.RevenueGrowth, 2)
	require.Len(t, result.MarginGrowth, 1)
	assert.InDelta(t, 80.00, result.MarginGrowth[0], 0.01)
}

func TestCalculator_ZeroPriorRevenueExcluded(t *testing.T) {
	calc := NewCalculator(RequiredQuarters)

	records := []contracts.Fundamental{
		record("A", 2024, 2, 120, 20),
		record("A", 2024, 1, 110, 18),
		record("A", 2023, 2, 0, 15), // zero base, growth undefined
		record("A", 2023, 1, 90, 10),
	}

	result, err := calc.Compute(records)
	require.NoError(t, err)

	require.Len(t, result.RevenueGrowth, 1)
	assert.InDelta(t, 22.22, result.RevenueGrowth[0], 0.01)
	assert.Len(t, result.MarginGrowth, 2)
}

func TestCalculator_NaNValuesExcluded(t *testing.T) {
	calc := NewCalculator(RequiredQuarters)

	records := []contracts.Fundamental{
		record("A", 2024, 2, math.NaN(), 20),
		record("A", 2024, 1, 110, math.NaN()),
		record("A", 2023, 2, 100, 15),
		record("A", 2023, 1, 90, 10),
	}

	result, err := calc.Compute(records)
	require.NoError(t, err)

	// Q2 revenue absent, Q1 margin absent
	require.Len(t, result.RevenueGrowth, 1)
	assert.InDelta(t, 22.22, result.RevenueGrowth[0], 0.01)
	require.Len(t, result.MarginGrowth, 1)
	assert.InDelta(t, 33.33, result.MarginGrowth[0], 0.01)

	assert.True(t, math.IsNaN(result.RecentRevenue))
	assert.Equal(t, 20.0, result.RecentOpMargin)
}

// Growth against a negative revenue base is normalized by its magnitude.
func TestCalculator_NegativeRevenueBase(t *testing.T) {
	calc := NewCalculator(RequiredQuarters)

	records := []contracts.Fundamental{
		record("A", 2024, 2, 50, 20),
		record("A", 2024, 1, 110, 18),
		record("A", 2023, 2, -100, 15), // loss-making base quarter
		record("A", 2023, 1, 90, 10),
	}

	result, err := calc.Compute(records)
	require.NoError(t, err)

	require.Len(t, result.RevenueGrowth, 2)
	// 100 * (50 - (-100)) / 100 = 150
	assert.InDelta(t, 150.00, result.RevenueGrowth[0], 0.01)
}

// Duplicate (year, quarter) filings are not deduplicated: anchors stay
// positional and the key lookup is last-wins over input order.
func TestCalculator_DuplicateQuartersNotDeduplicated(t *testing.T) {
	calc := NewCalculator(RequiredQuarters)

	restated := record("A", 2024, 2, 130, 25)
	restated.Date = time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	records := []contracts.Fundamental{
		record("A", 2024, 2, 120, 20),
		restated, // same quarter filed twice, later date
		record("A", 2023, 2, 100, 15),
	}

	result, err := calc.Compute(records)
	require.NoError(t, err)

	// Both anchors resolve to 2024Q2 via the lookup; the restated record
	// wins because it appears later in the input.
	require.Len(t, result.RevenueGrowth, 2)
	assert.InDelta(t, 30.00, result.RevenueGrowth[0], 0.01)
	assert.InDelta(t, 30.00, result.RevenueGrowth[1], 0.01)
	assert.Equal(t, 130.0, result.RecentRevenue)
}

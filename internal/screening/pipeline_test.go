package screening

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/growthscreen/internal/contracts"
	"github.com/wonny/growthscreen/pkg/logger"
)

// fakeSource serves canned fundamentals and market caps for pipeline tests.
type fakeSource struct {
	symbols      []string
	fundamentals map[string][]contracts.Fundamental
	marketCaps   map[string][]contracts.MarketCap
	failSymbols  map[string]error
}

func (s *fakeSource) Symbols(ctx context.Context) ([]string, error) {
	return s.symbols, nil
}

func (s *fakeSource) Fundamentals(ctx context.Context, symbol string) ([]contracts.Fundamental, error) {
	if err, ok := s.failSymbols[symbol]; ok {
		return nil, err
	}
	return s.fundamentals[symbol], nil
}

func (s *fakeSource) MarketCaps(ctx context.Context, symbol string) ([]contracts.MarketCap, error) {
	caps, ok := s.marketCaps[symbol]
	if !ok {
		return nil, contracts.ErrNoMarketCap
	}
	return caps, nil
}

func fullQuarters(symbol string, revBase float64) []contracts.Fundamental {
	return []contracts.Fundamental{
		record(symbol, 2024, 2, revBase*1.3, 2000e8),
		record(symbol, 2024, 1, revBase*1.25, 1800e8),
		record(symbol, 2023, 2, revBase, 1500e8),
		record(symbol, 2023, 1, revBase, 1000e8),
	}
}

func caps(symbol string, value float64) []contracts.MarketCap {
	return []contracts.MarketCap{
		{Symbol: symbol, Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Value: value / 2},
		{Symbol: symbol, Date: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), Value: value},
	}
}

func testThresholds() Thresholds {
	return Thresholds{
		MinRevenueGrowthPct: 15,
		MinMarginGrowthPct:  20,
	}
}

func TestPipeline_Run(t *testing.T) {
	src := &fakeSource{
		symbols: []string{"AAA", "BBB", "CCC", "DDD", "EEE"},
		fundamentals: map[string][]contracts.Fundamental{
			"AAA": fullQuarters("AAA", 2000e8),
			"BBB": fullQuarters("BBB", 3000e8),
			"CCC": {record("CCC", 2024, 2, 100e8, 10e8)}, // single quarter
			"DDD": fullQuarters("DDD", 4000e8),           // no market cap series
			"EEE": { // flat revenue, flat margin: fails thresholds
				record("EEE", 2024, 2, 2000e8, 200e8),
				record("EEE", 2024, 1, 2000e8, 200e8),
				record("EEE", 2023, 2, 2000e8, 200e8),
				record("EEE", 2023, 1, 200e8, 200e8),
			},
		},
		marketCaps: map[string][]contracts.MarketCap{
			"AAA": caps("AAA", 5e12),
			"BBB": caps("BBB", 2e12),
			"EEE": caps("EEE", 1e12),
		},
	}

	p := NewPipeline(src, src, testThresholds(), 10, logger.Nop())
	ranked, err := p.Run(context.Background())
	require.NoError(t, err)

	// BBB has the smaller market cap, so it ranks first.
	require.Len(t, ranked, 2)
	assert.Equal(t, "BBB", ranked[0].Symbol)
	assert.Equal(t, 2e12, ranked[0].MarketCap)
	assert.Equal(t, "AAA", ranked[1].Symbol)

	// Latest market cap by date, not slice order.
	assert.Equal(t, 5e12, ranked[1].MarketCap)
}

func TestPipeline_TruncatesToCount(t *testing.T) {
	src := &fakeSource{
		symbols: []string{"AAA", "BBB"},
		fundamentals: map[string][]contracts.Fundamental{
			"AAA": fullQuarters("AAA", 2000e8),
			"BBB": fullQuarters("BBB", 3000e8),
		},
		marketCaps: map[string][]contracts.MarketCap{
			"AAA": caps("AAA", 5e10),
			"BBB": caps("BBB", 2e10),
		},
	}

	p := NewPipeline(src, src, testThresholds(), 1, logger.Nop())
	ranked, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.Equal(t, "BBB", ranked[0].Symbol)
}

// A failure on one symbol never aborts the run.
func TestPipeline_IsolatesSymbolFailures(t *testing.T) {
	src := &fakeSource{
		symbols: []string{"BAD", "GOOD"},
		fundamentals: map[string][]contracts.Fundamental{
			"GOOD": fullQuarters("GOOD", 2000e8),
		},
		marketCaps: map[string][]contracts.MarketCap{
			"GOOD": caps("GOOD", 1e12),
		},
		failSymbols: map[string]error{
			"BAD": errors.New("corrupted record"),
		},
	}

	p := NewPipeline(src, src, testThresholds(), 10, logger.Nop())
	ranked, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.Equal(t, "GOOD", ranked[0].Symbol)
}

func TestPipeline_MissingGrowthEntriesStayNaN(t *testing.T) {
	// Margin unavailable (negative base) but revenue passes on its own.
	src := &fakeSource{
		symbols: []string{"AAA"},
		fundamentals: map[string][]contracts.Fundamental{
			"AAA": {
				record("AAA", 2024, 2, 2600e8, 200e8),
				record("AAA", 2024, 1, 2500e8, 180e8),
				record("AAA", 2023, 2, 2000e8, -50e8),
				record("AAA", 2023, 1, 2000e8, -80e8),
			},
		},
		marketCaps: map[string][]contracts.MarketCap{
			"AAA": caps("AAA", 1e12),
		},
	}

	p := NewPipeline(src, src, testThresholds(), 10, logger.Nop())
	ranked, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.False(t, math.IsNaN(ranked[0].RevG1))
	assert.False(t, math.IsNaN(ranked[0].RevG2))
	assert.True(t, math.IsNaN(ranked[0].OpMG1))
	assert.True(t, math.IsNaN(ranked[0].OpMG2))
}

func TestPipeline_ContextCancellation(t *testing.T) {
	src := &fakeSource{symbols: []string{"AAA", "BBB"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(src, src, testThresholds(), 10, logger.Nop())
	_, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

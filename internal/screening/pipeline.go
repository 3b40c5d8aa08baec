package screening

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/growthscreen/internal/contracts"
	"github.com/wonny/growthscreen/pkg/logger"
)

// Pipeline runs the full screening pass: per symbol, compute growth, apply
// thresholds, attach the latest market cap, then rank survivors.
// ⭐ SSOT: 스크리닝 오케스트레이션은 여기서만
type Pipeline struct {
	fundamentals contracts.FundamentalsSource
	marketCaps   contracts.MarketCapSource
	calculator   *Calculator
	filter       *Filter
	count        int
	logger       *logger.Logger
}

// NewPipeline wires a pipeline over the given data sources.
func NewPipeline(
	fundamentals contracts.FundamentalsSource,
	marketCaps contracts.MarketCapSource,
	thresholds Thresholds,
	count int,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		fundamentals: fundamentals,
		marketCaps:   marketCaps,
		calculator:   NewCalculator(RequiredQuarters),
		filter:       NewFilter(thresholds, RequiredQuarters),
		count:        count,
		logger:       log,
	}
}

// Run screens every symbol of the fundamentals source. Symbols are processed
// independently; any failure on one symbol is logged and skipped, never
// aborting the run. The returned slice is ranked ascending by market cap and
// truncated to the configured count.
func (p *Pipeline) Run(ctx context.Context) ([]contracts.ScreenedStock, error) {
	symbols, err := p.fundamentals.Symbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}

	accepted := make([]contracts.ScreenedStock, 0)
	skipped := make(map[string]int) // reason -> count

	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		stock, reason := p.processSymbol(ctx, symbol)
		if reason != "" {
			skipped[reason]++
			p.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"reason": reason,
			}).Debug("Symbol skipped")
			continue
		}
		accepted = append(accepted, *stock)
	}

	ranked := Rank(accepted, p.count)

	p.logger.WithFields(map[string]interface{}{
		"total_input": len(symbols),
		"accepted":    len(accepted),
		"ranked":      len(ranked),
		"skipped":     skipped,
	}).Info("Screening completed")

	return ranked, nil
}

// processSymbol handles one symbol end to end. Returns the screened stock,
// or a non-empty skip reason. Panics from malformed data are contained here
// so one bad symbol cannot take the run down.
func (p *Pipeline) processSymbol(ctx context.Context, symbol string) (stock *contracts.ScreenedStock, reason string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"cause":  fmt.Sprint(r),
			}).Error("Unexpected failure while processing symbol")
			stock, reason = nil, ReasonProcessingError
		}
	}()

	records, err := p.fundamentals.Fundamentals(ctx, symbol)
	if err != nil {
		p.logger.WithError(err).WithField("symbol", symbol).Error("Failed to read fundamentals")
		return nil, ReasonProcessingError
	}

	result, err := p.calculator.Compute(records)
	if err != nil {
		if errors.Is(err, contracts.ErrInsufficientData) {
			return nil, ReasonInsufficientData
		}
		p.logger.WithError(err).WithField("symbol", symbol).Error("Growth computation failed")
		return nil, ReasonProcessingError
	}
	result.Symbol = symbol

	if r := p.filter.Check(result); r != "" {
		return nil, r
	}

	caps, err := p.marketCaps.MarketCaps(ctx, symbol)
	if err != nil {
		if errors.Is(err, contracts.ErrNoMarketCap) {
			return nil, ReasonNoMarketCap
		}
		p.logger.WithError(err).WithField("symbol", symbol).Error("Failed to read market caps")
		return nil, ReasonProcessingError
	}
	latest, ok := contracts.LatestMarketCap(caps)
	if !ok {
		return nil, ReasonNoMarketCap
	}

	return &contracts.ScreenedStock{
		Symbol:    symbol,
		RevG1:     contracts.GrowthAt(result.RevenueGrowth, 0),
		RevG2:     contracts.GrowthAt(result.RevenueGrowth, 1),
		OpMG1:     contracts.GrowthAt(result.MarginGrowth, 0),
		OpMG2:     contracts.GrowthAt(result.MarginGrowth, 1),
		MarketCap: latest.Value,
	}, ""
}

package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/growthscreen/internal/contracts"
	"github.com/wonny/growthscreen/internal/external/naver"
	"github.com/wonny/growthscreen/pkg/logger"
)

// Collector pulls market caps and quarterly fundamentals from Naver Finance
// and persists them through the repositories.
// ⭐ SSOT: 데이터 수집 오케스트레이션은 이 패키지에서만
type Collector struct {
	naverClient  *naver.Client
	fundamentals contracts.FundamentalRepository
	marketCaps   contracts.MarketCapRepository
	logger       *logger.Logger
}

// Config holds collector configuration
type Config struct {
	Workers int // concurrent fundamentals fetchers
}

// NewCollector creates a new Collector instance
func NewCollector(
	naverClient *naver.Client,
	fundamentals contracts.FundamentalRepository,
	marketCaps contracts.MarketCapRepository,
	log *logger.Logger,
) *Collector {
	return &Collector{
		naverClient:  naverClient,
		fundamentals: fundamentals,
		marketCaps:   marketCaps,
		logger:       log.WithField("module", "collector"),
	}
}

// Result summarizes one collection run.
type Result struct {
	Symbols       int
	MarketCaps    int
	Fundamentals  int
	FailedSymbols int
}

// Collect fetches today's market caps for the given markets, then the
// quarterly fundamentals for every listed symbol. Per-symbol failures are
// logged and counted, never fatal.
func (c *Collector) Collect(ctx context.Context, markets []string, cfg Config) (*Result, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	var allCaps []contracts.MarketCap
	for _, market := range markets {
		caps, err := c.naverClient.FetchMarketCaps(ctx, market)
		if err != nil {
			return nil, fmt.Errorf("fetch market caps for %s: %w", market, err)
		}
		allCaps = append(allCaps, caps...)
	}

	capPtrs := make([]*contracts.MarketCap, len(allCaps))
	for i := range allCaps {
		capPtrs[i] = &allCaps[i]
	}
	if err := c.marketCaps.SaveBatch(ctx, capPtrs); err != nil {
		return nil, fmt.Errorf("save market caps: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"markets":     markets,
		"market_caps": len(allCaps),
		"workers":     cfg.Workers,
	}).Info("Market caps collected, fetching fundamentals")

	result := &Result{
		Symbols:    len(allCaps),
		MarketCaps: len(allCaps),
	}

	symbolCh := make(chan string, len(allCaps))
	for _, mc := range allCaps {
		symbolCh <- mc.Symbol
	}
	close(symbolCh)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range symbolCh {
				count, err := c.collectFundamentals(ctx, symbol)
				mu.Lock()
				if err != nil {
					result.FailedSymbols++
				} else {
					result.Fundamentals += count
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	c.logger.WithFields(map[string]interface{}{
		"symbols":      result.Symbols,
		"fundamentals": result.Fundamentals,
		"failed":       result.FailedSymbols,
	}).Info("Collection completed")

	return result, nil
}

// collectFundamentals fetches and stores one symbol's quarterly records.
func (c *Collector) collectFundamentals(ctx context.Context, symbol string) (int, error) {
	records, err := c.naverClient.FetchFundamentals(ctx, symbol)
	if err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to fetch fundamentals")
		return 0, err
	}

	ptrs := make([]*contracts.Fundamental, len(records))
	for i := range records {
		ptrs[i] = &records[i]
	}
	if err := c.fundamentals.SaveBatch(ctx, ptrs); err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to save fundamentals")
		return 0, err
	}
	return len(records), nil
}

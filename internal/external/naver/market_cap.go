package naver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/growthscreen/internal/contracts"
)

// RankingStockItem represents a stock item from the Naver ranking API
type RankingStockItem struct {
	ItemCode  string `json:"itemcode"`
	ItemName  string `json:"itemname"`
	MarketSum string `json:"marketSum"` // 시가총액 (억원, comma separated)
}

const marketCapCacheTTL = 30 * time.Minute

// FetchMarketCaps fetches today's market caps for every stock in a market
// (KOSPI or KOSDAQ) by paging through the ranking API. Pages are cached in
// Redis so a fetch across both markets does not hammer the endpoint.
// ⭐ SSOT: 시가총액 호출은 이 함수에서만
func (c *Client) FetchMarketCaps(ctx context.Context, market string) ([]contracts.MarketCap, error) {
	var all []contracts.MarketCap

	// KOSPI/KOSDAQ each list well under 1500 stocks at 100 per page.
	maxPages := 15
	for page := 1; page <= maxPages; page++ {
		items, err := c.fetchRankingPage(ctx, market, page)
		if err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"market": market,
				"page":   page,
			}).Warn("Failed to fetch market cap page")
			continue
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			mc, err := parseMarketCap(item)
			if err != nil {
				c.logger.WithError(err).WithField("symbol", item.ItemCode).Debug("Failed to parse market cap")
				continue
			}
			all = append(all, mc)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"market": market,
		"count":  len(all),
	}).Debug("Fetched market caps")
	return all, nil
}

// fetchRankingPage reads one ranking page, Redis cache first.
func (c *Client) fetchRankingPage(ctx context.Context, market string, page int) ([]RankingStockItem, error) {
	cacheKey := fmt.Sprintf("ranking:%s:%d", market, page)

	var items []RankingStockItem
	if hit, err := c.cache.Get(ctx, cacheKey, &items); err == nil && hit {
		return items, nil
	}

	url := fmt.Sprintf("%s/api/domestic/market/stock/default?orderType=marketSum&marketType=%s&page=%d&pageSize=100",
		c.apiBaseURL, market, page)
	if err := c.httpClient.GetJSON(ctx, url, &items); err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, cacheKey, items, marketCapCacheTTL); err != nil {
		c.logger.WithError(err).Warn("Failed to cache ranking page")
	}
	return items, nil
}

// parseMarketCap converts a ranking item to a MarketCap record. The API
// reports 억원, the screener works in 원.
func parseMarketCap(item RankingStockItem) (contracts.MarketCap, error) {
	sumStr := strings.ReplaceAll(item.MarketSum, ",", "")
	sum, err := strconv.ParseFloat(sumStr, 64)
	if err != nil {
		return contracts.MarketCap{}, fmt.Errorf("parse market cap %q: %w", item.MarketSum, err)
	}

	return contracts.MarketCap{
		Symbol: item.ItemCode,
		Date:   time.Now().UTC().Truncate(24 * time.Hour),
		Value:  sum * 1e8,
	}, nil
}

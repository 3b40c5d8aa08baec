package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/growthscreen/internal/datasource"
	"github.com/wonny/growthscreen/internal/external/naver"
	"github.com/wonny/growthscreen/internal/ingest"
	"github.com/wonny/growthscreen/pkg/config"
	"github.com/wonny/growthscreen/pkg/database"
	"github.com/wonny/growthscreen/pkg/httputil"
	"github.com/wonny/growthscreen/pkg/redis"
)

// fetchCmd collects fundamentals and market caps into PostgreSQL
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Naver Finance 데이터 수집",
	Long: `Naver Finance에서 시가총액과 분기 실적을 수집해 DB에 저장합니다.

Example:
  go run ./cmd/screen fetch
  go run ./cmd/screen fetch --markets KOSPI --workers 8`,
	RunE: runFetch,
}

var (
	fetchMarkets []string
	fetchWorkers int
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringSliceVar(&fetchMarkets, "markets", []string{"KOSPI", "KOSDAQ"}, "Markets to collect")
	fetchCmd.Flags().IntVar(&fetchWorkers, "workers", 4, "Concurrent fundamentals fetchers")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := redis.New(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	httpClient := httputil.New(log).WithRateLimit(cfg.Naver.RateLimitRPS)
	cache := redis.NewCache(redisClient, "growthscreen")
	naverClient := naver.NewClient(cfg, httpClient, cache, log)

	collector := ingest.NewCollector(
		naverClient,
		datasource.NewFundamentalRepository(db.Pool),
		datasource.NewMarketCapRepository(db.Pool),
		log,
	)

	result, err := collector.Collect(context.Background(), fetchMarkets, ingest.Config{Workers: fetchWorkers})
	if err != nil {
		return err
	}

	fmt.Printf("Collected %d symbols: %d market caps, %d fundamental records (%d symbols failed)\n",
		result.Symbols, result.MarketCaps, result.Fundamentals, result.FailedSymbols)
	return nil
}

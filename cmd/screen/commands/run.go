package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/growthscreen/internal/contracts"
	"github.com/wonny/growthscreen/internal/datasource"
	"github.com/wonny/growthscreen/internal/report"
	"github.com/wonny/growthscreen/internal/screening"
	"github.com/wonny/growthscreen/pkg/config"
	"github.com/wonny/growthscreen/pkg/database"
	"github.com/wonny/growthscreen/pkg/logger"
)

// runCmd executes one screening pass and prints the ranked table
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "스크리닝 1회 실행",
	Long: `설정된 임계값으로 스크리닝을 1회 실행하고 랭킹 테이블을 출력합니다.

Example:
  go run ./cmd/screen run --min-rev-growth 20 --min-margin-growth 20 --count 30 \
    --fsdata ~/data/fsdata --msdata ~/data/msdata
  go run ./cmd/screen run --min-rev-growth 15 --min-margin-growth 15 --count 50 --source db`,
	RunE: runScreen,
}

var (
	runMinRevGrowth    float64
	runMinMarginGrowth float64
	runCount           int
	runMinRevenue      float64
	runMinMargin       float64
	runSource          string
	runFsDir           string
	runMsDir           string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Float64Var(&runMinRevGrowth, "min-rev-growth", 0, "Min YoY revenue growth %% for both recent quarters")
	runCmd.Flags().Float64Var(&runMinMarginGrowth, "min-margin-growth", 0, "Min YoY operating margin growth %% for both recent quarters")
	runCmd.Flags().IntVar(&runCount, "count", 0, "Number of ranked symbols to output")
	runCmd.Flags().Float64Var(&runMinRevenue, "min-revenue", 1000e8, "Min revenue in most recent quarter (default: 1000억)")
	runCmd.Flags().Float64Var(&runMinMargin, "min-margin", 100e8, "Min op margin in most recent quarter (default: 100억)")
	runCmd.Flags().StringVar(&runSource, "source", "csv", "Data source: csv or db")
	runCmd.Flags().StringVar(&runFsDir, "fsdata", "", "Fundamentals CSV directory (csv source)")
	runCmd.Flags().StringVar(&runMsDir, "msdata", "", "Market cap CSV directory (csv source)")

	// 필수 설정 누락은 심볼 처리 전에 실패
	_ = runCmd.MarkFlagRequired("min-rev-growth")
	_ = runCmd.MarkFlagRequired("min-margin-growth")
	_ = runCmd.MarkFlagRequired("count")
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	fundamentals, marketCaps, cleanup, err := buildSources(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	thresholds := screening.Thresholds{
		MinRevenueGrowthPct: runMinRevGrowth,
		MinMarginGrowthPct:  runMinMarginGrowth,
		MinRevenue:          runMinRevenue,
		MinMargin:           runMinMargin,
	}

	pipeline := screening.NewPipeline(fundamentals, marketCaps, thresholds, runCount, log)
	ranked, err := pipeline.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Print(report.Table(ranked))
	return nil
}

// buildSources resolves the screening sources from the --source flag.
func buildSources(cfg *config.Config, log *logger.Logger) (contracts.FundamentalsSource, contracts.MarketCapSource, func(), error) {
	switch runSource {
	case "csv":
		if runFsDir == "" || runMsDir == "" {
			return nil, nil, nil, fmt.Errorf("--fsdata and --msdata are required with the csv source")
		}
		src := datasource.NewCSVSource(runFsDir, runMsDir)
		return src, src, func() {}, nil

	case "db":
		db, err := database.New(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		src := datasource.NewDBSource(db.Pool)
		return src, src, db.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown source %q (want csv or db)", runSource)
	}
}

// newLogger builds the CLI logger, honoring --verbose.
func newLogger(cfg *config.Config) *logger.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logger.New(level, cfg.LogFormat)
}

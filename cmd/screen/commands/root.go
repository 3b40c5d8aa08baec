package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screen",
	Short: "growthscreen - 지속 성장주 스크리너",
	Long: `growthscreen

분기 실적 기반 지속 성장주 스크리너.
최근 2개 분기의 YoY 매출/영업이익 성장률로 필터링하고
시가총액 오름차순으로 랭킹합니다.

Usage:
  go run ./cmd/screen [command]

Examples:
  go run ./cmd/screen run --min-rev-growth 20 --min-margin-growth 20 --count 30 --fsdata ./fsdata --msdata ./msdata
  go run ./cmd/screen fetch --markets KOSPI,KOSDAQ
  go run ./cmd/screen schedule --profile config/growth_krx.yaml
  go run ./cmd/screen serve --profile config/growth_krx.yaml`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/growthscreen/pkg/logger"
)

// testLoggerCmd represents the test-logger command
var testLoggerCmd = &cobra.Command{
	Use:   "test-logger",
	Short: "Logger 기능 테스트",
	Long: `구조화된 로깅 기능을 테스트합니다.

이 명령어는:
- JSON/Console 포맷 테스트
- 구조화된 필드 로깅
- 에러 컨텍스트 로깅

Example:
  go run ./cmd/screen test-logger`,
	RunE: runTestLogger,
}

func init() {
	rootCmd.AddCommand(testLoggerCmd)
}

func runTestLogger(cmd *cobra.Command, args []string) error {
	fmt.Println("=== growthscreen Logger Test ===")

	fmt.Println("1. JSON Format")
	fmt.Println("--------------------------------")
	jsonLog := logger.New("debug", "json")
	jsonLog.Debug("debug message")
	jsonLog.Info("info message")
	jsonLog.Warn("warn message")
	fmt.Println()

	fmt.Println("2. Console Format")
	fmt.Println("--------------------------------")
	consoleLog := logger.New("debug", "console")
	consoleLog.Info("console formatted message")
	fmt.Println()

	fmt.Println("3. Structured Fields")
	fmt.Println("--------------------------------")
	consoleLog.WithFields(map[string]interface{}{
		"symbol":     "005930",
		"market_cap": 4420523e8,
	}).Info("screening example")
	consoleLog.WithError(errors.New("sample failure")).Error("error with context")
	fmt.Println()

	fmt.Println("✅ Logger test completed")
	return nil
}

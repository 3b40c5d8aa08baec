package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/growthscreen/internal/ingest"
	"github.com/wonny/growthscreen/internal/report"
	"github.com/wonny/growthscreen/internal/screening"
	"github.com/wonny/growthscreen/pkg/logger"
)

// DailyScreen collects fresh data from Naver Finance and runs the growth
// screen, printing the ranked table. Scheduled for after market close.
type DailyScreen struct {
	collector *ingest.Collector
	pipeline  *screening.Pipeline
	markets   []string
	schedule  string
	logger    *logger.Logger
}

// NewDailyScreen creates the daily screening job.
func NewDailyScreen(
	collector *ingest.Collector,
	pipeline *screening.Pipeline,
	markets []string,
	schedule string,
	log *logger.Logger,
) *DailyScreen {
	return &DailyScreen{
		collector: collector,
		pipeline:  pipeline,
		markets:   markets,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *DailyScreen) Name() string {
	return "daily_screen"
}

// Schedule returns the cron schedule expression
func (j *DailyScreen) Schedule() string {
	return j.schedule
}

// Run collects then screens.
func (j *DailyScreen) Run(ctx context.Context) error {
	result, err := j.collector.Collect(ctx, j.markets, ingest.Config{})
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"symbols":      result.Symbols,
		"fundamentals": result.Fundamentals,
	}).Info("Collection finished, screening")

	ranked, err := j.pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}

	fmt.Println(report.Table(ranked))
	return nil
}

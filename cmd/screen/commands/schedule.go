package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/growthscreen/internal/datasource"
	"github.com/wonny/growthscreen/internal/external/naver"
	"github.com/wonny/growthscreen/internal/ingest"
	"github.com/wonny/growthscreen/internal/profile"
	"github.com/wonny/growthscreen/internal/scheduler"
	"github.com/wonny/growthscreen/internal/scheduler/jobs"
	"github.com/wonny/growthscreen/internal/screening"
	"github.com/wonny/growthscreen/pkg/config"
	"github.com/wonny/growthscreen/pkg/database"
	"github.com/wonny/growthscreen/pkg/httputil"
	"github.com/wonny/growthscreen/pkg/redis"
)

// scheduleCmd runs the daily fetch+screen job on a cron schedule
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "일일 수집+스크리닝 스케줄 실행",
	Long: `프로파일의 cron 설정에 따라 매일 데이터를 수집하고 스크리닝합니다.

Example:
  go run ./cmd/screen schedule --profile config/growth_krx.yaml`,
	RunE: runSchedule,
}

var scheduleProfile string

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleProfile, "profile", "", "Screening profile YAML")
	_ = scheduleCmd.MarkFlagRequired("profile")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	prof, err := profile.Load(scheduleProfile)
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

	src := datasource.NewDBSource(db.Pool)
	pipeline := screening.NewPipeline(src, src, prof.Thresholds(), prof.Screening.ResultCount, log)

	sched := scheduler.New(log)
	job := jobs.NewDailyScreen(collector, pipeline, prof.Schedule.Markets, prof.Schedule.Cron, log)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	log.WithField("profile", prof.Meta.Name).Info("Scheduler running, waiting for signal")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	return nil
}

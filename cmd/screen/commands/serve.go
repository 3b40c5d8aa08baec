package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/growthscreen/internal/api"
	"github.com/wonny/growthscreen/internal/datasource"
	"github.com/wonny/growthscreen/internal/profile"
	"github.com/wonny/growthscreen/pkg/config"
	"github.com/wonny/growthscreen/pkg/database"
)

// serveCmd starts the HTTP API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP API 서버 실행",
	Long: `스크리닝 API 서버를 실행합니다.

Endpoints:
  GET /health
  GET /api/v1/screen?min_rev_growth=20&min_margin_growth=20&count=30

Example:
  go run ./cmd/screen serve --profile config/growth_krx.yaml`,
	RunE: runServe,
}

var serveProfile string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveProfile, "profile", "", "Screening profile YAML")
	_ = serveCmd.MarkFlagRequired("profile")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	prof, err := profile.Load(serveProfile)
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	src := datasource.NewDBSource(db.Pool)
	handler := api.NewScreenHandler(src, src, prof.Thresholds(), prof.Screening.ResultCount, log)
	router := api.NewRouter(handler, log)
	server := api.New(cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

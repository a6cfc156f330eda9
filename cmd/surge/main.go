package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/surgelabs/surge/internal/client"
	"github.com/surgelabs/surge/internal/config"
	"github.com/surgelabs/surge/internal/domain"
	"github.com/surgelabs/surge/internal/httpapi"
	"github.com/surgelabs/surge/internal/httpapi/middleware"
	"github.com/surgelabs/surge/internal/logging"
	"github.com/surgelabs/surge/internal/metrics"
	"github.com/surgelabs/surge/internal/notify"
	"github.com/surgelabs/surge/internal/runner"
	"github.com/surgelabs/surge/internal/scenario"
	"github.com/surgelabs/surge/internal/store"
	"github.com/surgelabs/surge/internal/store/memory"
	"github.com/surgelabs/surge/internal/store/sqlitedb"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}

	code := run(cfg, logger)
	_ = logger.Sync()
	os.Exit(code)
}

func run(cfg config.Config, logger *zap.Logger) int {
	sc := buildScenario(cfg)
	engine := metrics.NewEngine(sc.Name, sc.TargetURL, cfg.VUs)

	var runs store.RunStore
	if cfg.ResultsDB != "" {
		s, err := sqlitedb.Open(cfg.ResultsDB)
		if err != nil {
			logger.Error("results_db_open_failed", zap.String("path", cfg.ResultsDB), zap.Error(err))
			return 1
		}
		runs = s
	} else {
		runs = memory.New()
	}

	// SIGINT/SIGTERM (or POST /api/stop) abort the run; the summary of what
	// completed so far is still printed and saved.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.APIAddr != "" {
		api := httpapi.NewServer(logger, engine, runs, cancel,
			middleware.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys},
			cfg.PublicRPM, cfg.PublicBurst)
		go func() {
			logger.Info("api_listen", zap.String("addr", cfg.APIAddr))
			if err := http.ListenAndServe(cfg.APIAddr, api.Router()); err != nil {
				logger.Warn("api_stopped", zap.Error(err))
			}
		}()
	}

	r := runner.New(logger, sc, client.New(cfg.HTTPTimeout), engine,
		cfg.VUs, cfg.Duration, cfg.Iterations)
	summary := r.Run(ctx)

	fmt.Print(summary.String())

	if cfg.LatencyFile != "" {
		if err := summary.WriteDistribution(cfg.LatencyFile); err != nil {
			logger.Warn("latency_file_write_failed", zap.Error(err))
		}
	}

	tail, tailCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer tailCancel()

	if err := runs.Save(tail, domain.RunFromSummary(summary)); err != nil {
		logger.Warn("run_save_failed", zap.Error(err))
	}

	if summary.RequestsFailed > 0 || summary.ChecksFailed() > 0 {
		var alerts notify.Multi
		if sl := notify.NewSlack(cfg.SlackWebhook); sl != nil {
			alerts = append(alerts, sl)
		}
		if len(alerts) > 0 {
			title := fmt.Sprintf("Load run %q recorded failures", sc.Name)
			if err := alerts.Send(tail, title, summary.String()); err != nil {
				logger.Warn("notify_failed", zap.Error(err))
			}
		}
		return 1
	}
	return 0
}

func buildScenario(cfg config.Config) *scenario.Scenario {
	sc := scenario.ByName(cfg.ScenarioName)
	// Env overrides reshape the load, never the checks.
	if cfg.TargetURL != "" {
		sc.TargetURL = cfg.TargetURL
	}
	sc.Pause = cfg.Pause
	return sc
}

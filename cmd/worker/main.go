package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	enums "go.temporal.io/api/enums/v1"
	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/halvard/cms/internal/activity"
	"github.com/halvard/cms/internal/config"
	"github.com/halvard/cms/internal/core"
	"github.com/halvard/cms/internal/db"
	"github.com/halvard/cms/internal/logging"
	"github.com/halvard/cms/internal/metrics"
	"github.com/halvard/cms/internal/registrar"
	"github.com/halvard/cms/internal/sync"
	"github.com/halvard/cms/internal/workflow"
)

const taskQueue = "cms-tasks"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("worker"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	metrics.RegisterPoolMetrics(pool)

	accounts, err := config.LoadAccounts(cfg.RegistrarAccountsFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load registrar accounts")
	}
	logger.Info().Int("accounts", len(accounts)).Msg("loaded registrar accounts")

	tc, err := temporalclient.Dial(temporalclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to temporal")
	}
	defer tc.Close()

	services := core.NewServices(pool, cfg.SyncStatusTTL)
	client := registrar.NewClient(logger)
	rotation := registrar.NewRotation(client, accounts, logger)
	engine := sync.NewEngine(services.Domain, services.SyncStatus, client, rotation, accounts, logger)

	w := worker.New(tc, taskQueue, worker.Options{})

	syncActivities := activity.NewSync(engine)
	w.RegisterActivity(syncActivities)

	w.RegisterWorkflow(workflow.SyncDomainsWorkflow)

	if cfg.MetricsAddr != "" {
		metricsSrv := metrics.NewServer(cfg.MetricsAddr)
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("starting metrics server")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	go func() {
		logger.Info().Str("taskQueue", taskQueue).Msg("starting temporal worker")
		if err := w.Run(worker.InterruptCh()); err != nil {
			logger.Fatal().Err(err).Msg("worker failed")
		}
	}()

	// Errors for already-existing schedules are ignored so that re-deploys
	// do not fail.
	registerCronSchedules(ctx, tc, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down worker")
	cancel()
}

func registerCronSchedules(ctx context.Context, tc temporalclient.Client, logger zerolog.Logger) {
	scheduleClient := tc.ScheduleClient()

	const id = "domain-sync-cron"
	_, err := scheduleClient.Create(ctx, temporalclient.ScheduleOptions{
		ID: id,
		Spec: temporalclient.ScheduleSpec{
			CronExpressions: []string{"0 */6 * * *"},
		},
		// Skip a fire while the previous sync is still running.
		Overlap: enums.SCHEDULE_OVERLAP_POLICY_SKIP,
		Action: &temporalclient.ScheduleWorkflowAction{
			ID:        id,
			Workflow:  workflow.SyncDomainsWorkflow,
			TaskQueue: taskQueue,
		},
	})
	if err != nil {
		if strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "AlreadyExists") || strings.Contains(err.Error(), "already registered") {
			logger.Info().Str("id", id).Msg("cron schedule already exists, skipping")
		} else {
			logger.Fatal().Err(err).Str("id", id).Msg("failed to create cron schedule")
		}
	} else {
		logger.Info().Str("id", id).Str("cron", "0 */6 * * *").Msg("created cron schedule")
	}
}

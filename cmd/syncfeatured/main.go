package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/providerdir/providerdir/pkg/billing"
	"github.com/providerdir/providerdir/pkg/config"
	"github.com/providerdir/providerdir/pkg/logger"
	"github.com/providerdir/providerdir/pkg/pg"
	"github.com/providerdir/providerdir/pkg/reconcile"
)

type syncConfig struct {
	// Interval switches the binary from a one-shot pass to a long-running
	// daemon that reconciles on a fixed schedule. Zero means run once.
	Interval time.Duration `env:"SYNC_INTERVAL" envDefault:"0"`
	PageSize int           `env:"SYNC_PAGE_SIZE" envDefault:"100"`
}

func main() {
	log := logger.New(
		logger.WithService("syncfeatured"),
		logger.WithFormat(logger.FormatText),
	)
	logger.SetAsDefault(log)

	if err := run(log); err != nil {
		log.Error("featured subscription sync failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		syncCfg   syncConfig
		pgCfg     pg.Config
		paddleCfg billing.PaddleConfig
	)
	config.MustLoad(&syncCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&paddleCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	provider, err := billing.NewPaddleProvider(paddleCfg)
	if err != nil {
		return err
	}

	reconciler := reconcile.New(
		provider,
		reconcile.NewPostgresSubscriptionStore(pool),
		reconcile.NewPostgresLocationFlagStore(pool),
		reconcile.WithPageSize(syncCfg.PageSize),
		reconcile.WithLogger(log),
	)

	if syncCfg.Interval <= 0 {
		return runOnce(ctx, reconciler, log)
	}
	return runScheduled(ctx, reconciler, log, syncCfg.Interval)
}

// runOnce executes a single pass. Per-item failures are reported in the
// result and do not fail the process; only an unreachable provider does.
func runOnce(ctx context.Context, reconciler *reconcile.Reconciler, log *slog.Logger) error {
	result, err := reconciler.Run(ctx)
	if err != nil {
		return err
	}
	if result.Failures > 0 {
		log.WarnContext(ctx, "sync completed with item failures",
			slog.Int("failures", result.Failures),
			slog.Int("upserted", result.Upserted),
		)
	}
	return nil
}

func runScheduled(ctx context.Context, reconciler *reconcile.Reconciler, log *slog.Logger, interval time.Duration) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, runErr := reconciler.Run(ctx); runErr != nil {
				if errors.Is(runErr, reconcile.ErrProviderUnavailable) {
					// The provider will be retried on the next tick.
					log.ErrorContext(ctx, "provider unreachable, pass aborted", logger.Error(runErr))
					return
				}
				log.ErrorContext(ctx, "reconciliation pass failed", logger.Error(runErr))
			}
		}),
		gocron.WithName("featured-subscription-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	log.InfoContext(ctx, "sync daemon started", slog.Duration("interval", interval))

	<-ctx.Done()
	return scheduler.Shutdown()
}

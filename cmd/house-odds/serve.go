package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/house-odds/internal/api"
	"github.com/yourusername/house-odds/internal/builder"
	"github.com/yourusername/house-odds/internal/cache"
	"github.com/yourusername/house-odds/internal/config"
	"github.com/yourusername/house-odds/internal/health"
	"github.com/yourusername/house-odds/internal/logger"
	"github.com/yourusername/house-odds/internal/metrics"
	"github.com/yourusername/house-odds/internal/odds"
	"github.com/yourusername/house-odds/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket preview service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithDefaults(configFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment))
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	metrics.InitRegistry()

	engine := odds.NewEngine(cfg.Preview.SmoothingAlpha)

	var previewCache *cache.PreviewCache
	if cfg.Cache.Enabled {
		previewCache = cache.NewPreviewCache(cfg.CacheTTL(), cfg.Cache.MaxSize)

		sched := scheduler.NewScheduler(log)
		if err := sched.Schedule("cache-sweep", cfg.Cache.SweepSchedule, sweepJob(previewCache, log)); err != nil {
			return fmt.Errorf("failed to schedule cache sweep: %w", err)
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				log.WithError(err).Warn("Scheduler did not stop cleanly")
			}
		}()
	}

	previewer := api.NewPreviewer(api.PreviewerConfig{
		Builder:     builder.Config{MarginField: cfg.Preview.MarginField, Engine: engine},
		Cache:       previewCache,
		Logger:      log,
		MaxOutcomes: cfg.Server.MaxOutcomesPerRequest,
	})

	healthHandler := health.NewHandler(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
	})
	healthHandler.AddCheck("engine", engineCheck(engine))

	log.WithFields(logrus.Fields{
		"version":     Version,
		"commit":      GitCommit,
		"environment": cfg.App.Environment,
		"alpha":       engine.Alpha(),
		"cache":       cfg.Cache.Enabled,
	}).Info("Starting house odds preview service")

	return api.NewServer(cfg, previewer, healthHandler, log).Run(ctx)
}

// engineCheck prices an even two-way market and expects evens.
func engineCheck(engine *odds.Engine) health.Check {
	return func(ctx context.Context) error {
		quotes := engine.ComputePreview([]int{50, 50}, 0)
		if len(quotes) != 2 || quotes[0].DisplayOdds != 2 {
			return errors.New("engine returned unexpected price for an even market")
		}
		return nil
	}
}

func sweepJob(pc *cache.PreviewCache, log *logrus.Logger) scheduler.JobFunc {
	return func(ctx context.Context) {
		remaining := pc.Sweep()
		hits, misses, ratio := pc.Stats()
		log.WithFields(logrus.Fields{
			"items":     remaining,
			"hits":      hits,
			"misses":    misses,
			"hit_ratio": ratio,
		}).Debug("Preview cache swept")
	}
}

// Package entrypoint wires the long-running worker daemon: database,
// task queue, and the finalizer scheduler, with graceful shutdown on
// SIGINT/SIGTERM.
package entrypoint

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/plotwist/importer/internal/config"
	"github.com/plotwist/importer/internal/database"
	"github.com/plotwist/importer/internal/database/imports"
	"github.com/plotwist/importer/internal/logger"
	"github.com/plotwist/importer/internal/scheduler"
	"github.com/plotwist/importer/internal/services"
	"github.com/plotwist/importer/internal/tasks"
	"github.com/plotwist/importer/internal/tmdb"
)

// Run starts the worker daemon and blocks until a shutdown signal.
func Run(cfg *config.Config, version string) {
	logger.Setup(cfg.Log)
	logrus.WithField("version", version).Info("starting plotwist importer")

	if cfg.TMDB.Token == "" {
		logrus.Warn("TMDB_TOKEN is not set; item matching will fail until it is configured")
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize database")
	}
	defer db.Close()

	repo := imports.NewRepository(db.DB)
	matcher := tmdb.NewClient(cfg.TMDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var taskClient *tasks.Client
	var publisher *tasks.Publisher
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxAttempts:       cfg.Tasks.MaxAttempts,
			Backoff:           cfg.Tasks.Backoff,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		})
		if err != nil {
			logrus.WithError(err).Fatal("failed to initialize task queue")
		}
		defer taskClient.Close()

		taskClient.Register(
			tasks.NewProcessMovieQueue(repo, matcher),
			tasks.NewProcessSeriesQueue(repo, matcher),
		)
		go taskClient.Start(ctx)
		publisher = tasks.NewPublisher(taskClient)
	}

	var finalizer *scheduler.FinalizerScheduler
	if cfg.Finalizer.Enabled {
		// Keep the interface nil when the queue is disabled so the
		// sweeper only finalizes and never tries to enqueue.
		var itemPublisher services.ItemPublisher
		if publisher != nil {
			itemPublisher = publisher
		}
		finalizer = scheduler.NewFinalizerScheduler(repo, itemPublisher, cfg.Finalizer.Schedule)
		if err := finalizer.Start(); err != nil {
			logrus.WithError(err).Fatal("failed to start finalizer scheduler")
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	logrus.WithField("timeout", timeout).Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if finalizer != nil {
		finalizer.Stop()
	}
	if taskClient != nil {
		cancel()
		taskClient.Stop(shutdownCtx)
	}
}

// Package main is the entry point for the scheduled export worker.
// It renders the previous week's report files on a cron schedule.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stockbook/internal/config"
	"stockbook/internal/domain/reports"
	"stockbook/internal/export"
	"stockbook/internal/infrastructure/cache"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/internal/infrastructure/storage/postgres/inventory_repo"
	"stockbook/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stockbook export worker")

	pool, err := postgres.NewPool(ctx, postgres.FromAppConfig(cfg.DB))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	recordRepo := inventory_repo.NewRecordRepo(txManager)
	reportsService := reports.NewService(recordRepo, cache.NewNoop(), 0)

	exporter := export.NewExporter(reportsService, cfg.Export.Dir)
	scheduler := export.NewScheduler(exporter, cfg.Export.CronSchedule)

	if err := scheduler.Start(); err != nil {
		log.Fatalw("failed to start scheduler", "schedule", cfg.Export.CronSchedule, "error", err)
	}
	log.Infow("scheduler started", "schedule", cfg.Export.CronSchedule, "dir", cfg.Export.Dir)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("stopping worker...")
	scheduler.Stop()
	log.Info("worker stopped")
}

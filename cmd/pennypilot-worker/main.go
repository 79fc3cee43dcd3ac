package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"pennypilot/internal/amqp"
	gbackup "pennypilot/internal/backup/google"
	"pennypilot/internal/config"
	applog "pennypilot/internal/log"
	"pennypilot/internal/storage"
	"pennypilot/internal/storage/file"
	"pennypilot/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	cfgLog := applog.DefaultConfig()
	cfgLog.Component = applog.ComponentWorker
	logger := applog.New(cfgLog)
	applog.SetDefault(logger)

	logger.Info("Starting pennypilot-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker reads the same store the server writes.
	var store storage.GoalStore
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		store = repo
	default:
		store = file.New(cfg.GoalsFilePath)
	}

	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("Google Sheets backup requires GOOGLE_SPREADSHEET_ID")
		os.Exit(1)
	}
	sheetsClient, err := gbackup.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets backup client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	if cfg.AMQPURL == "" {
		logger.Error("Worker requires AMQP_URL to consume goal events")
		os.Exit(1)
	}
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	backupWorker := worker.NewBackupWorker(store, sheetsClient, sheetsClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// On startup, snapshot once to cover events missed while down.
	if err := backupWorker.SnapshotNow(ctx); err != nil {
		logger.Error("Startup snapshot failed", "error", err)
		// Don't exit - continue with normal operation
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeGoalEvents(gctx, backupWorker.HandleGoalEvent)
	})
	g.Go(func() error {
		return backupWorker.RunPeriodicSnapshots(gctx, cfg.BackupInterval)
	})

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-gctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Worker shutdown complete")
	case <-time.After(30 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aescanero/scicalc/internal/chart"
	"github.com/aescanero/scicalc/internal/config"
	"github.com/aescanero/scicalc/internal/engine"
	"github.com/aescanero/scicalc/internal/history"
	"github.com/aescanero/scicalc/internal/logging"
	"github.com/aescanero/scicalc/internal/worker"
)

var (
	// Version is set at build time
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := logging.NewWorker(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting calc worker",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("worker_id", cfg.WorkerID),
	)

	// Log configuration (without sensitive data)
	logger.Info("configuration loaded", zap.String("config", cfg.String()))

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	dispatcher, err := engine.NewDispatcher(chart.NewPlotRenderer(), cfg.Settings(), logger)
	if err != nil {
		logger.Fatal("failed to initialize dispatcher", zap.Error(err))
	}
	logger.Info("dispatcher initialized",
		zap.String("output_dir", cfg.OutputDir),
		zap.String("output_format", cfg.OutputFormat),
	)

	// History is optional for the worker
	var recorder worker.Recorder
	var store *history.Store
	if cfg.HistoryPath != "" {
		store, err = history.NewStore(cfg.HistoryPath)
		if err != nil {
			logger.Warn("history disabled", zap.String("path", cfg.HistoryPath), zap.Error(err))
		} else {
			recorder = store
			logger.Info("history enabled", zap.String("path", cfg.HistoryPath))
		}
	}

	publisher := worker.NewStreamPublisher(redisClient, logger)
	w := worker.NewWorker(cfg, redisClient, dispatcher, publisher, recorder, logger)

	// Start worker
	if err := w.Start(); err != nil {
		logger.Fatal("failed to start worker", zap.Error(err))
	}

	// Start health server
	healthServer := worker.NewHealthServer(cfg.HealthPort, redisClient, cfg.MetricsEnabled, logger)
	if err := healthServer.Start(); err != nil {
		logger.Fatal("failed to start health server", zap.Error(err))
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("calc worker running, press Ctrl+C to stop")
	<-sigChan

	logger.Info("shutdown signal received, stopping worker")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := healthServer.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop health server", zap.Error(err))
	}

	if err := w.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop worker", zap.Error(err))
	}

	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("failed to close history", zap.Error(err))
		}
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("failed to close redis connection", zap.Error(err))
	}

	logger.Info("worker stopped gracefully")
}

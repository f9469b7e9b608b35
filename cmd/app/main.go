package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forumkit/wagerhall/internal/config"
	"github.com/forumkit/wagerhall/internal/database"
	"github.com/forumkit/wagerhall/internal/database/postgres"
	"github.com/forumkit/wagerhall/internal/event"
	"github.com/forumkit/wagerhall/internal/ledger"
	"github.com/forumkit/wagerhall/internal/logger"
	"github.com/forumkit/wagerhall/internal/metrics"
	"github.com/forumkit/wagerhall/internal/odds"
	"github.com/forumkit/wagerhall/internal/server"
	"github.com/forumkit/wagerhall/internal/settlement"
	"github.com/forumkit/wagerhall/internal/wagering"
)

const (
	dbMaxConnections = 25
	dbMaxIdleTime    = 5 * time.Minute
	dbMaxLifetime    = 30 * time.Minute
	shutdownTimeout  = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initLogger(cfg)

	pool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConnections, dbMaxIdleTime, dbMaxLifetime)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.ApplySchema(context.Background(), pool); err != nil {
		logger.Error("Failed to apply schema", "error", err)
		os.Exit(1)
	}

	// Event bus with retry and dead-letter fallback
	bus := event.NewMemoryBus()
	publisher := event.NewResilientPublisher(bus, event.ResilientConfig{
		MaxRetries:     event.RetryMaxAttempts,
		RetryDelay:     event.RetryInitialDelay,
		DeadLetterPath: cfg.DeadLetterPath,
	})

	collector := metrics.NewEventMetricsCollector()
	if err := collector.Register(bus); err != nil {
		logger.Error("Failed to register metrics collector", "error", err)
		os.Exit(1)
	}

	// Repositories
	wageringRepo := postgres.NewWageringRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)

	// Services
	calc := odds.NewCalculator()
	ledgerService := ledger.NewService(ledgerRepo)
	wageringService := wagering.NewService(wageringRepo, ledgerRepo, publisher, calc)
	settlementService := settlement.NewService(wageringRepo, publisher, cfg.FeeRate, cfg.SettleChunkSize)

	srv := server.NewServer(cfg.Port, cfg.APIKey, nil, pool, wageringService, settlementService, ledgerService)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		logger.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	if err := publisher.Shutdown(ctx); err != nil {
		logger.Warn("Event publisher shutdown incomplete", "error", err)
	}

	logger.Info("Server stopped")
}

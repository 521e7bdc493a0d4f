package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/questdesk/gacha/internal/admin"
	"github.com/questdesk/gacha/internal/config"
	"github.com/questdesk/gacha/internal/database"
	"github.com/questdesk/gacha/internal/database/postgres"
	"github.com/questdesk/gacha/internal/economy"
	"github.com/questdesk/gacha/internal/event"
	"github.com/questdesk/gacha/internal/gacha"
	"github.com/questdesk/gacha/internal/handler"
	"github.com/questdesk/gacha/internal/metrics"
	"github.com/questdesk/gacha/internal/provider"
	"github.com/questdesk/gacha/internal/server"
	"github.com/questdesk/gacha/internal/sse"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)
	handler.InitValidator()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxIdleTime, cfg.DBMaxLifetime)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.EnsureSchema(context.Background(), dbPool); err != nil {
		slog.Error("Failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	// Event system: in-memory bus wrapped in a resilient publisher
	eventBus := event.NewMemoryBus()
	if err := os.MkdirAll(filepath.Dir(cfg.EventDeadLetterPath), 0o755); err != nil {
		slog.Error("Failed to create dead-letter directory", "error", err)
		os.Exit(1)
	}
	publisher := event.NewResilientPublisher(eventBus, event.ResilientConfig{
		MaxRetries:     event.RetryMaxAttempts,
		RetryDelay:     event.RetryBaseDelay,
		DeadLetterPath: cfg.EventDeadLetterPath,
	})

	eventMetrics := metrics.NewEventMetricsCollector()
	eventMetrics.Register(eventBus)

	hub := sse.NewHub()
	hub.Start()
	sse.NewSubscriber(hub, eventBus).Subscribe()

	// Asset providers, highest priority first in the registry
	localProvider := provider.NewLocalProvider(cfg.AssetBasePath, cfg.AssetBaseURL)
	cloudinaryProvider := provider.NewCloudinaryProvider(provider.CloudinaryConfig{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryFolder,
	})
	wallhavenProvider, err := provider.NewWallhavenProvider(cfg.WallhavenAPIKey)
	if err != nil {
		slog.Error("Failed to initialize wallhaven provider", "error", err)
		os.Exit(1)
	}
	registry := provider.NewRegistry(localProvider, cloudinaryProvider, wallhavenProvider)

	gachaRepo := postgres.NewGachaRepository(dbPool)
	economyRepo := postgres.NewEconomyRepository(dbPool)

	economyService := economy.NewService(economyRepo, publisher)
	gachaService := gacha.NewService(gachaRepo, registry, economyService, gacha.NewSelector(), publisher)
	adminService := admin.NewService(gachaRepo, registry, publisher)

	srv := server.NewServer(cfg.Port, dbPool, gachaService, economyService, adminService, hub)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	hub.Stop()
	publisher.Shutdown(ctx)

	slog.Info("Server exited")
}

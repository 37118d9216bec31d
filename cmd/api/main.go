package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lberthe/cartomark/internal/adapters/http"
	natsadapter "github.com/lberthe/cartomark/internal/adapters/nats"
	"github.com/lberthe/cartomark/internal/adapters/postgres"
	"github.com/lberthe/cartomark/internal/adapters/temporalx"
	"github.com/lberthe/cartomark/internal/adapters/valkey"
	"github.com/lberthe/cartomark/internal/core/ports"
	"github.com/lberthe/cartomark/internal/core/usecases"
	"github.com/lberthe/cartomark/internal/pkg/config"
	"github.com/lberthe/cartomark/internal/pkg/logging"
	"github.com/lberthe/cartomark/internal/pkg/metrics"
	"github.com/lberthe/cartomark/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("cartomark-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache. The interface stays nil on dial failure so the services fall
	// back to uncached reads instead of calling through a nil adapter.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr, "cartomark")
	if err != nil {
		slog.Warn("valkey unavailable, running without cache", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS, same rule: nil interface means events are skipped.
	var events ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, running without events", "error", err)
	} else {
		defer nc.Close()
		events = nc
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Temporal client for orphan sweeps
	sweeper, err := temporalx.NewSweeper(cfg.Temporal.HostPort)
	if err != nil {
		log.Fatalf("temporal: %v", err)
	}
	defer sweeper.Close()

	// Repos
	tagRepo := postgres.NewTagRepo(db)
	placeRepo := postgres.NewPlaceRepo(db)
	iterationRepo := postgres.NewIterationRepo(db)
	mapRepo := postgres.NewMapRepo(db)
	userRepo := postgres.NewUserRepo(db)

	// Use cases
	tagSvc := usecases.NewTagCatalog(tagRepo, cacheSvc)
	placeSvc := usecases.NewPlaceService(placeRepo, tagRepo, sweeper, events)
	iterationSvc := usecases.NewIterationService(iterationRepo)
	mapSvc := usecases.NewMapService(mapRepo, iterationRepo, placeSvc, iterationSvc, tagSvc, events)
	adminSvc := usecases.NewAdminService(userRepo, tagSvc, placeSvc)

	deps := &http.Dependencies{
		Tags:            tagSvc,
		Places:          placeSvc,
		Iterations:      iterationSvc,
		Maps:            mapSvc,
		Admin:           adminSvc,
		NATS:            natsConn,
		DB:              db,
		Cache:           cache,
		TagPreviewLimit: cfg.Editor.TagPreviewLimit,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "CartoMark API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.cartomark.app",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-User-Id, X-User-Status",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Export pool stats for Prometheus
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

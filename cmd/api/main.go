// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Api is the entry point for the memoryd HTTP API server.

The server provides a project-scoped cognitive-memory backend: curated
insights with revision history and lazy effectiveness feedback, episodic
and working memory, a relationship graph, hybrid search across all
three, and a bilateral-consent workflow gating non-privileged mutations.

Usage:

	go run cmd/api/main.go [flags]

The flags/environment variables are:

	SERVER_PORT     Port to listen on (default: 8080)
	ENVIRONMENT     deployment environment (development, production)
	DATABASE_URL    Postgres connection string (required)
	REDIS_URL       Redis connection string (required)

Startup Sequence:

 1. Logger: Initialize structured JSON logging (slog).
 2. Config: Load and validate environment variables.
 3. Storage: Establish connections to Postgres and Redis.
 4. Migration: Run idempotent schema updates.
 5. Wiring: Inject dependencies into domain services/handlers.
 6. Server: Bind HTTP listener and handle graceful shutdown.

No business logic lives here. This file is strictly for orchestration and wiring.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cogmem/memoryd/internal/access"
	"github.com/cogmem/memoryd/internal/api"
	"github.com/cogmem/memoryd/internal/embedding"
	"github.com/cogmem/memoryd/internal/episodic"
	"github.com/cogmem/memoryd/internal/graph"
	"github.com/cogmem/memoryd/internal/insight"
	"github.com/cogmem/memoryd/internal/platform/config"
	"github.com/cogmem/memoryd/internal/platform/constants"
	"github.com/cogmem/memoryd/internal/platform/migration"
	pgstore "github.com/cogmem/memoryd/internal/platform/postgres"
	redisstore "github.com/cogmem/memoryd/internal/platform/redis"
	"github.com/cogmem/memoryd/internal/platform/sec"
	"github.com/cogmem/memoryd/internal/proposal"
	"github.com/cogmem/memoryd/internal/search"
	"github.com/cogmem/memoryd/internal/stats"
	"github.com/cogmem/memoryd/internal/tool"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application_startup_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// # 1. Logger
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries for trace correlation
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("memoryd_service_initializing")

	// # 2. Configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Adjust log level if debug mode is explicitly enabled
	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. A 30s deadline prevents the app from hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// # 3. PostgreSQL
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, cfg.RLSPhaseOverride, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// # 4. Redis
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// # 5. Migrations
	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// # 6. Platform Services
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return fmt.Errorf("initialize jwt service: %w", err)
	}

	embedder := embedding.Select(cfg.EmbeddingProviderURL, cfg.EmbeddingAPIKey, cfg.EmbeddingDimension, log)

	// # 7. Health Wiring
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// # 8. Domain Wiring — Curation
	insightRepo := insight.NewRepository()
	insightSvc := insight.NewService(pool, insightRepo, log)

	// # 9. Domain Wiring — Consent/Proposal
	proposalRepo := proposal.NewRepository()
	proposalSvc := proposal.NewService(pool, proposalRepo, insightRepo, rdb, log)

	// # 10. Domain Wiring — Relationship Graph
	graphRepo := graph.NewRepository()
	graphSvc := graph.NewService(pool, graphRepo, log)

	// # 11. Domain Wiring — Episodic & Working Memory
	episodicRepo := episodic.NewRepository()
	episodicSvc := episodic.NewService(pool, episodicRepo, log)

	// # 12. Domain Wiring — Hybrid Search
	searchRepo := search.NewRepository()
	searchSvc := search.NewService(pool, searchRepo, insightRepo, graphSvc, embedder, log)

	// # 13. Domain Wiring — Stats & Counts
	statsRepo := stats.NewRepository()
	statsSvc := stats.NewService(pool, statsRepo)

	// # 14. Domain Wiring — Access-Control Core (admin surface only)
	accessRepo := access.NewRepository(pool)
	accessSvc := access.NewService(accessRepo, log)
	adminHandler := access.NewHandler(accessSvc, statsRepo, pool, log)

	// # 16. Tool-Protocol Transport
	toolHandler := tool.NewHandler(tool.Dependencies{
		Insights:  insightSvc,
		Proposals: proposalSvc,
		Graph:     graphSvc,
		Episodic:  episodicSvc,
		Search:    searchSvc,
		Stats:     statsSvc,
		Embedder:  embedder,
	}, log)

	// # 17. API Assembly
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Tool:      toolHandler,
		Admin:     adminHandler,
	}

	// Create a background context for the whole application lifecycle
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// # 18. Lifecycle Handling
	shutdownErr := make(chan error, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownErr <- fmt.Errorf("http_server_crash: %w", err)
		}
	}()

	log.Info("memoryd_api_running", slog.String("port", cfg.ServerPort))

	// Block until signal or error
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-shutdownErr:
		return err
	}

	// Start Graceful Shutdown Sequence
	appCancel() // Signal background workers to stop

	log.Info("shutting_down_api_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		return fmt.Errorf("server_shutdown_failed: %w", err)
	}

	log.Info("graceful_shutdown_complete")
	return nil
}

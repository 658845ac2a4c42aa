// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package main is the entry point for the Curbside server.
//
// Curbside surfaces street parking in real time: geospatial spot
// discovery with composite scoring, crowd-reported occupancy with
// availability prediction, review-driven meter status inference, and
// personalized recommendations behind an A/B-tested ranking experiment.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables over config file over
//     built-in defaults (Koanf v2)
//  2. Database: DuckDB for spots, reviews, occupancy history, and
//     behavioral events
//  3. WebSocket hub: realtime availability fan-out with per-client
//     geographic bounds filtering
//  4. Recommendation ranker: learned scoring artifact with a distance
//     heuristic fallback
//  5. HTTP server: REST API plus the /api/v1/ws realtime endpoint and
//     Prometheus /metrics
//
// Long-running components (hub, HTTP server) run under a suture
// supervision tree with per-layer failure isolation.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, then config.yaml, then
// defaults. Key variables:
//
//	HTTP_HOST / HTTP_PORT        bind address (default 0.0.0.0:8000)
//	DUCKDB_PATH                  database file, empty for in-memory
//	SEED_MOCK_DATA=true          populate demo spots on startup
//	RECOMMEND_MODEL_PATH         scoring artifact; empty = distance ranking
//	CORS_ORIGINS                 comma-separated allowed origins
//	DISABLE_RATE_LIMIT=true      for load testing only
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, drains in-flight requests (10s timeout),
// closes WebSocket clients, and releases the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/curbside/internal/abtest"
	"github.com/tomtom215/curbside/internal/api"
	"github.com/tomtom215/curbside/internal/cache"
	"github.com/tomtom215/curbside/internal/config"
	"github.com/tomtom215/curbside/internal/database"
	"github.com/tomtom215/curbside/internal/logging"
	"github.com/tomtom215/curbside/internal/metrics"
	"github.com/tomtom215/curbside/internal/occupancy"
	"github.com/tomtom215/curbside/internal/recommend"
	"github.com/tomtom215/curbside/internal/supervisor"
	"github.com/tomtom215/curbside/internal/supervisor/services"
	ws "github.com/tomtom215/curbside/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Curbside")

	startTime := time.Now()
	metrics.AppInfo.WithLabelValues(api.Version, runtime.Version()).Set(1)
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			metrics.AppUptime.Set(time.Since(startTime).Seconds())
		}
	}()

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	if cfg.Database.SeedMockData {
		logging.Info().Msg("Mock data seeding enabled (SEED_MOCK_DATA=true)")
		if err := db.SeedMockData(context.Background()); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing database")
			}
			logging.Fatal().Err(err).Msg("Failed to seed mock data")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	wsHub := ws.NewHub()

	ranker := recommend.NewRanker(
		cfg.Recommend.ModelPath,
		database.NewRecommendData(db),
		logging.WithComponent("recommend"),
	)
	if ranker.ModelLoaded() {
		logging.Info().Str("model_version", ranker.ModelVersion()).Msg("Scoring model active")
	} else {
		logging.Info().Msg("No scoring model, recommendations use distance ranking")
	}

	assigner := abtest.NewAssigner()
	occupancyService := occupancy.New(db, wsHub)
	discoveryCache := cache.New(cfg.API.DiscoveryCacheTTL)
	defer discoveryCache.Close()

	handler := api.NewHandler(db, wsHub, occupancyService, ranker, assigner, discoveryCache, cfg)

	middleware := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	router := api.NewRouter(handler, middleware)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor closes the channel
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
}

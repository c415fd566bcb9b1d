// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

/*
Command dashboard serves the rental delay analysis on port 8501.

The cleaned rentals CSV (DASHBOARD_DATA_PATH) is loaded once into an
in-memory DuckDB table. Charts are computed on first request and cached
for DASHBOARD_CACHE_TTL.

	GET /                   analysis page
	GET /charts/{id}.svg    one chart
	GET /api/v1/charts      chart data as JSON
	GET /api/v1/views       row count per filtered view
*/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/getaround/internal/api"
	"github.com/tomtom215/getaround/internal/config"
	"github.com/tomtom215/getaround/internal/dashboard"
	"github.com/tomtom215/getaround/internal/logging"
	"github.com/tomtom215/getaround/internal/rentals"
	"github.com/tomtom215/getaround/internal/supervisor"
	"github.com/tomtom215/getaround/internal/supervisor/services"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	api.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := rentals.Open(ctx, cfg.Dashboard.DataPath)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Dashboard.DataPath).Msg("Failed to load rentals")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing rentals store")
		}
	}()

	svc := dashboard.NewService(store, cfg.Dashboard)
	defer svc.Close()
	go svc.Warm(ctx)

	logging.Info().
		Str("version", version).
		Str("addr", cfg.Dashboard.Addr()).
		Int64("rows", store.Len()).
		Msg("Starting Getaround dashboard")

	mw := api.NewChiMiddleware(api.MiddlewareConfigFrom(cfg.Security))
	health := api.NewHealthHandler(map[string]api.HealthCheck{"rentals": svc.Ready}).
		WithInfo("chart_cache", svc.CacheInfo)

	server := &http.Server{
		Addr:              cfg.Dashboard.Addr(),
		Handler:           dashboard.NewRouter(dashboard.NewHandler(svc), mw, health),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree := supervisor.NewTree("getaround-dashboard", logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService("dashboard", server, cfg.Server.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor stopped with error")
		return
	}
	logging.Info().Msg("Shutdown complete")
}

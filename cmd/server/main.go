// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/getaround/docs" // swagger docs
	"github.com/tomtom215/getaround/internal/api"
	"github.com/tomtom215/getaround/internal/config"
	"github.com/tomtom215/getaround/internal/dataset"
	"github.com/tomtom215/getaround/internal/logging"
	"github.com/tomtom215/getaround/internal/predictor"
	"github.com/tomtom215/getaround/internal/supervisor"
	"github.com/tomtom215/getaround/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
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

	logging.Info().
		Str("version", version).
		Str("addr", cfg.Server.Addr()).
		Str("backend", cfg.Model.Backend).
		Str("model", cfg.Model.Path).
		Str("dataset", cfg.Dataset.URL).
		Msg("Starting Getaround prediction API")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree := supervisor.NewTree("getaround-api", logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	registry := predictor.NewRegistry(cfg.Model)
	if b := registry.Bridge(); b != nil {
		tree.AddModelService(b)
	}
	if err := registry.Reload(ctx); err != nil {
		// The API still starts; /predict answers 503 until a reload succeeds.
		logging.Error().Err(err).Msg("No model loaded at startup")
	}
	if cfg.Model.Watch {
		tree.AddModelService(services.NewModelWatchService(
			registry, cfg.Model.WatchDebounce, cfg.Model.Path, cfg.Model.PreprocessorPath,
		))
	}

	source := dataset.NewSource(cfg.Dataset)
	sampler := dataset.NewSampler(source, cfg.Dataset.MaxRows, nil)
	handler := api.NewHandler(sampler, registry, cfg.Dataset.DefaultRows)

	mw := api.NewChiMiddleware(api.MiddlewareConfigFrom(cfg.Security))
	health := api.NewHealthHandler(map[string]api.HealthCheck{
		"model": func(context.Context) error {
			if !registry.Ready() {
				return predictor.ErrNotReady
			}
			return nil
		},
	}).WithInfo("model_loaded_at", func() string {
		if at := registry.LoadedAt(); !at.IsZero() {
			return at.UTC().Format(time.RFC3339)
		}
		return ""
	})
	if remote, ok := source.(*dataset.HTTPSource); ok {
		health.WithInfo("dataset_breaker", remote.State)
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is disabled")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, mw, health),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService("prediction-api", server, cfg.Server.ShutdownTimeout))

	err = tree.Serve(ctx)
	reportUnstopped(tree)
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor stopped with error")
		os.Exit(1)
	}
	logging.Info().Msg("Shutdown complete")
}

func reportUnstopped(tree *supervisor.Tree) {
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
	}
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}
}

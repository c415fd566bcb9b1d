// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/getaround/internal/middleware"
)

// NewBaseRouter returns a chi router with the middleware shared by both
// servers plus /health, /metrics and the JSON 404/405 handlers.
func NewBaseRouter(mw *ChiMiddleware, health *HealthHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(AccessLog())
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.Route("/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", health.Live)
		r.Get("/ready", health.Ready)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
	})
	return r
}

// NewRouter wires the prediction service.
//
//	GET  /             random rows of the pricing dataset
//	POST /predict      daily price of one listing
//	GET  /health/*     liveness and readiness
//	GET  /metrics      Prometheus
//	GET  /swagger/*    API documentation
func NewRouter(h *Handler, mw *ChiMiddleware, health *HealthHandler) http.Handler {
	r := NewBaseRouter(mw, health)

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", h.Preview)
		r.Post("/predict", h.Predict)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))
	return r
}

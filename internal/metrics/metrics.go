// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

// Package metrics declares the Prometheus collectors exported on /metrics by
// both binaries, with small helpers that keep label values consistent.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of in-flight HTTP requests",
		},
	)

	// Predictions
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of price predictions",
		},
		[]string{"backend", "outcome"}, // outcome: success, invalid, error, unavailable
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prediction_duration_seconds",
			Help:    "Model inference latency in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"backend"},
	)

	PredictedPrice = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "predicted_price_dollars",
			Help:    "Distribution of predicted daily rental prices",
			Buckets: []float64{25, 50, 75, 100, 125, 150, 200, 300, 500},
		},
	)

	ModelLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_loaded",
			Help: "1 when a model of the given backend is active",
		},
		[]string{"backend"},
	)

	ModelReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_reloads_total",
			Help: "Total number of model reload attempts",
		},
		[]string{"result"},
	)

	BridgeRestarts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "python_bridge_starts_total",
			Help: "Total number of Python bridge process starts",
		},
	)

	// Preview sampling
	SampleRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sample_requests_total",
			Help: "Total number of dataset sample requests",
		},
		[]string{"outcome"}, // success, row_limit, invalid, error
	)

	DatasetFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataset_fetch_duration_seconds",
			Help:    "Time to fetch and parse the preview dataset",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"}, // remote, file
	)

	DatasetFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_fetch_errors_total",
			Help: "Total number of failed dataset fetches",
		},
		[]string{"source"},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Dashboard
	DashboardQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DashboardQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	ChartRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chart_renders_total",
			Help: "Total number of chart renders",
		},
		[]string{"chart", "result"},
	)

	// Cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordPrediction records one inference and, on success, the predicted price.
func RecordPrediction(backend, outcome string, duration time.Duration, price float64) {
	PredictionsTotal.WithLabelValues(backend, outcome).Inc()
	if outcome != "success" {
		return
	}
	PredictionDuration.WithLabelValues(backend).Observe(duration.Seconds())
	PredictedPrice.Observe(price)
}

// SetModelLoaded marks backend as the only active backend.
func SetModelLoaded(backend string, backends ...string) {
	for _, b := range backends {
		ModelLoaded.WithLabelValues(b).Set(0)
	}
	ModelLoaded.WithLabelValues(backend).Set(1)
}

// RecordModelReload counts a reload attempt.
func RecordModelReload(err error) {
	if err != nil {
		ModelReloads.WithLabelValues("failure").Inc()
		return
	}
	ModelReloads.WithLabelValues("success").Inc()
}

// RecordDatasetFetch records a fetch of the preview dataset.
func RecordDatasetFetch(source string, duration time.Duration, err error) {
	DatasetFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		DatasetFetchErrors.WithLabelValues(source).Inc()
	}
}

// RecordDashboardQuery records a DuckDB query issued by the dashboard.
func RecordDashboardQuery(operation string, duration time.Duration, err error) {
	DashboardQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DashboardQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordChartRender counts a chart render.
func RecordChartRender(chart string, err error) {
	if err != nil {
		ChartRenders.WithLabelValues(chart, "failure").Inc()
		return
	}
	ChartRenders.WithLabelValues(chart, "success").Inc()
}

// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/getaround/internal/models"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

// HealthInfo describes a dependency without affecting readiness.
type HealthInfo func() string

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	start  time.Time
	checks map[string]HealthCheck
	info   map[string]HealthInfo
}

// NewHealthHandler creates a handler with the given readiness checks.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{start: time.Now(), checks: checks, info: make(map[string]HealthInfo)}
}

// WithInfo adds a value reported under "info" by the readiness probe. Empty
// values are left out. Call it before serving.
func (h *HealthHandler) WithInfo(name string, fn HealthInfo) *HealthHandler {
	h.info[name] = fn
	return h
}

// Live godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /health/live [get]
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(models.HealthStatus{
		Status:  "alive",
		Version: Version,
		Uptime:  time.Since(h.start).Seconds(),
	})
}

// Ready godoc
// @Summary Readiness probe
// @Description Reports each dependency; 503 until all are ready.
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /health/ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := models.HealthStatus{
		Status:     "ready",
		Version:    Version,
		Uptime:     time.Since(h.start).Seconds(),
		Components: make(map[string]string, len(names)),
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			status.Components[name] = err.Error()
			status.Status = "not_ready"
			continue
		}
		status.Components[name] = "ok"
	}
	for name, fn := range h.info {
		if v := fn(); v != "" {
			if status.Info == nil {
				status.Info = make(map[string]string, len(h.info))
			}
			status.Info[name] = v
		}
	}

	if status.Status != "ready" {
		WriteJSON(w, http.StatusServiceUnavailable, models.APIResponse{
			Status:   "error",
			Data:     status,
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    &models.APIError{Code: ErrCodeServiceUnavailable, Message: "Service not ready"},
		})
		return
	}
	NewResponseWriter(w, r).Success(status)
}

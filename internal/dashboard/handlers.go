// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package dashboard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/getaround/internal/api"
	"github.com/tomtom215/getaround/internal/logging"
	"github.com/tomtom215/getaround/internal/middleware"
)

// Handler serves the dashboard page, its charts and their data.
type Handler struct {
	svc *Service
}

// NewHandler returns a Handler backed by svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// NewRouter wires the dashboard server.
//
//	GET /                   HTML page
//	GET /charts/{id}.svg    chart image
//	GET /api/v1/charts      every chart histogram
//	GET /api/v1/charts/{id} one chart histogram
//	GET /api/v1/views       row count per view
func NewRouter(h *Handler, mw *api.ChiMiddleware, health *api.HealthHandler) http.Handler {
	r := api.NewBaseRouter(mw, health)

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(api.APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", h.Page)
		r.Get("/charts/{id}.svg", h.ChartSVG)
		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/charts", h.ListCharts)
			r.Get("/charts/{id}", h.GetChart)
			r.Get("/views", h.Views)
		})
	})
	return r
}

// Page renders the dashboard.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	body, err := RenderPage(h.svc.Page(r.Context()))
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Page render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// ChartSVG serves one chart as image/svg+xml.
func (h *Handler) ChartSVG(w http.ResponseWriter, r *http.Request) {
	rw := api.NewResponseWriter(w, r)
	id, ok := chartID(r)
	if !ok {
		rw.NotFound("Chart not found")
		return
	}
	svg, err := h.svc.SVG(r.Context(), id)
	if err != nil {
		h.writeError(rw, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// ListCharts returns every chart histogram.
func (h *Handler) ListCharts(w http.ResponseWriter, r *http.Request) {
	rw := api.NewResponseWriter(w, r)
	charts, err := h.svc.Charts(r.Context())
	if err != nil {
		h.writeError(rw, err)
		return
	}
	rw.Success(charts)
}

// GetChart returns one chart histogram.
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	rw := api.NewResponseWriter(w, r)
	id, ok := chartID(r)
	if !ok {
		rw.BadRequest("Chart id must be an integer")
		return
	}
	info, cached, err := h.svc.Chart(r.Context(), id)
	if err != nil {
		h.writeError(rw, err)
		return
	}
	rw.SuccessCached(info, cached)
}

// Views returns the row count of every filtered view.
func (h *Handler) Views(w http.ResponseWriter, r *http.Request) {
	rw := api.NewResponseWriter(w, r)
	views, err := h.svc.Views(r.Context())
	if err != nil {
		h.writeError(rw, err)
		return
	}
	rw.Success(views)
}

func (h *Handler) writeError(rw *api.ResponseWriter, err error) {
	if errors.Is(err, ErrUnknownChart) {
		rw.NotFound("Chart not found")
		return
	}
	rw.QueryError(err)
}

func chartID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

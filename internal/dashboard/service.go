// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/getaround/internal/cache"
	"github.com/tomtom215/getaround/internal/config"
	"github.com/tomtom215/getaround/internal/logging"
	"github.com/tomtom215/getaround/internal/models"
)

// ErrUnknownChart is returned for a chart id outside Charts.
var ErrUnknownChart = errors.New("dashboard: unknown chart")

// Store is the query side of the rentals table.
type Store interface {
	Histogram(ctx context.Context, view, column string, order []string) (*models.Histogram, error)
	ViewCounts(ctx context.Context) ([]models.ViewCount, error)
	Head(ctx context.Context, n int) (*models.PreviewTable, error)
	Ping(ctx context.Context) error
}

// Service computes dashboard charts and keeps them in TTL caches.
type Service struct {
	store       Store
	width       int
	height      int
	previewRows int

	charts *cache.Cache[*models.ChartInfo]
	svgs   *cache.Cache[[]byte]
	tables *cache.Cache[*models.PreviewTable]
}

// NewService wires a Service to store. Close releases the caches.
func NewService(store Store, cfg config.DashboardConfig) *Service {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{
		store:       store,
		width:       cfg.ChartWidth,
		height:      cfg.ChartHeight,
		previewRows: cfg.PreviewRows,
		charts:      cache.New[*models.ChartInfo]("dashboard_charts", ttl),
		svgs:        cache.New[[]byte]("dashboard_svg", ttl),
		tables:      cache.New[*models.PreviewTable]("dashboard_preview", ttl),
	}
}

// Close stops the cache sweepers.
func (s *Service) Close() {
	s.charts.Close()
	s.svgs.Close()
	s.tables.Close()
}

// CacheInfo summarizes the chart cache for the readiness probe.
func (s *Service) CacheInfo() string {
	st := s.charts.GetStats()
	return fmt.Sprintf("keys=%d hits=%d misses=%d hit_rate=%.1f%%",
		st.Keys, st.Hits, st.Misses, s.charts.HitRate())
}

// Chart returns the histogram behind chart id. cached reports whether it
// came from the cache.
func (s *Service) Chart(ctx context.Context, id int) (info *models.ChartInfo, cached bool, err error) {
	c, ok := LookupChart(id)
	if !ok {
		return nil, false, fmt.Errorf("%w: %d", ErrUnknownChart, id)
	}
	key := chartKey(id)
	if v, hit := s.charts.Get(key); hit {
		return v, true, nil
	}

	h, err := s.store.Histogram(ctx, c.View, c.Column, c.Order)
	if err != nil {
		return nil, false, err
	}
	info = &models.ChartInfo{
		ID:        c.ID,
		Title:     c.Title,
		Comment:   strings.Join(c.Notes, "\n"),
		Histogram: *h,
	}
	s.charts.Set(key, info)
	return info, false, nil
}

// Charts returns every chart in page order.
func (s *Service) Charts(ctx context.Context) ([]*models.ChartInfo, error) {
	out := make([]*models.ChartInfo, 0, len(Charts))
	for _, c := range Charts {
		info, _, err := s.Chart(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

// SVG returns chart id rendered as SVG.
func (s *Service) SVG(ctx context.Context, id int) ([]byte, error) {
	return s.svgs.GetOrLoad(chartKey(id), func() ([]byte, error) {
		info, _, err := s.Chart(ctx, id)
		if err != nil {
			return nil, err
		}
		return RenderSVG(info, s.width, s.height)
	})
}

// Preview returns the first rows of the rentals table.
func (s *Service) Preview(ctx context.Context) (*models.PreviewTable, error) {
	return s.tables.GetOrLoad("head", func() (*models.PreviewTable, error) {
		return s.store.Head(ctx, s.previewRows)
	})
}

// Views returns the row count of every view.
func (s *Service) Views(ctx context.Context) ([]models.ViewCount, error) {
	return s.store.ViewCounts(ctx)
}

// Ready reports whether the rentals table can be queried.
func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Warm computes and renders every chart so the first page load is fast.
// Failures are logged and left for the request path to report.
func (s *Service) Warm(ctx context.Context) {
	for _, c := range Charts {
		if _, err := s.SVG(ctx, c.ID); err != nil {
			logging.Warn().Err(err).Int("chart", c.ID).Msg("Chart warm-up failed")
		}
	}
}

func chartKey(id int) string {
	return "chart:" + strconv.Itoa(id)
}

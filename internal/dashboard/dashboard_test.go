// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/getaround/internal/api"
	"github.com/tomtom215/getaround/internal/config"
	"github.com/tomtom215/getaround/internal/models"
)

type fakeStore struct {
	mu         sync.Mutex
	histCalls  int
	headCalls  int
	err        error
	emptyViews map[string]bool
}

func (f *fakeStore) Histogram(_ context.Context, view, column string, order []string) (*models.Histogram, error) {
	f.mu.Lock()
	f.histCalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	h := &models.Histogram{View: view, Column: column, Buckets: []models.HistogramBucket{}}
	if f.emptyViews[view] {
		return h, nil
	}
	labels := order
	if len(labels) == 0 {
		labels = []string{"Yes", "No"}
	}
	for _, l := range labels {
		h.Buckets = append(h.Buckets, models.HistogramBucket{Label: l, Count: 1})
	}
	h.Total = int64(len(labels))
	for i := range h.Buckets {
		h.Buckets[i].Percent = 100 / float64(len(labels))
	}
	return h, nil
}

func (f *fakeStore) ViewCounts(context.Context) ([]models.ViewCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.ViewCount{{View: "all", Description: "All rentals", Rows: 8}}, nil
}

func (f *fakeStore) Head(_ context.Context, n int) (*models.PreviewTable, error) {
	f.mu.Lock()
	f.headCalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &models.PreviewTable{
		Columns: []string{"rental_id", "checkin_type"},
		Rows:    [][]string{{"505000", "mobile"}, {"507750", "<connect>"}},
	}, nil
}

func (f *fakeStore) Ping(context.Context) error { return f.err }

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	svc := NewService(store, config.DashboardConfig{
		CacheTTL:    time.Minute,
		ChartWidth:  640,
		ChartHeight: 400,
		PreviewRows: 10,
	})
	t.Cleanup(svc.Close)
	return svc
}

func newTestRouter(t *testing.T, store Store) http.Handler {
	t.Helper()
	svc := newTestService(t, store)
	mw := api.NewChiMiddleware(api.MiddlewareConfigFrom(config.SecurityConfig{
		CORSOrigins:       []string{"*"},
		RateLimitDisabled: true,
	}))
	health := api.NewHealthHandler(map[string]api.HealthCheck{"rentals": svc.Ready})
	return NewRouter(NewHandler(svc), mw, health)
}

func TestChartDefinitions(t *testing.T) {
	t.Parallel()

	if len(Charts) != 10 {
		t.Fatalf("len(Charts) = %d, want 10", len(Charts))
	}
	for i, c := range Charts {
		if c.ID != i+1 {
			t.Errorf("Charts[%d].ID = %d", i, c.ID)
		}
		if c.View == "" || c.Column == "" || c.Title == "" || len(c.Notes) == 0 {
			t.Errorf("chart %d is incomplete: %+v", c.ID, c)
		}
		if _, ok := LookupChart(c.ID); !ok {
			t.Errorf("LookupChart(%d) failed", c.ID)
		}
	}
	if _, ok := LookupChart(11); ok {
		t.Error("LookupChart(11) should fail")
	}
	if got := len(chartsFor(1)); got != 1 {
		t.Errorf("question 1 charts = %d, want 1", got)
	}
	if got := len(chartsFor(2)); got != 9 {
		t.Errorf("question 2 charts = %d, want 9", got)
	}
	if Questions[2].Anchor() != "question-3" {
		t.Errorf("Anchor = %q", Questions[2].Anchor())
	}
}

func TestServiceChartCaching(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	svc := newTestService(t, store)
	ctx := context.Background()

	info, cached, err := svc.Chart(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if cached {
		t.Error("first load reported cached")
	}
	if info.Histogram.View != "F2" || info.Histogram.Column != "delay_types" {
		t.Errorf("chart 3 = %s/%s", info.Histogram.View, info.Histogram.Column)
	}
	if info.Histogram.Buckets[0].Label != "No_delay" {
		t.Errorf("first bucket = %q", info.Histogram.Buckets[0].Label)
	}

	_, cached, err = svc.Chart(ctx, 3)
	if err != nil || !cached {
		t.Errorf("second load cached = %v, err = %v", cached, err)
	}
	if store.histCalls != 1 {
		t.Errorf("store called %d times, want 1", store.histCalls)
	}

	if got := svc.CacheInfo(); !strings.Contains(got, "keys=1 hits=1 misses=1") {
		t.Errorf("CacheInfo = %q", got)
	}

	if _, _, err := svc.Chart(ctx, 42); !errors.Is(err, ErrUnknownChart) {
		t.Errorf("err = %v, want ErrUnknownChart", err)
	}
}

func TestServiceCharts(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &fakeStore{})
	charts, err := svc.Charts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(charts) != len(Charts) {
		t.Fatalf("len = %d", len(charts))
	}
	if !strings.Contains(charts[3].Comment, "31 %") {
		t.Errorf("comment of chart 4 = %q", charts[3].Comment)
	}

	failing := newTestService(t, &fakeStore{err: errors.New("db closed")})
	if _, err := failing.Charts(context.Background()); err == nil {
		t.Error("expected store error")
	}
}

func TestRenderSVG(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		buckets []models.HistogramBucket
	}{
		{"bars", []models.HistogramBucket{{Label: "Yes", Count: 56, Percent: 56}, {Label: "No", Count: 44, Percent: 44}}},
		{"empty", []models.HistogramBucket{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			info := &models.ChartInfo{ID: 1, Title: "Graph 1", Histogram: models.Histogram{Buckets: tt.buckets}}
			svg, err := RenderSVG(info, 0, 0)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(svg), "<svg") {
				t.Errorf("output is not SVG: %.80s", svg)
			}
		})
	}
}

func TestBarLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		width, n int
	}{
		{640, 1}, {640, 2}, {640, 8}, {320, 40}, {320, 0},
	}
	for _, tt := range tests {
		w, s := barLayout(tt.width, tt.n)
		if w <= 0 || s <= 0 || w > maxBarWidth {
			t.Errorf("barLayout(%d, %d) = %d, %d", tt.width, tt.n, w, s)
		}
	}
}

func TestPageRendering(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	router := newTestRouter(t, store)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("Content-Type = %q", ct)
		}
		body := rec.Body.String()
		for _, want := range []string{
			pageTitle,
			`href="#question-5"`,
			`src="/charts/10.svg"`,
			"505000",
			"&lt;connect&gt;",
			"Minimum canceling would be 24h before the time rental.",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("page missing %q", want)
			}
		}
	}
	if store.headCalls != 1 {
		t.Errorf("preview queried %d times, want 1", store.headCalls)
	}
}

func TestPagePreviewFailure(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeStore{err: errors.New("db closed")})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "The data preview is unavailable.") {
		t.Error("missing preview error")
	}
}

func TestDashboardRoutes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeStore{emptyViews: map[string]bool{"F5": true}})

	tests := []struct {
		path        string
		wantStatus  int
		contentType string
	}{
		{"/charts/1.svg", http.StatusOK, "image/svg+xml"},
		{"/charts/10.svg", http.StatusOK, "image/svg+xml"},
		{"/charts/99.svg", http.StatusNotFound, "application/json; charset=utf-8"},
		{"/charts/abc.svg", http.StatusNotFound, "application/json; charset=utf-8"},
		{"/api/v1/charts", http.StatusOK, "application/json; charset=utf-8"},
		{"/api/v1/charts/2", http.StatusOK, "application/json; charset=utf-8"},
		{"/api/v1/charts/x", http.StatusBadRequest, "application/json; charset=utf-8"},
		{"/api/v1/charts/0", http.StatusNotFound, "application/json; charset=utf-8"},
		{"/api/v1/views", http.StatusOK, "application/json; charset=utf-8"},
		{"/health/ready", http.StatusOK, "application/json; charset=utf-8"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.wantStatus {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.wantStatus)
		}
		if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
			t.Errorf("GET %s Content-Type = %q, want %q", tt.path, ct, tt.contentType)
		}
	}
}

func TestGetChartJSON(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeStore{})
	get := func() models.APIResponse {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/charts/2", nil))
		var resp models.APIResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		return resp
	}

	first := get()
	if first.Status != "success" || first.Metadata.Cached {
		t.Errorf("first = %+v", first)
	}
	data, ok := first.Data.(map[string]any)
	if !ok || data["title"] != Charts[1].Title {
		t.Errorf("data = %v", first.Data)
	}
	if second := get(); !second.Metadata.Cached {
		t.Error("second response not marked cached")
	}
}

func TestStoreErrorsAreHidden(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeStore{err: errors.New("IO Error: secret path")})
	for _, path := range []string{"/api/v1/charts/1", "/api/v1/views", "/charts/2.svg"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("GET %s = %d, want 500", path, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "secret") {
			t.Errorf("GET %s leaks the store error", path)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready = %d, want 503", rec.Code)
	}
}

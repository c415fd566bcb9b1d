// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	t.Parallel()

	c := APIRequestsTotal.WithLabelValues("GET", "/metrics-test", "200")
	before := testutil.ToFloat64(c)
	RecordAPIRequest("GET", "/metrics-test", "200", 15*time.Millisecond)
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", got)
	}
}

func TestRecordPrediction(t *testing.T) {
	t.Parallel()

	ok := PredictionsTotal.WithLabelValues("metrics-test", "success")
	bad := PredictionsTotal.WithLabelValues("metrics-test", "invalid")
	okBefore, badBefore := testutil.ToFloat64(ok), testutil.ToFloat64(bad)

	RecordPrediction("metrics-test", "success", time.Millisecond, 121.5)
	RecordPrediction("metrics-test", "invalid", 0, 0)

	if got := testutil.ToFloat64(ok) - okBefore; got != 1 {
		t.Errorf("success delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(bad) - badBefore; got != 1 {
		t.Errorf("invalid delta = %v, want 1", got)
	}
}

func TestSetModelLoaded(t *testing.T) {
	t.Parallel()

	SetModelLoaded("test-a", "test-a", "test-b")
	SetModelLoaded("test-b", "test-a", "test-b")

	if got := testutil.ToFloat64(ModelLoaded.WithLabelValues("test-a")); got != 0 {
		t.Errorf("test-a = %v, want 0", got)
	}
	if got := testutil.ToFloat64(ModelLoaded.WithLabelValues("test-b")); got != 1 {
		t.Errorf("test-b = %v, want 1", got)
	}
}

func TestRecordErrors(t *testing.T) {
	t.Parallel()

	fetchErr := DatasetFetchErrors.WithLabelValues("metrics-test")
	queryErr := DashboardQueryErrors.WithLabelValues("metrics-test")
	renderErr := ChartRenders.WithLabelValues("metrics-test", "failure")
	f0, q0, r0 := testutil.ToFloat64(fetchErr), testutil.ToFloat64(queryErr), testutil.ToFloat64(renderErr)

	boom := errors.New("boom")
	RecordDatasetFetch("metrics-test", time.Second, boom)
	RecordDatasetFetch("metrics-test", time.Second, nil)
	RecordDashboardQuery("metrics-test", time.Millisecond, boom)
	RecordChartRender("metrics-test", boom)

	if got := testutil.ToFloat64(fetchErr) - f0; got != 1 {
		t.Errorf("fetch errors delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(queryErr) - q0; got != 1 {
		t.Errorf("query errors delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(renderErr) - r0; got != 1 {
		t.Errorf("render failures delta = %v, want 1", got)
	}
}

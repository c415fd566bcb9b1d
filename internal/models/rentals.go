// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package models

// HistogramBucket is one bar of a percent histogram.
type HistogramBucket struct {
	Label   string  `json:"label"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

// Histogram is the distribution of one column over one filtered view of the
// rentals. Percentages are relative to the non-null values and sum to 100
// unless the view is empty.
type Histogram struct {
	View    string            `json:"view"`
	Column  string            `json:"column"`
	Total   int64             `json:"total"`
	Buckets []HistogramBucket `json:"buckets"`
}

// ViewCount reports how many rentals a view selects.
type ViewCount struct {
	View        string `json:"view"`
	Description string `json:"description"`
	Rows        int64  `json:"rows"`
}

// PreviewTable is the head of the rentals table as shown on the dashboard.
type PreviewTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ChartInfo describes one dashboard chart.
type ChartInfo struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment,omitempty"`
	Histogram Histogram `json:"histogram"`
}

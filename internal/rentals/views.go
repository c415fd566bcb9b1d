// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package rentals

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/getaround/internal/metrics"
	"github.com/tomtom215/getaround/internal/models"
)

// View is a named row filter over the rentals table.
type View struct {
	Name        string
	Description string
	where       string
}

const (
	whereF1 = `previous_rental = 'Yes'`
	whereF2 = whereF1 + ` AND is_delay = 'Yes'`
)

// Views lists the filters the dashboard is built from, in display order.
var Views = []View{
	{"all", "All rentals", `TRUE`},
	{"F1", "Rentals with a previous rental", whereF1},
	{"F2", "Late returns of the previous rental", whereF2},
	{"F3", "Late returns followed by a cancellation", whereF2 + ` AND state = 'canceled'`},
	{"F4", "Late returns followed by an ended rental", whereF2 + ` AND state = 'ended'`},
	{"F5", "Canceled rentals", `state = 'canceled'`},
	{"F6", "Canceled rentals with a previous rental", whereF1 + ` AND state = 'canceled'`},
	{"F7", "Rentals delayed by less than 3 hours", `delay_types IN ('No_delay', 'Less than an hours', '1h to 3h')`},
}

// LookupView returns the view called name.
func LookupView(name string) (View, error) {
	for _, v := range Views {
		if v.Name == name {
			return v, nil
		}
	}
	return View{}, fmt.Errorf("%w: %q", ErrUnknownView, name)
}

// Histogram returns the percent distribution of column over view. Labels in
// order come first when present; the rest follow in order of first
// appearance in the file. Nulls are not counted.
func (s *Store) Histogram(ctx context.Context, view, column string, order []string) (*models.Histogram, error) {
	v, err := LookupView(view)
	if err != nil {
		return nil, err
	}
	if !s.hasColumn(column) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	col := sqlIdent(column)
	query := fmt.Sprintf(`SELECT %s AS label, count(*) AS n, min(rowid) AS first
		FROM %s WHERE (%s) AND %s IS NOT NULL GROUP BY 1`,
		col, tableName, v.where, col)

	start := time.Now()
	found, err := queryAndScan(ctx, s.conn, query, nil, func(rows *sql.Rows) (rankedBucket, error) {
		var b rankedBucket
		err := rows.Scan(&b.Label, &b.Count, &b.first)
		return b, err
	})
	metrics.RecordDashboardQuery("histogram", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("histogram %s/%s: %w", view, column, err)
	}
	sortBuckets(found, order)

	var total int64
	for _, b := range found {
		total += b.Count
	}
	buckets := make([]models.HistogramBucket, len(found))
	for i, b := range found {
		buckets[i] = b.HistogramBucket
		buckets[i].Percent = float64(b.Count) * 100 / float64(total)
	}
	return &models.Histogram{View: v.Name, Column: column, Total: total, Buckets: buckets}, nil
}

// rankedBucket carries the rowid of the first row with the label.
type rankedBucket struct {
	models.HistogramBucket
	first int64
}

func sortBuckets(buckets []rankedBucket, order []string) {
	rank := make(map[string]int, len(order))
	for i, label := range order {
		if _, dup := rank[label]; !dup {
			rank[label] = i
		}
	}
	slices.SortFunc(buckets, func(a, b rankedBucket) int {
		ra, okA := rank[a.Label]
		rb, okB := rank[b.Label]
		switch {
		case okA && okB:
			return cmp.Compare(ra, rb)
		case okA:
			return -1
		case okB:
			return 1
		}
		return cmp.Compare(a.first, b.first)
	})
}

// ViewCounts returns the number of rentals selected by each view.
func (s *Store) ViewCounts(ctx context.Context) ([]models.ViewCount, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	counts := make([]models.ViewCount, 0, len(Views))
	for _, v := range Views {
		var n int64
		err := s.conn.QueryRowContext(ctx, fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s`, tableName, v.where)).Scan(&n)
		if err != nil {
			metrics.RecordDashboardQuery("view_counts", time.Since(start), err)
			return nil, fmt.Errorf("count view %s: %w", v.Name, err)
		}
		counts = append(counts, models.ViewCount{View: v.Name, Description: v.Description, Rows: n})
	}
	metrics.RecordDashboardQuery("view_counts", time.Since(start), nil)
	return counts, nil
}

// Head returns the first n rows in file order. Nulls render as "".
func (s *Store) Head(ctx context.Context, n int) (*models.PreviewTable, error) {
	if n < 0 {
		n = 0
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	cols := make([]string, len(s.columns))
	for i, c := range s.columns {
		cols[i] = sqlIdent(c)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY rowid LIMIT ?`, strings.Join(cols, ", "), tableName)

	start := time.Now()
	rows, err := queryAndScan(ctx, s.conn, query, []any{n}, func(rows *sql.Rows) ([]string, error) {
		vals := make([]sql.NullString, len(s.columns))
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = v.String
		}
		return out, nil
	})
	metrics.RecordDashboardQuery("head", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}
	if rows == nil {
		rows = [][]string{}
	}
	return &models.PreviewTable{Columns: s.Columns(), Rows: rows}, nil
}

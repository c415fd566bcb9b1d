// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

// Package rentals loads the historical rentals CSV into an in-memory DuckDB
// table and answers the dashboard's distribution queries over filtered views.
//
// The table is read once at startup. Every column is kept as text so the
// bucket labels (delay_types, time_delta, ...) come back exactly as written.
package rentals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver

	"github.com/tomtom215/getaround/internal/logging"
	"github.com/tomtom215/getaround/internal/metrics"
)

const tableName = "rentals"

// RequiredColumns are referenced by the views and the dashboard charts.
var RequiredColumns = []string{
	"previous_rental",
	"is_delay",
	"state",
	"delay_types",
	"time_delta",
	"checkin_type",
}

var (
	// ErrUnknownView is returned for a view name not in Views.
	ErrUnknownView = errors.New("rentals: unknown view")

	// ErrUnknownColumn is returned for a column not in the loaded file.
	ErrUnknownColumn = errors.New("rentals: unknown column")

	// ErrMissingColumns means the CSV lacks a column in RequiredColumns.
	ErrMissingColumns = errors.New("rentals: missing required columns")
)

// Store is a read-only rentals table. Safe for concurrent use.
type Store struct {
	conn    *sql.DB
	path    string
	columns []string
	rows    int64
}

// Open loads the CSV at path into a fresh in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{conn: conn, path: path}
	if err := s.load(ctx); err != nil {
		closeQuietly(conn)
		return nil, err
	}

	logging.Info().
		Str("path", path).
		Int64("rows", s.rows).
		Int("columns", len(s.columns)).
		Msg("Rentals dataset loaded")
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	start := time.Now()
	query := fmt.Sprintf(`CREATE TABLE %s AS
		SELECT * FROM read_csv_auto(%s,
			header = true,
			all_varchar = true,
			nullstr = ['', 'NA', 'N/A', 'NaN', 'nan', 'null', 'NULL', '<NA>'])`,
		tableName, sqlString(s.path))
	_, err := s.conn.ExecContext(ctx, query)
	metrics.RecordDashboardQuery("load", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", s.path, err)
	}

	s.columns, err = queryAndScan(ctx, s.conn,
		`SELECT column_name FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position`,
		[]any{tableName},
		func(rows *sql.Rows) (string, error) {
			var name string
			err := rows.Scan(&name)
			return name, err
		})
	if err != nil {
		return fmt.Errorf("failed to list columns: %w", err)
	}

	var missing []string
	for _, c := range RequiredColumns {
		if !slices.Contains(s.columns, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	if err := s.conn.QueryRowContext(ctx, "SELECT count(*) FROM "+tableName).Scan(&s.rows); err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	s.conn.SetMaxIdleConns(0)
	return s.conn.Close()
}

// Columns returns the column names in file order.
func (s *Store) Columns() []string { return slices.Clone(s.columns) }

// Len returns the number of loaded rentals.
func (s *Store) Len() int64 { return s.rows }

// Ping checks the database is usable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	return s.conn.PingContext(ctx)
}

func (s *Store) hasColumn(name string) bool {
	return slices.Contains(s.columns, name)
}

// ensureContext bounds queries issued without a deadline.
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 30*time.Second)
}

type scanFunc[T any] func(*sql.Rows) (T, error)

// queryAndScan runs query and scans every row with scan.
func queryAndScan[T any](ctx context.Context, db *sql.DB, query string, args []any, scan scanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

// sqlString quotes s as a SQL string literal.
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// sqlIdent quotes s as a SQL identifier.
func sqlIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func closeQuietly(c interface{ Close() error }) {
	if c != nil {
		_ = c.Close()
	}
}

// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

// Package dataset fetches the public pricing CSV, types its columns and
// draws random samples of rows for the preview endpoint.
package dataset

import (
	"bytes"
	"fmt"
	"math/rand/v2"

	"github.com/goccy/go-json"
)

// ColumnType is the inferred type of a CSV column.
type ColumnType int

const (
	TypeInt ColumnType = iota
	TypeFloat
	TypeBool
	TypeString
)

func (t ColumnType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return "string"
	}
}

// Frame is a parsed CSV: column names, their inferred types and typed rows.
// Cell values are nil, int64, float64, bool or string.
type Frame struct {
	Columns []string
	Types   []ColumnType
	Rows    [][]any
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Record returns row i as a Record sharing the frame's column slice.
func (f *Frame) Record(i int) Record {
	return Record{columns: f.Columns, values: f.Rows[i]}
}

// Sample draws n distinct rows uniformly at random, in random order.
// n must be between 0 and Len.
func (f *Frame) Sample(n int, rng *rand.Rand) ([]Record, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRows, n)
	}
	if n > f.Len() {
		return nil, fmt.Errorf("%w: asked for %d rows, dataset has %d", ErrNotEnoughRows, n, f.Len())
	}

	// Partial Fisher-Yates over row indexes.
	idx := make([]int, f.Len())
	for i := range idx {
		idx[i] = i
	}
	out := make([]Record, n)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = f.Record(idx[i])
	}
	return out, nil
}

// Record is one row keyed by column name. It marshals to a JSON object whose
// keys keep the CSV column order.
type Record struct {
	columns []string
	values  []any
}

// Get returns the value of column name.
func (r Record) Get(name string) (any, bool) {
	for i, c := range r.columns {
		if c == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// Columns returns the column names in order.
func (r Record) Columns() []string {
	return r.columns
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ParseCSV reads a header row and data rows, names unnamed or duplicate
// columns like pandas ("Unnamed: 0", "price.1") and infers one type per
// column: int, then float, then True/False bool, else string. Empty and NA
// cells become nil and do not affect inference.
func ParseCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var raw [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(raw)+1, err)
		}
		raw = append(raw, rec)
	}

	f := &Frame{
		Columns: columnNames(header),
		Types:   make([]ColumnType, len(header)),
		Rows:    make([][]any, len(raw)),
	}
	for c := range f.Columns {
		f.Types[c] = inferType(raw, c)
	}
	for i, rec := range raw {
		row := make([]any, len(rec))
		for c, cell := range rec {
			row[c] = convert(cell, f.Types[c])
		}
		f.Rows[i] = row
	}
	return f, nil
}

func columnNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

func inferType(rows [][]string, col int) ColumnType {
	isInt, isFloat, isBool := true, true, true
	nonEmpty := 0
	for _, rec := range rows {
		cell := rec[col]
		if isMissing(cell) {
			continue
		}
		nonEmpty++
		if isInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := parseBool(cell); !ok {
				isBool = false
			}
		}
		if !isInt && !isFloat && !isBool {
			return TypeString
		}
	}
	switch {
	case nonEmpty == 0:
		return TypeString
	case isInt:
		return TypeInt
	case isFloat:
		return TypeFloat
	case isBool:
		return TypeBool
	default:
		return TypeString
	}
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}

// missingValues are read as nil, like pandas' default NA markers.
var missingValues = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "NaN": {}, "nan": {}, "null": {}, "NULL": {}, "<NA>": {},
}

func isMissing(cell string) bool {
	_, ok := missingValues[cell]
	return ok
}

func convert(cell string, t ColumnType) any {
	if isMissing(cell) {
		return nil
	}
	switch t {
	case TypeInt:
		v, _ := strconv.ParseInt(cell, 10, 64)
		return v
	case TypeFloat:
		v, _ := strconv.ParseFloat(cell, 64)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil
		}
		return v
	case TypeBool:
		v, _ := parseBool(cell)
		return v
	default:
		return cell
	}
}

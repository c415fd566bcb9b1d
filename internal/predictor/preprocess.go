// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package predictor

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Step kinds understood by Preprocessor.
const (
	StepStandard    = "standard"
	StepOneHot      = "onehot"
	StepPassthrough = "passthrough"
)

// Step transforms a group of columns. Fields not used by a kind are ignored.
//
//	{"kind": "standard", "columns": ["mileage"], "mean": [140000], "scale": [60000]}
//	{"kind": "onehot", "columns": ["fuel"], "categories": [["diesel", "petrol"]], "drop_first": true}
//	{"kind": "passthrough", "columns": ["has_gps"]}
type Step struct {
	Kind       string     `json:"kind"`
	Columns    []string   `json:"columns"`
	Mean       []float64  `json:"mean,omitempty"`
	Scale      []float64  `json:"scale,omitempty"`
	Categories [][]string `json:"categories,omitempty"`
	DropFirst  bool       `json:"drop_first,omitempty"`
}

// Preprocessor is a column transformer exported as JSON. Outputs are
// concatenated in step order, like a fitted ColumnTransformer.
type Preprocessor struct {
	Steps []Step `json:"steps"`

	names []string
}

// LoadPreprocessor reads and checks a preprocessor file.
func LoadPreprocessor(path string) (*Preprocessor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preprocessor: %w", err)
	}
	return ParsePreprocessor(b)
}

// ParsePreprocessor decodes and checks a preprocessor document.
func ParsePreprocessor(b []byte) (*Preprocessor, error) {
	var p Preprocessor
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("%w: preprocessor: %w", ErrInvalidModel, err)
	}
	if len(p.Steps) == 0 {
		return nil, fmt.Errorf("%w: preprocessor has no steps", ErrInvalidModel)
	}
	for i, s := range p.Steps {
		if err := s.check(); err != nil {
			return nil, fmt.Errorf("%w: preprocessor step %d: %w", ErrInvalidModel, i, err)
		}
		p.names = append(p.names, s.outputNames()...)
	}
	return &p, nil
}

func (s Step) check() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("no columns")
	}
	switch s.Kind {
	case StepStandard:
		if len(s.Mean) != len(s.Columns) || len(s.Scale) != len(s.Columns) {
			return fmt.Errorf("mean and scale must have one entry per column")
		}
	case StepOneHot:
		if len(s.Categories) != len(s.Columns) {
			return fmt.Errorf("categories must have one list per column")
		}
	case StepPassthrough:
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
	return nil
}

func (s Step) outputNames() []string {
	if s.Kind != StepOneHot {
		return s.Columns
	}
	var names []string
	for i, col := range s.Columns {
		cats := s.Categories[i]
		if s.DropFirst && len(cats) > 0 {
			cats = cats[1:]
		}
		for _, c := range cats {
			names = append(names, col+"_"+c)
		}
	}
	return names
}

// FeatureNames lists the output columns in order.
func (p *Preprocessor) FeatureNames() []string {
	return p.names
}

// Vectorize implements Vectorizer.
func (p *Preprocessor) Vectorize(values map[string]any) ([]float64, error) {
	out := make([]float64, 0, len(p.names))
	for _, s := range p.Steps {
		for i, col := range s.Columns {
			v, ok := values[col]
			if !ok {
				return nil, fmt.Errorf("%w: column %q is not in the payload", ErrFeatureMismatch, col)
			}
			switch s.Kind {
			case StepStandard:
				f, err := toFloat(v)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: %w", ErrFeatureMismatch, col, err)
				}
				scale := s.Scale[i]
				if scale == 0 {
					scale = 1
				}
				out = append(out, (f-s.Mean[i])/scale)
			case StepOneHot:
				out = appendOneHot(out, v, s.Categories[i], s.DropFirst)
			case StepPassthrough:
				f, err := toFloat(v)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: %w", ErrFeatureMismatch, col, err)
				}
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// appendOneHot encodes v against cats. Unknown categories encode as all zeros.
func appendOneHot(out []float64, v any, cats []string, dropFirst bool) []float64 {
	label := fmt.Sprint(v)
	if b, ok := v.(bool); ok {
		// pandas writes booleans as True/False before fitting.
		label = "False"
		if b {
			label = "True"
		}
	}
	start := 0
	if dropFirst && len(cats) > 0 {
		start = 1
	}
	for _, c := range cats[start:] {
		if c == label {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}
	return out
}

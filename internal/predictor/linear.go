// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package predictor

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/mat"
)

// LinearModel is y = intercept + coefficients . x.
type LinearModel struct {
	intercept float64
	coef      *mat.VecDense
	names     []string
}

type linearDocument struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	FeatureNames []string  `json:"feature_names"`
}

// LoadLinear reads a linear model file.
func LoadLinear(path string) (*LinearModel, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return ParseLinear(b)
}

// ParseLinear decodes {"intercept": .., "coefficients": [..], "feature_names": [..]}.
// feature_names is optional but must match coefficients when present.
func ParseLinear(b []byte) (*LinearModel, error) {
	var doc linearDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	if len(doc.Coefficients) == 0 {
		return nil, fmt.Errorf("%w: no coefficients", ErrInvalidModel)
	}
	if len(doc.FeatureNames) > 0 && len(doc.FeatureNames) != len(doc.Coefficients) {
		return nil, fmt.Errorf("%w: %d feature names for %d coefficients",
			ErrInvalidModel, len(doc.FeatureNames), len(doc.Coefficients))
	}
	return &LinearModel{
		intercept: doc.Intercept,
		coef:      mat.NewVecDense(len(doc.Coefficients), doc.Coefficients),
		names:     doc.FeatureNames,
	}, nil
}

// NumFeatures implements Model.
func (m *LinearModel) NumFeatures() int { return m.coef.Len() }

// FeatureNames implements Model.
func (m *LinearModel) FeatureNames() []string { return m.names }

// PredictVector implements Model.
func (m *LinearModel) PredictVector(x []float64) (float64, error) {
	if len(x) != m.coef.Len() {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrFeatureMismatch, len(x), m.coef.Len())
	}
	return m.intercept + mat.Dot(m.coef, mat.NewVecDense(len(x), x)), nil
}

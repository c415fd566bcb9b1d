// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

// Package predictor turns a car listing into a daily rental price.
//
// Three backends are supported:
//   - xgboost: a gbtree model saved with Booster.save_model("model.json")
//   - linear: intercept plus coefficients exported as JSON
//   - joblib: a scikit-learn pipeline served by a supervised Python process
//
// The first two run in-process. Their input vector comes from an optional
// Preprocessor file, or directly from the payload when the model was trained
// on already numeric columns.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/tomtom215/getaround/internal/models"
)

var (
	// ErrNotReady is returned while no model is loaded.
	ErrNotReady = errors.New("predictor: model not ready")

	// ErrFeatureMismatch means the payload cannot be turned into the vector
	// the model expects.
	ErrFeatureMismatch = errors.New("predictor: feature mismatch")

	// ErrInvalidModel is returned for unreadable or unsupported model files.
	ErrInvalidModel = errors.New("predictor: invalid model")
)

// Predictor prices one listing.
type Predictor interface {
	Predict(ctx context.Context, f *models.PredictionFeatures) (float64, error)
	// Name is the backend name used in logs and metrics.
	Name() string
}

// Model is a numeric regression model evaluated in-process.
type Model interface {
	// NumFeatures is the expected input length.
	NumFeatures() int
	// FeatureNames may be nil when the model file does not record them.
	FeatureNames() []string
	PredictVector(x []float64) (float64, error)
}

// Vectorizer maps a payload to a model input.
type Vectorizer interface {
	Vectorize(values map[string]any) ([]float64, error)
}

// Pipeline chains a Vectorizer and a Model.
type Pipeline struct {
	backend string
	vec     Vectorizer
	model   Model
}

// NewPipeline builds a pipeline. A nil vectorizer reads the model's feature
// names straight from the payload.
func NewPipeline(backend string, vec Vectorizer, model Model) (*Pipeline, error) {
	if vec == nil {
		names := model.FeatureNames()
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: model has no feature names and no preprocessor is configured", ErrInvalidModel)
		}
		vec = RawVectorizer(names)
	}
	return &Pipeline{backend: backend, vec: vec, model: model}, nil
}

// Name implements Predictor.
func (p *Pipeline) Name() string { return p.backend }

// Predict implements Predictor.
func (p *Pipeline) Predict(ctx context.Context, f *models.PredictionFeatures) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	x, err := p.vec.Vectorize(f.Map())
	if err != nil {
		return 0, err
	}
	if n := p.model.NumFeatures(); n > 0 && len(x) != n {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrFeatureMismatch, len(x), n)
	}
	y, err := p.model.PredictVector(x)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("predictor: non-finite prediction %v", y)
	}
	return y, nil
}

// RawVectorizer reads the named columns from the payload. Booleans become
// 0 or 1 and numbers pass through; strings cannot be fed to a numeric model.
type RawVectorizer []string

// Vectorize implements Vectorizer.
func (r RawVectorizer) Vectorize(values map[string]any) ([]float64, error) {
	x := make([]float64, len(r))
	for i, name := range r {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("%w: model feature %q is not in the payload", ErrFeatureMismatch, name)
		}
		f, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFeatureMismatch, name, err)
		}
		x[i] = f
	}
	return x, nil
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case nil:
		return math.NaN(), nil
	default:
		return 0, fmt.Errorf("non-numeric value %v (%T)", v, v)
	}
}

// Round rounds v to digits decimals the way Python's round does: the exact
// binary value is rounded, and exact ties go to the even digit.
func Round(v float64, digits int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', digits, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package predictor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/getaround/internal/config"
	"github.com/tomtom215/getaround/internal/logging"
	"github.com/tomtom215/getaround/internal/metrics"
	"github.com/tomtom215/getaround/internal/models"
)

var allBackends = []string{config.BackendXGBoost, config.BackendLinear, config.BackendJoblib}

type loaded struct {
	p  Predictor
	at time.Time
}

// Registry owns the active predictor. Requests read it lock-free; Reload
// builds a replacement off to the side and swaps it in only on success, so a
// broken model file never takes down a working service.
type Registry struct {
	cfg    config.ModelConfig
	bridge *Bridge

	mu     sync.Mutex
	active atomic.Pointer[loaded]
}

// NewRegistry creates an empty registry. For the joblib backend it also
// creates the Bridge, which must be run under a supervisor.
func NewRegistry(cfg config.ModelConfig) *Registry {
	r := &Registry{cfg: cfg}
	if cfg.Backend == config.BackendJoblib {
		r.bridge = NewBridge(cfg)
	}
	return r
}

// Bridge returns the Python bridge, or nil for in-process backends.
func (r *Registry) Bridge() *Bridge { return r.bridge }

// Name implements Predictor.
func (r *Registry) Name() string { return r.cfg.Backend }

// Ready reports whether predictions can be served.
func (r *Registry) Ready() bool {
	l := r.active.Load()
	if l == nil {
		return false
	}
	if r.bridge != nil {
		return r.bridge.Ready()
	}
	return true
}

// LoadedAt returns when the active model was loaded, or the zero time.
func (r *Registry) LoadedAt() time.Time {
	if l := r.active.Load(); l != nil {
		return l.at
	}
	return time.Time{}
}

// Reload (re)builds the predictor from disk. On failure the previous model,
// if any, stays active.
func (r *Registry) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log := logging.Ctx(ctx)

	if r.bridge != nil {
		err := r.bridge.Check(ctx)
		metrics.RecordModelReload(err)
		if err != nil {
			log.Error().Err(err).Str("backend", r.cfg.Backend).Str("path", r.cfg.Path).Msg("Model check failed")
			return err
		}
		if r.active.Load() != nil {
			r.bridge.Restart()
		}
		r.active.Store(&loaded{p: r.bridge, at: time.Now()})
		metrics.SetModelLoaded(r.cfg.Backend, allBackends...)
		log.Info().Str("backend", r.cfg.Backend).Str("path", r.cfg.Path).Msg("Model loaded")
		return nil
	}

	p, err := Build(r.cfg)
	metrics.RecordModelReload(err)
	if err != nil {
		log.Error().Err(err).Str("backend", r.cfg.Backend).Str("path", r.cfg.Path).Msg("Model load failed")
		return err
	}
	r.active.Store(&loaded{p: p, at: time.Now()})
	metrics.SetModelLoaded(r.cfg.Backend, allBackends...)
	log.Info().Str("backend", r.cfg.Backend).Str("path", r.cfg.Path).Msg("Model loaded")
	return nil
}

// Build loads an in-process predictor described by cfg.
func Build(cfg config.ModelConfig) (*Pipeline, error) {
	var (
		model Model
		err   error
	)
	switch cfg.Backend {
	case config.BackendXGBoost:
		model, err = LoadXGBoost(cfg.Path)
	case config.BackendLinear:
		model, err = LoadLinear(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: backend %q does not run in-process", ErrInvalidModel, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	var vec Vectorizer
	if cfg.PreprocessorPath != "" {
		pre, err := LoadPreprocessor(cfg.PreprocessorPath)
		if err != nil {
			return nil, err
		}
		if n := model.NumFeatures(); n > 0 && len(pre.FeatureNames()) != n {
			return nil, fmt.Errorf("%w: preprocessor yields %d features, model expects %d",
				ErrFeatureMismatch, len(pre.FeatureNames()), n)
		}
		vec = pre
	}
	return NewPipeline(cfg.Backend, vec, model)
}

// Predict implements Predictor and records metrics for every call.
func (r *Registry) Predict(ctx context.Context, f *models.PredictionFeatures) (float64, error) {
	l := r.active.Load()
	if l == nil {
		metrics.RecordPrediction(r.cfg.Backend, "not_ready", 0, 0)
		return 0, ErrNotReady
	}
	start := time.Now()
	y, err := l.p.Predict(ctx, f)
	if err != nil {
		metrics.RecordPrediction(r.cfg.Backend, "failure", time.Since(start), 0)
		return 0, err
	}
	metrics.RecordPrediction(r.cfg.Backend, "success", time.Since(start), y)
	return y, nil
}

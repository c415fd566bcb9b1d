// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package dataset

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/tomtom215/getaround/internal/logging"
)

// Sampler serves random rows of the dataset. The CSV is fetched on every
// call so the preview always reflects the published file.
type Sampler struct {
	source  Source
	maxRows int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a sampler capped at maxRows per call. A nil rng is
// replaced by a randomly seeded PCG generator.
func NewSampler(src Source, maxRows int, rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // sampling, not security
	}
	return &Sampler{source: src, maxRows: maxRows, rng: rng}
}

// MaxRows returns the per-call cap.
func (s *Sampler) MaxRows() int {
	return s.maxRows
}

// Sample returns rows random records. The cap is checked before any I/O.
func (s *Sampler) Sample(ctx context.Context, rows int) ([]Record, error) {
	if rows > s.maxRows {
		return nil, fmt.Errorf("%w: %d > %d", ErrRowLimit, rows, s.maxRows)
	}
	if rows < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRows, rows)
	}

	raw, err := fetchTimed(ctx, s.source)
	if err != nil {
		return nil, err
	}
	frame, err := ParseCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	s.mu.Lock()
	records, err := frame.Sample(rows, s.rng)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Int("rows", rows).
		Int("dataset_rows", frame.Len()).
		Str("source", s.source.Kind()).
		Msg("Dataset sampled")
	return records, nil
}

// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/getaround/internal/config"
	"github.com/tomtom215/getaround/internal/logging"
	"github.com/tomtom215/getaround/internal/metrics"
)

// Source yields the raw CSV bytes of the dataset.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Kind is "remote" or "file", used as a metrics label.
	Kind() string
}

// NewSource picks an HTTP source for http(s) URLs and a file source otherwise.
func NewSource(cfg config.DatasetConfig) Source {
	if strings.HasPrefix(cfg.URL, "http://") || strings.HasPrefix(cfg.URL, "https://") {
		return NewHTTPSource(cfg, nil)
	}
	return &FileSource{Path: cfg.URL, MaxBytes: cfg.MaxBytes}
}

// FileSource reads the CSV from local disk.
type FileSource struct {
	Path     string
	MaxBytes int64
}

// Kind implements Source.
func (s *FileSource) Kind() string { return "file" }

// Fetch implements Source.
func (s *FileSource) Fetch(_ context.Context) ([]byte, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer f.Close()
	return readLimited(f, s.MaxBytes)
}

// HTTPSource downloads the CSV through a circuit breaker so a dead bucket
// fails fast instead of holding every preview request for the full timeout.
type HTTPSource struct {
	url      string
	client   *http.Client
	maxBytes int64
	cb       *gobreaker.CircuitBreaker[[]byte]
	name     string
}

// NewHTTPSource builds a breaker-protected downloader. A nil client gets one
// with cfg.FetchTimeout.
func NewHTTPSource(cfg config.DatasetConfig, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: cfg.FetchTimeout}
	}
	name := "dataset-fetch"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	minRequests := cfg.BreakerMinRequests
	ratio := cfg.BreakerFailureRatio
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		// A caller that went away says nothing about the bucket.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := failureRatio >= ratio
			if trip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})

	return &HTTPSource{url: cfg.URL, client: client, maxBytes: cfg.MaxBytes, cb: cb, name: name}
}

// Kind implements Source.
func (s *HTTPSource) Kind() string { return "remote" }

// State exposes the breaker state for health reporting.
func (s *HTTPSource) State() string {
	return stateToString(s.cb.State())
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	body, err := s.cb.Execute(func() ([]byte, error) {
		return s.download(ctx)
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
		case errors.Is(err, context.Canceled):
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "canceled").Inc()
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
		}
		if errors.Is(err, ErrFetch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	return body, nil
}

func (s *HTTPSource) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "text/csv, */*")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}
	return readLimited(resp.Body, s.maxBytes)
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, err)
		}
		return b, nil
	}
	b, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if int64(len(b)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}
	return b, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// fetchTimed fetches from src and records duration and failures.
func fetchTimed(ctx context.Context, src Source) ([]byte, error) {
	start := time.Now()
	b, err := src.Fetch(ctx)
	metrics.RecordDatasetFetch(src.Kind(), time.Since(start), err)
	return b, err
}

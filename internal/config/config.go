// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

// Package config loads the layered configuration shared by the prediction
// API and the dashboard: struct defaults, an optional YAML file, then
// environment variables.
package config

import (
	"net"
	"strconv"
	"time"
)

// Model backends.
const (
	BackendXGBoost = "xgboost"
	BackendLinear  = "linear"
	BackendJoblib  = "joblib"
)

// DefaultDatasetURL is the public pricing dataset sampled by GET /.
const DefaultDatasetURL = "https://full-stack-assets.s3.eu-west-3.amazonaws.com/Deployment/get_around_pricing_project.csv"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Model     ModelConfig     `koanf:"model"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig is the prediction API listener.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DashboardConfig is the dashboard listener and its data file.
type DashboardConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	DataPath    string        `koanf:"data_path"`
	CacheTTL    time.Duration `koanf:"cache_ttl"`
	ChartWidth  int           `koanf:"chart_width"`
	ChartHeight int           `koanf:"chart_height"`
	PreviewRows int           `koanf:"preview_rows"`
}

// Addr returns host:port for http.Server.
func (d DashboardConfig) Addr() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// DatasetConfig controls the remote CSV sampled by the preview endpoint.
type DatasetConfig struct {
	URL          string        `koanf:"url"`
	MaxRows      int           `koanf:"max_rows"`
	DefaultRows  int           `koanf:"default_rows"`
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
	MaxBytes     int64         `koanf:"max_bytes"`

	// Circuit breaker around the remote fetch.
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
}

// ModelConfig selects and locates the regression model.
type ModelConfig struct {
	Backend          string        `koanf:"backend"`
	Path             string        `koanf:"path"`
	PreprocessorPath string        `koanf:"preprocessor_path"`
	Watch            bool          `koanf:"watch"`
	WatchDebounce    time.Duration `koanf:"watch_debounce"`

	// Python bridge settings, used by the joblib backend only.
	Python         string        `koanf:"python"`
	BridgePort     int           `koanf:"bridge_port"`
	StartupTimeout time.Duration `koanf:"startup_timeout"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

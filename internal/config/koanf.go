// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/getaround/config.yaml",
	"/etc/getaround/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            4000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Dashboard: DashboardConfig{
			Port:        8501,
			Host:        "0.0.0.0",
			DataPath:    "src/data_clean_dataframe.csv",
			CacheTTL:    time.Hour,
			ChartWidth:  720,
			ChartHeight: 420,
			PreviewRows: 10,
		},
		Dataset: DatasetConfig{
			URL:                 DefaultDatasetURL,
			MaxRows:             50,
			DefaultRows:         3,
			FetchTimeout:        30 * time.Second,
			MaxBytes:            64 << 20,
			BreakerMaxRequests:  1,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerFailureRatio: 0.6,
			BreakerMinRequests:  3,
		},
		Model: ModelConfig{
			Backend:        BackendXGBoost,
			Path:           "model.json",
			Watch:          false,
			WatchDebounce:  500 * time.Millisecond,
			Python:         "python3",
			BridgePort:     7071,
			StartupTimeout: 60 * time.Second,
			RequestTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// sliceConfigPaths are split on commas when they arrive as a single string.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Prediction API
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Dashboard
	"dashboard_port":         "dashboard.port",
	"dashboard_host":         "dashboard.host",
	"dashboard_data_path":    "dashboard.data_path",
	"dashboard_cache_ttl":    "dashboard.cache_ttl",
	"dashboard_chart_width":  "dashboard.chart_width",
	"dashboard_chart_height": "dashboard.chart_height",
	"dashboard_preview_rows": "dashboard.preview_rows",

	// Remote dataset
	"dataset_url":                   "dataset.url",
	"dataset_max_rows":              "dataset.max_rows",
	"dataset_default_rows":          "dataset.default_rows",
	"dataset_fetch_timeout":         "dataset.fetch_timeout",
	"dataset_max_bytes":             "dataset.max_bytes",
	"dataset_breaker_max_requests":  "dataset.breaker_max_requests",
	"dataset_breaker_interval":      "dataset.breaker_interval",
	"dataset_breaker_timeout":       "dataset.breaker_timeout",
	"dataset_breaker_failure_ratio": "dataset.breaker_failure_ratio",
	"dataset_breaker_min_requests":  "dataset.breaker_min_requests",

	// Model
	"model_backend":           "model.backend",
	"model_path":              "model.path",
	"model_preprocessor_path": "model.preprocessor_path",
	"model_watch":             "model.watch",
	"model_watch_debounce":    "model.watch_debounce",
	"model_python":            "model.python",
	"model_bridge_port":       "model.bridge_port",
	"model_startup_timeout":   "model.startup_timeout",
	"model_request_timeout":   "model.request_timeout",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// Load builds the configuration from defaults, the config file and the
// environment, in increasing order of priority, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/getaround/internal/logging"
)

// Validate checks that the configuration is usable by both binaries.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDashboard(); err != nil {
		return err
	}
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func validatePort(port int, name string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", name, port)
	}
	return nil
}

func (c *Config) validateServer() error {
	if err := validatePort(c.Server.Port, "HTTP_PORT"); err != nil {
		return err
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDashboard() error {
	if err := validatePort(c.Dashboard.Port, "DASHBOARD_PORT"); err != nil {
		return err
	}
	if c.Dashboard.DataPath == "" {
		return fmt.Errorf("DASHBOARD_DATA_PATH is required")
	}
	if c.Dashboard.CacheTTL <= 0 {
		return fmt.Errorf("DASHBOARD_CACHE_TTL must be positive")
	}
	if c.Dashboard.ChartWidth < 100 || c.Dashboard.ChartHeight < 100 {
		return fmt.Errorf("dashboard charts must be at least 100x100 pixels, got %dx%d",
			c.Dashboard.ChartWidth, c.Dashboard.ChartHeight)
	}
	if c.Dashboard.PreviewRows < 0 {
		return fmt.Errorf("DASHBOARD_PREVIEW_ROWS must not be negative")
	}
	return nil
}

func (c *Config) validateDataset() error {
	d := c.Dataset
	if d.URL == "" {
		return fmt.Errorf("DATASET_URL is required")
	}
	if strings.HasPrefix(d.URL, "http://") || strings.HasPrefix(d.URL, "https://") {
		if u, err := url.Parse(d.URL); err != nil || u.Host == "" {
			return fmt.Errorf("DATASET_URL is not a valid URL: %q", d.URL)
		}
	}
	if d.MaxRows < 1 {
		return fmt.Errorf("DATASET_MAX_ROWS must be at least 1, got %d", d.MaxRows)
	}
	if d.DefaultRows < 0 || d.DefaultRows > d.MaxRows {
		return fmt.Errorf("DATASET_DEFAULT_ROWS must be between 0 and %d, got %d", d.MaxRows, d.DefaultRows)
	}
	if d.FetchTimeout <= 0 {
		return fmt.Errorf("DATASET_FETCH_TIMEOUT must be positive")
	}
	if d.MaxBytes <= 0 {
		return fmt.Errorf("DATASET_MAX_BYTES must be positive")
	}
	if d.BreakerFailureRatio <= 0 || d.BreakerFailureRatio > 1 {
		return fmt.Errorf("DATASET_BREAKER_FAILURE_RATIO must be in (0, 1], got %g", d.BreakerFailureRatio)
	}
	return nil
}

func (c *Config) validateModel() error {
	m := c.Model
	switch m.Backend {
	case BackendXGBoost, BackendLinear:
	case BackendJoblib:
		if m.Python == "" {
			return fmt.Errorf("MODEL_PYTHON is required for the joblib backend")
		}
		if err := validatePort(m.BridgePort, "MODEL_BRIDGE_PORT"); err != nil {
			return err
		}
		if m.StartupTimeout <= 0 || m.RequestTimeout <= 0 {
			return fmt.Errorf("MODEL_STARTUP_TIMEOUT and MODEL_REQUEST_TIMEOUT must be positive")
		}
	default:
		return fmt.Errorf("MODEL_BACKEND must be one of %s, %s, %s; got %q",
			BackendXGBoost, BackendLinear, BackendJoblib, m.Backend)
	}
	if m.Path == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if m.Watch && m.WatchDebounce < 0 {
		return fmt.Errorf("MODEL_WATCH_DEBOUNCE must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a known level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/homematch/internal/logging"
)

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateArtifacts(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateFeedback(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	s := &c.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", s.Port)
	}
	for _, t := range []struct {
		name string
		d    time.Duration
	}{
		{"HTTP_READ_TIMEOUT", s.ReadTimeout},
		{"HTTP_WRITE_TIMEOUT", s.WriteTimeout},
		{"HTTP_REQUEST_TIMEOUT", s.RequestTimeout},
		{"HTTP_SHUTDOWN_TIMEOUT", s.ShutdownTimeout},
	} {
		if t.d <= 0 {
			return fmt.Errorf("%s must be positive", t.name)
		}
	}
	if s.StatsWindow < 1 {
		return fmt.Errorf("HTTP_STATS_WINDOW must be at least 1, got %d", s.StatsWindow)
	}
	switch s.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging, or production, got %q", s.Environment)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level (trace, debug, info, warn, error)", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

func (c *Config) validateArtifacts() error {
	if c.Artifacts.Dir == "" {
		return fmt.Errorf("ARTIFACTS_DIR is required")
	}
	if c.Artifacts.CatalogPath == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if c.Artifacts.Watch && c.Artifacts.Debounce <= 0 {
		return fmt.Errorf("ARTIFACTS_DEBOUNCE must be positive when ARTIFACTS_WATCH=true")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if err := c.Recommend.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

func (c *Config) validateFeedback() error {
	if !c.Feedback.Enabled {
		return nil
	}
	if c.Feedback.Path == "" {
		return fmt.Errorf("FEEDBACK_PATH is required when FEEDBACK_ENABLED=true")
	}
	if c.Feedback.MaxListLimit < 1 {
		return fmt.Errorf("FEEDBACK_MAX_LIST_LIMIT must be at least 1")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := &c.Security
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if c.IsProduction() {
		for _, origin := range s.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain * in production")
			}
		}
	}
	return nil
}

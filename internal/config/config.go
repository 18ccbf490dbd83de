// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/homematch/internal/recommend"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment Variables: override individual settings
//
// Example:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal().Err(err).Msg("invalid configuration")
//	}
//	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), logger)
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Recommend RecommendConfig `koanf:"recommend"`
	Feedback  FeedbackConfig  `koanf:"feedback"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`  // per-request handler deadline
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // graceful drain on SIGTERM
	Environment     string        `koanf:"environment"`      // development, staging, production

	// SlowRequestThreshold logs requests slower than this. Zero disables.
	SlowRequestThreshold time.Duration `koanf:"slow_request_threshold"`

	// StatsWindow is how many recent requests /api/v1/stats aggregates.
	StatsWindow int `koanf:"stats_window"`
}

// Addr returns host:port for net.Listen.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller adds file:line to every event.
	Caller bool `koanf:"caller"`
}

// DatabaseConfig tunes the in-memory DuckDB used to read catalog and
// matrix source files.
type DatabaseConfig struct {
	Threads   int    `koanf:"threads"` // 0 = DuckDB default
	MaxMemory string `koanf:"max_memory"`
}

// ArtifactsConfig locates the serving inputs.
type ArtifactsConfig struct {
	// Dir holds the versioned similarity artifacts.
	Dir string `koanf:"dir"`

	// CatalogPath is the catalog table (CSV or Parquet). Row i of the
	// catalog is position i in every matrix.
	CatalogPath string `koanf:"catalog_path"`

	// Watch reloads the bundle when Dir or CatalogPath changes.
	Watch bool `koanf:"watch"`

	// Debounce coalesces bursts of file events into one reload.
	Debounce time.Duration `koanf:"debounce"`
}

// RecommendConfig mirrors recommend.Config with koanf keys.
type RecommendConfig struct {
	Weights       WeightsConfig `koanf:"weights"`
	Normalization string        `koanf:"normalization"`
	DefaultN      int           `koanf:"default_n"`
	MaxN          int           `koanf:"max_n"`
	CacheEnabled  bool          `koanf:"cache_enabled"`
	CacheSize     int           `koanf:"cache_size"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`
}

// WeightsConfig are the combined-mode facet weights.
type WeightsConfig struct {
	PropertyInfo float64 `koanf:"property_info"`
	Facility     float64 `koanf:"facility"`
	Nearby       float64 `koanf:"nearby"`
}

// EngineConfig converts to the engine's configuration type.
func (r *RecommendConfig) EngineConfig() *recommend.Config {
	return &recommend.Config{
		Weights: recommend.BlendWeights{
			PropertyInfo: r.Weights.PropertyInfo,
			Facility:     r.Weights.Facility,
			Nearby:       r.Weights.Nearby,
		},
		Normalization: recommend.Normalization(r.Normalization),
		Limits: recommend.LimitsConfig{
			DefaultN: r.DefaultN,
			MaxN:     r.MaxN,
		},
		Cache: recommend.CacheConfig{
			Enabled:    r.CacheEnabled,
			MaxEntries: r.CacheSize,
			TTL:        r.CacheTTL,
		},
	}
}

// FeedbackConfig holds the feedback store settings.
type FeedbackConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"` // BadgerDB directory

	// MaxListLimit caps GET /api/v1/feedback?limit=.
	MaxListLimit int `koanf:"max_list_limit"`
}

// SecurityConfig holds CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

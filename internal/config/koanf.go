// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

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
	"/etc/homematch/config.yaml",
	"/etc/homematch/config.yml",
}

// ConfigPathEnvVar names the environment variable holding an explicit
// config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                 8080,
			Host:                 "0.0.0.0",
			ReadTimeout:          10 * time.Second,
			WriteTimeout:         30 * time.Second,
			IdleTimeout:          60 * time.Second,
			RequestTimeout:       15 * time.Second,
			ShutdownTimeout:      10 * time.Second,
			Environment:          "development",
			SlowRequestThreshold: 500 * time.Millisecond,
			StatsWindow:          1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Database: DatabaseConfig{
			Threads:   0,
			MaxMemory: "512MB",
		},
		Artifacts: ArtifactsConfig{
			Dir:         "/data/artifacts",
			CatalogPath: "/data/catalog.csv",
			Watch:       true,
			Debounce:    2 * time.Second,
		},
		Recommend: RecommendConfig{
			Weights: WeightsConfig{
				PropertyInfo: 0.8,
				Facility:     0.6,
				Nearby:       1.0,
			},
			Normalization: "none",
			DefaultN:      5,
			MaxN:          100,
			CacheEnabled:  true,
			CacheSize:     1024,
			CacheTTL:      10 * time.Minute,
		},
		Feedback: FeedbackConfig{
			Enabled:      true,
			Path:         "/data/feedback",
			MaxListLimit: 100,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// LoadWithKoanf loads defaults, then the first config file found, then
// environment overrides, and validates the result.
func LoadWithKoanf() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is LoadWithKoanf with an explicit config file path. An empty
// path skips the file layer.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
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
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths accept comma-separated strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf keys.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"http_port":                   "server.port",
	"http_host":                   "server.host",
	"http_read_timeout":           "server.read_timeout",
	"http_write_timeout":          "server.write_timeout",
	"http_idle_timeout":           "server.idle_timeout",
	"http_request_timeout":        "server.request_timeout",
	"http_shutdown_timeout":       "server.shutdown_timeout",
	"http_slow_request_threshold": "server.slow_request_threshold",
	"http_stats_window":           "server.stats_window",
	"environment":                 "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"duckdb_threads":    "database.threads",
	"duckdb_max_memory": "database.max_memory",

	"artifacts_dir":      "artifacts.dir",
	"catalog_path":       "artifacts.catalog_path",
	"artifacts_watch":    "artifacts.watch",
	"artifacts_debounce": "artifacts.debounce",

	"recommend_weight_property_info": "recommend.weights.property_info",
	"recommend_weight_facility":      "recommend.weights.facility",
	"recommend_weight_nearby":        "recommend.weights.nearby",
	"recommend_normalization":        "recommend.normalization",
	"recommend_default_n":            "recommend.default_n",
	"recommend_max_n":                "recommend.max_n",
	"recommend_cache_enabled":        "recommend.cache_enabled",
	"recommend_cache_size":           "recommend.cache_size",
	"recommend_cache_ttl":            "recommend.cache_ttl",

	"feedback_enabled":        "feedback.enabled",
	"feedback_path":           "feedback.path",
	"feedback_max_list_limit": "feedback.max_list_limit",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

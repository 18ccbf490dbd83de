// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package recommend

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Weights.PropertyInfo != 0.8 || cfg.Weights.Facility != 0.6 || cfg.Weights.Nearby != 1.0 {
		t.Errorf("weights = %+v", cfg.Weights)
	}
	if cfg.Limits.DefaultN != 5 {
		t.Errorf("DefaultN = %d, want 5", cfg.Limits.DefaultN)
	}
	if cfg.Normalization != NormalizeNone {
		t.Errorf("Normalization = %q, want none", cfg.Normalization)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative weight", func(c *Config) { c.Weights.Facility = -0.1 }, "facility"},
		{"NaN weight", func(c *Config) { c.Weights.Nearby = math.NaN() }, "nearby"},
		{"all zero weights", func(c *Config) { c.Weights = BlendWeights{} }, "positive"},
		{"unknown normalization", func(c *Config) { c.Normalization = "zscore" }, "normalization"},
		{"zero default n", func(c *Config) { c.Limits.DefaultN = 0 }, "default_n"},
		{"max below default", func(c *Config) { c.Limits.MaxN = 2 }, "max_n"},
		{"cache zero entries", func(c *Config) { c.Cache.MaxEntries = 0 }, "max_entries"},
		{"cache zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateDisabledCache(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Cache = CacheConfig{Enabled: false}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled cache should not need sizing: %v", err)
	}
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Weights.Nearby = 3
	clone.Cache.TTL = time.Second

	if cfg.Weights.Nearby != 1.0 || cfg.Cache.TTL != 10*time.Minute {
		t.Error("Clone shares state with original")
	}
}

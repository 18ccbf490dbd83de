// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package recommend

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights are the combined-mode facet multipliers.
	Weights BlendWeights `json:"weights"`

	// Normalization is the default score normalization stage.
	// Default: none (raw scores, combined scores are not bounded to [0,1]).
	Normalization Normalization `json:"normalization"`

	// Limits contains request limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains response cache parameters.
	Cache CacheConfig `json:"cache"`
}

// BlendWeights are the combined-mode multipliers for each facet.
type BlendWeights struct {
	PropertyInfo float64 `json:"property_info"`
	Facility     float64 `json:"facility"`
	Nearby       float64 `json:"nearby"`
}

// DefaultBlendWeights returns 0.8 property info, 0.6 facility, 1.0 nearby.
func DefaultBlendWeights() BlendWeights {
	return BlendWeights{
		PropertyInfo: 0.8,
		Facility:     0.6,
		Nearby:       1.0,
	}
}

// Sum returns the total weight.
func (w BlendWeights) Sum() float64 {
	return w.PropertyInfo + w.Facility + w.Nearby
}

// Validate checks that every weight is finite and non-negative and that at
// least one is positive.
func (w BlendWeights) Validate() error {
	for name, v := range map[string]float64{
		"property_info": w.PropertyInfo,
		"facility":      w.Facility,
		"nearby":        w.Nearby,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("weight %s must be a finite non-negative number, got %v", name, v)
		}
	}
	if w.Sum() == 0 {
		return errors.New("at least one blend weight must be positive")
	}
	return nil
}

// LimitsConfig bounds request parameters.
type LimitsConfig struct {
	// DefaultN is used when a request does not set N.
	// Default: 5.
	DefaultN int `json:"default_n"`

	// MaxN rejects larger requests outright.
	// Default: 100.
	MaxN int `json:"max_n"`
}

// CacheConfig contains response cache parameters.
type CacheConfig struct {
	// Enabled turns the response cache on.
	Enabled bool `json:"enabled"`

	// MaxEntries is the LRU capacity.
	MaxEntries int `json:"max_entries"`

	// TTL expires entries regardless of use.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights:       DefaultBlendWeights(),
		Normalization: NormalizeNone,
		Limits: LimitsConfig{
			DefaultN: 5,
			MaxN:     100,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 1024,
			TTL:        10 * time.Minute,
		},
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if _, err := ParseNormalization(string(c.Normalization)); err != nil {
		return fmt.Errorf("normalization: %w", err)
	}
	if c.Limits.DefaultN <= 0 {
		return errors.New("limits.default_n must be positive")
	}
	if c.Limits.MaxN < c.Limits.DefaultN {
		return fmt.Errorf("limits.max_n (%d) must be >= limits.default_n (%d)", c.Limits.MaxN, c.Limits.DefaultN)
	}
	if c.Cache.Enabled {
		if c.Cache.MaxEntries <= 0 {
			return errors.New("cache.max_entries must be positive when cache is enabled")
		}
		if c.Cache.TTL <= 0 {
			return errors.New("cache.ttl must be positive when cache is enabled")
		}
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

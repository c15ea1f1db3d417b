// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package recommend

import (
	"fmt"
	"time"
)

// Config contains configuration for the recommendation controller.
type Config struct {
	// Limits contains request limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains score cache parameters.
	Cache CacheConfig `json:"cache"`

	// Scoring contains scorer parallelism parameters.
	Scoring ScoringConfig `json:"scoring"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultN is the number of recommendations returned when n < 0.
	// Default: 10.
	DefaultN int `json:"default_n"`

	// MaxN caps the number of recommendations per request. Zero means no
	// cap. Default: 0.
	MaxN int `json:"max_n"`
}

// CacheConfig contains score cache parameters.
type CacheConfig struct {
	// Enabled toggles per-user score vector caching.
	Enabled bool `json:"enabled"`

	// TTL bounds how long a score vector is kept. Zero uses the cache
	// backend's default. Entries of older generations are never served
	// regardless of TTL.
	TTL time.Duration `json:"ttl"`
}

// ScoringConfig controls parallel scoring.
type ScoringConfig struct {
	// Workers is the size of the scoring worker pool.
	// Values <= 1 disable parallel scoring.
	// Default: 4.
	Workers int `json:"workers"`

	// ParallelThreshold is the item count above which scoring is split
	// across workers.
	// Default: 50000.
	ParallelThreshold int `json:"parallel_threshold"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultN: 10,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     0,
		},
		Scoring: ScoringConfig{
			Workers:           4,
			ParallelThreshold: 50000,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.DefaultN <= 0 {
		return fmt.Errorf("limits.default_n must be positive, got %d", c.Limits.DefaultN)
	}
	if c.Limits.MaxN < 0 {
		return fmt.Errorf("limits.max_n must be non-negative, got %d", c.Limits.MaxN)
	}
	if c.Limits.MaxN > 0 && c.Limits.MaxN < c.Limits.DefaultN {
		return fmt.Errorf("limits.max_n (%d) must be >= limits.default_n (%d)", c.Limits.MaxN, c.Limits.DefaultN)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be non-negative, got %v", c.Cache.TTL)
	}
	if c.Scoring.Workers < 0 {
		return fmt.Errorf("scoring.workers must be non-negative, got %d", c.Scoring.Workers)
	}
	if c.Scoring.ParallelThreshold < 0 {
		return fmt.Errorf("scoring.parallel_threshold must be non-negative, got %d", c.Scoring.ParallelThreshold)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

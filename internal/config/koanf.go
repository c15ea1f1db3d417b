// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

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

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/appranker/config.yaml",
	"/etc/appranker/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Path:      "/data/appranker.duckdb",
			MaxMemory: "1GB",
		},
		Storage: StorageConfig{
			Path:              "/data/generations",
			RetainGenerations: 3,
		},
		Recommend: RecommendConfig{
			Provider: "trained",
			Rank:     10,
			DefaultN: 10,
			Cache: ScoreCacheConfig{
				Enabled:  true,
				Type:     "ttl",
				TTL:      5 * time.Minute,
				Capacity: 10000,
			},
			Scoring: ScoringConfig{
				Workers:           4,
				ParallelThreshold: 50000,
			},
			Filters:       []string{"installed", "locale", "region"},
			Rerankers:     []string{"region", "category", "repetition"},
			CategorySlots: 4,
		},
		Training: TrainingConfig{
			Interval:       24 * time.Hour,
			Timeout:        30 * time.Minute,
			Factors:        10,
			Iterations:     15,
			Regularization: 0.01,
			Alpha:          40,
			Workers:        4,
			Breaker: BreakerConfig{
				MinRequests:  3,
				FailureRatio: 0.6,
				Timeout:      5 * time.Minute,
				Interval:     10 * time.Minute,
			},
		},
		Metrics: MetricsConfig{
			Enabled:         true,
			Address:         "127.0.0.1:9464",
			RateLimit:       300,
			RateLimitWindow: time.Minute,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// An explicit path takes precedence over CONFIG_PATH and the default paths.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional unless explicit)
	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
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

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
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

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"recommend.filters",
	"recommend.rerankers",
	"metrics.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings, YAML lists are left alone. An empty string
// clears the list.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		trimmed := []string{}
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"badger_path":        "storage.path",
	"badger_in_memory":   "storage.in_memory",
	"retain_generations": "storage.retain_generations",

	"recommend_provider":           "recommend.provider",
	"recommend_rank":               "recommend.rank",
	"recommend_seed":               "recommend.seed",
	"recommend_default_n":          "recommend.default_n",
	"recommend_max_n":              "recommend.max_n",
	"recommend_cache_enabled":      "recommend.cache.enabled",
	"recommend_cache_type":         "recommend.cache.type",
	"recommend_cache_ttl":          "recommend.cache.ttl",
	"recommend_cache_capacity":     "recommend.cache.capacity",
	"recommend_scoring_workers":    "recommend.scoring.workers",
	"recommend_parallel_threshold": "recommend.scoring.parallel_threshold",
	"recommend_filters":            "recommend.filters",
	"recommend_rerankers":          "recommend.rerankers",
	"recommend_module":             "recommend.module",
	"recommend_category_slots":     "recommend.category_slots",

	"training_interval":   "training.interval",
	"training_on_startup": "training.on_startup",
	"training_timeout":    "training.timeout",
	"als_factors":         "training.factors",
	"als_iterations":      "training.iterations",
	"als_regularization":  "training.regularization",
	"als_alpha":           "training.alpha",
	"als_workers":         "training.workers",

	"breaker_min_requests":  "training.breaker.min_requests",
	"breaker_failure_ratio": "training.breaker.failure_ratio",
	"breaker_timeout":       "training.breaker.timeout",
	"breaker_interval":      "training.breaker.interval",

	"metrics_enabled":           "metrics.enabled",
	"metrics_address":           "metrics.address",
	"metrics_cors_origins":      "metrics.cors_origins",
	"metrics_rate_limit":        "metrics.rate_limit",
	"metrics_rate_limit_window": "metrics.rate_limit_window",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - RECOMMEND_MAX_N -> recommend.max_n
//   - ALS_FACTORS -> training.factors
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

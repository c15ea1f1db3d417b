// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package config

import "time"

// Config holds all application configuration
type Config struct {
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Storage   StorageConfig   `koanf:"storage"`
	Recommend RecommendConfig `koanf:"recommend"`
	Training  TrainingConfig  `koanf:"training"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// DatabaseConfig holds DuckDB catalog settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory" validate:"omitempty,bytesize"`
	Threads   int    `koanf:"threads" validate:"gte=0,lte=256"` // Number of DuckDB threads (0 = use NumCPU)
}

// StorageConfig holds generation store settings
type StorageConfig struct {
	Path              string `koanf:"path"`
	InMemory          bool   `koanf:"in_memory"`
	RetainGenerations int    `koanf:"retain_generations" validate:"min=1,max=100"`
}

// RecommendConfig holds ranking pipeline settings
type RecommendConfig struct {
	// Provider selects the factor matrix strategy: random or trained.
	Provider string `koanf:"provider" validate:"oneof=random trained"`

	// Rank and Seed configure the random provider.
	Rank int    `koanf:"rank" validate:"min=1,max=1024"`
	Seed uint64 `koanf:"seed"`

	DefaultN int `koanf:"default_n" validate:"min=1"`
	MaxN     int `koanf:"max_n" validate:"min=0,max=100000"`

	Cache   ScoreCacheConfig `koanf:"cache"`
	Scoring ScoringConfig    `koanf:"scoring"`

	Filters   []string `koanf:"filters" validate:"dive,oneof=installed locale region"`
	Rerankers []string `koanf:"rerankers" validate:"dive,oneof=region category repetition"`

	// Module restricts region lookups to one item module. Empty = all.
	Module string `koanf:"module"`

	// CategorySlots is n of the category reranker.
	CategorySlots int `koanf:"category_slots" validate:"min=1,max=100"`
}

// ScoreCacheConfig holds score and transform cache settings
type ScoreCacheConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Type     string        `koanf:"type" validate:"oneof=ttl lru"`
	TTL      time.Duration `koanf:"ttl" validate:"gte=0"`
	Capacity int           `koanf:"capacity" validate:"gte=0"` // Only used for lru
}

// ScoringConfig holds scorer parallelism settings
type ScoringConfig struct {
	Workers           int `koanf:"workers" validate:"gte=0,lte=1024"`
	ParallelThreshold int `koanf:"parallel_threshold" validate:"gte=0"`
}

// TrainingConfig holds ALS training and scheduling settings
type TrainingConfig struct {
	// Interval is the retraining period. Zero disables scheduled training.
	Interval  time.Duration `koanf:"interval" validate:"gte=0"`
	OnStartup bool          `koanf:"on_startup"`
	Timeout   time.Duration `koanf:"timeout" validate:"gte=0"`

	Factors        int     `koanf:"factors" validate:"min=1,max=1024"`
	Iterations     int     `koanf:"iterations" validate:"min=1,max=1000"`
	Regularization float64 `koanf:"regularization" validate:"gte=0"`
	Alpha          float64 `koanf:"alpha" validate:"gte=0"`
	Workers        int     `koanf:"workers" validate:"min=1,max=1024"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig holds training circuit breaker settings
type BreakerConfig struct {
	MinRequests  uint32        `koanf:"min_requests" validate:"min=1"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gt=0,lte=1"`
	Timeout      time.Duration `koanf:"timeout" validate:"gte=0"`
	Interval     time.Duration `koanf:"interval" validate:"gte=0"`
}

// MetricsConfig holds settings for the metrics, health and stats server.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Address string `koanf:"address" validate:"required_if=Enabled true,omitempty,hostname_port"`

	// CORSOrigins lists origins allowed to read /api/v1 from a browser.
	// Empty disables cross-origin access.
	CORSOrigins []string `koanf:"cors_origins" validate:"dive,required"`

	// RateLimit is the per-IP request budget per RateLimitWindow on
	// /api/v1. Zero disables rate limiting.
	RateLimit       int           `koanf:"rate_limit" validate:"gte=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
}

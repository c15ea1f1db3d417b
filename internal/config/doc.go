// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

/*
Package config provides centralized configuration management for Appranker.

Configuration is loaded with Koanf v2 from three layers, later layers
overriding earlier ones:

 1. Defaults: built-in values from defaultConfig
 2. Config file: optional YAML file (CONFIG_PATH, ./config.yaml or
    /etc/appranker/config.yaml)
 3. Environment variables: the names listed below

# Configuration Structure

  - LoggingConfig: zerolog level, format and caller reporting
  - DatabaseConfig: DuckDB catalog database
  - StorageConfig: Badger generation store and retention
  - RecommendConfig: provider strategy, limits, score cache, scoring
    parallelism and the filters and rerankers to register
  - TrainingConfig: ALS hyperparameters, schedule and circuit breaker
  - MetricsConfig: Prometheus, health and stats endpoint

# Environment Variables

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file and line (default: false)

Catalog database:
  - DUCKDB_PATH: database file, empty or :memory: for in-memory
    (default: /data/appranker.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
  - DUCKDB_THREADS: DuckDB worker threads, 0 = NumCPU (default: 0)

Generation store:
  - BADGER_PATH: Badger directory (default: /data/generations)
  - BADGER_IN_MEMORY: keep generations in memory only (default: false)
  - RETAIN_GENERATIONS: generations kept after training (default: 3)

Recommendation:
  - RECOMMEND_PROVIDER: random or trained (default: trained)
  - RECOMMEND_RANK: latent rank of random matrices (default: 10)
  - RECOMMEND_SEED: seed of random matrices, 0 = clock (default: 0)
  - RECOMMEND_DEFAULT_N, RECOMMEND_MAX_N: result limits (10, 0 = no cap)
  - RECOMMEND_CACHE_TYPE: ttl or lru (default: ttl)
  - RECOMMEND_CACHE_TTL, RECOMMEND_CACHE_CAPACITY: (5m, 10000)
  - RECOMMEND_FILTERS: comma-separated filter names
    (default: installed,locale,region)
  - RECOMMEND_RERANKERS: comma-separated reranker names
    (default: region,category,repetition)
  - RECOMMEND_MODULE: item module for region lookups (default: all)
  - RECOMMEND_CATEGORY_SLOTS: n of the category reranker (default: 4)

Training:
  - TRAINING_INTERVAL: retraining period, 0 disables (default: 24h)
  - TRAINING_ON_STARTUP: train when serve starts (default: false)
  - TRAINING_TIMEOUT: bound of one training run (default: 30m)
  - ALS_FACTORS, ALS_ITERATIONS, ALS_REGULARIZATION, ALS_ALPHA,
    ALS_WORKERS: ALS hyperparameters

Metrics:
  - METRICS_ENABLED: serve /metrics (default: true)
  - METRICS_ADDRESS: listen address (default: 127.0.0.1:9464)
  - METRICS_CORS_ORIGINS: comma-separated origins allowed on /api/v1
  - METRICS_RATE_LIMIT: per-IP requests per window on /api/v1, 0 disables (default: 300)
  - METRICS_RATE_LIMIT_WINDOW: rate limit window (default: 1m)

# Validation

Load validates the merged configuration with struct tags through
internal/validation and then applies cross-field rules (Config.Validate).
An invalid configuration is a startup error.
*/
package config

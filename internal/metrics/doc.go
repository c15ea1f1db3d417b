// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

/*
Package metrics provides Prometheus metrics for the ranking service.

Metrics are registered on the default registry through promauto and exposed
by the metrics HTTP service at /metrics in Prometheus text format:

	curl http://localhost:9464/metrics

# Available Metrics

Recommendation:
  - recommend_requests_total{controller,result}
  - recommend_request_duration_seconds{controller}
  - recommend_errors_total{controller,error_type}
  - score_cache_hits_total{controller}, score_cache_misses_total{controller}
  - recommend_transform_duration_seconds{phase,kind}

Model generations:
  - model_generation_current{provider}, model_generation_rank{provider}
  - model_training_runs_total{provider,result}
  - model_training_duration_seconds
  - model_training_last_success_timestamp
  - generation_store_operations_total{backend,operation,result}

Catalog:
  - catalog_query_duration_seconds{operation}
  - catalog_query_errors_total{operation,error_type}

Circuit breaker:
  - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

# Usage

Components call the Record helpers directly:

	start := time.Now()
	ids, err := ctrl.GetRecommendation(ctx, user, 10)
	metrics.RecordRecommendation("trained", time.Since(start), err, classify)

# Cardinality

Label values are bounded: controller and provider names come from
configuration, transform kinds from the filter registry. Error labels are
classified into a fixed set or truncated to 50 characters.
*/
package metrics

// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"controller", "result"}, // result: "success", "error"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_request_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"controller"},
	)

	RecommendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_errors_total",
			Help: "Total number of failed recommendation requests by error type",
		},
		[]string{"controller", "error_type"}, // model_unavailable, integrity, not_implemented, other
	)

	ScoreCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_cache_hits_total",
			Help: "Total number of score vectors served from cache",
		},
		[]string{"controller"},
	)

	ScoreCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_cache_misses_total",
			Help: "Total number of score vectors computed",
		},
		[]string{"controller"},
	)

	TransformDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_transform_duration_seconds",
			Help:    "Duration of individual filters and rerankers in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"phase", "kind"}, // phase: "filter", "reranker"
	)

	// Model Generation Metrics
	GenerationCurrent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_generation_current",
			Help: "Id of the factor matrix generation currently served",
		},
		[]string{"provider"},
	)

	GenerationRank = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_generation_rank",
			Help: "Latent rank of the generation currently served",
		},
		[]string{"provider"},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_training_runs_total",
			Help: "Total number of training runs",
		},
		[]string{"provider", "result"}, // result: "success", "failure", "shared"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_training_duration_seconds",
			Help:    "Duration of training runs in seconds",
			Buckets: []float64{.1, .5, 1, 5, 15, 30, 60, 300, 900, 1800},
		},
	)

	TrainingLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_training_last_success_timestamp",
			Help: "Unix timestamp of the last successful training run",
		},
	)

	GenerationStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_store_operations_total",
			Help: "Total number of generation store operations",
		},
		[]string{"backend", "operation", "result"},
	)

	// Catalog Metrics
	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Duration of catalog queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CatalogQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_query_errors_total",
			Help: "Total number of catalog query errors",
		},
		[]string{"operation", "error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version information",
		},
		[]string{"version", "go_version"},
	)
)

// ErrorClassifier maps an error to a short label value.
type ErrorClassifier func(err error) string

// Sentinel pairs an error with its metric label.
type Sentinel struct {
	Err   error
	Label string
}

// ClassifyBy returns a classifier that matches err against sentinels in order
// with errors.Is and falls back to "other".
func ClassifyBy(sentinels ...Sentinel) ErrorClassifier {
	return func(err error) string {
		for _, s := range sentinels {
			if errors.Is(err, s.Err) {
				return s.Label
			}
		}
		return "other"
	}
}

// RecordRecommendation records one recommendation request.
func RecordRecommendation(controller string, duration time.Duration, err error, classify ErrorClassifier) {
	RecommendDuration.WithLabelValues(controller).Observe(duration.Seconds())
	if err != nil {
		RecommendRequests.WithLabelValues(controller, "error").Inc()
		label := "other"
		if classify != nil {
			label = classify(err)
		}
		RecommendErrors.WithLabelValues(controller, label).Inc()
		return
	}
	RecommendRequests.WithLabelValues(controller, "success").Inc()
}

// RecordScoreCache records a score cache lookup.
func RecordScoreCache(controller string, hit bool) {
	if hit {
		ScoreCacheHits.WithLabelValues(controller).Inc()
	} else {
		ScoreCacheMisses.WithLabelValues(controller).Inc()
	}
}

// RecordTransform records the duration of one filter or reranker.
func RecordTransform(phase, kind string, duration time.Duration) {
	TransformDuration.WithLabelValues(phase, kind).Observe(duration.Seconds())
}

// RecordGeneration publishes the generation currently served by provider.
func RecordGeneration(provider string, id int64, rank int) {
	GenerationCurrent.WithLabelValues(provider).Set(float64(id))
	GenerationRank.WithLabelValues(provider).Set(float64(rank))
}

// RecordTraining records a training run. shared marks callers that joined
// an in-flight run instead of starting one.
func RecordTraining(provider string, duration time.Duration, shared bool, err error) {
	switch {
	case err != nil:
		TrainingRuns.WithLabelValues(provider, "failure").Inc()
	case shared:
		TrainingRuns.WithLabelValues(provider, "shared").Inc()
	default:
		TrainingRuns.WithLabelValues(provider, "success").Inc()
		TrainingDuration.Observe(duration.Seconds())
		TrainingLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordStoreOp records a generation store operation.
func RecordStoreOp(backend, operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	GenerationStoreOps.WithLabelValues(backend, operation, result).Inc()
}

// RecordCatalogQuery records a catalog query metric
func RecordCatalogQuery(operation string, duration time.Duration, err error) {
	CatalogQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		CatalogQueryErrors.WithLabelValues(operation, errorType).Inc()
	}
}

// SetAppInfo publishes the build version.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// BreakerStateValue converts a breaker state ordinal (closed, half-open,
// open) into the gauge value. Unknown states map to -1.
func BreakerStateValue(state int) float64 {
	if state < 0 || state > 2 {
		return -1
	}
	return float64(state)
}

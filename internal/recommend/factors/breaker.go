// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package factors

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/appranker/internal/metrics"
	"github.com/tomtom215/appranker/internal/recommend"
)

// BreakerConfig configures the training circuit breaker.
type BreakerConfig struct {
	// MaxRequests is the number of trial trainings allowed while half-open.
	// Default: 1.
	MaxRequests uint32

	// Interval resets the failure counts while closed. Default: 10m.
	Interval time.Duration

	// Timeout is how long the breaker stays open. Default: 5m.
	Timeout time.Duration

	// MinRequests is the number of trainings needed before the breaker may
	// trip. Default: 3.
	MinRequests uint32

	// FailureRatio trips the breaker. Default: 0.6.
	FailureRatio float64
}

// DefaultBreakerConfig returns the default breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     10 * time.Minute,
		Timeout:      5 * time.Minute,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

func (c *BreakerConfig) applyDefaults() {
	d := DefaultBreakerConfig()
	if c.MaxRequests == 0 {
		c.MaxRequests = d.MaxRequests
	}
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MinRequests == 0 {
		c.MinRequests = d.MinRequests
	}
	if c.FailureRatio <= 0 {
		c.FailureRatio = d.FailureRatio
	}
}

// trainingBreaker wraps a Trainer call with circuit breaker protection.
// The breaker uses real time for its interval and timeout.
type trainingBreaker struct {
	cb     *gobreaker.CircuitBreaker[*recommend.Generation]
	name   string
	logger zerolog.Logger
}

//nolint:gocritic // logger passed by value, matching the rest of the code base
func newTrainingBreaker(name string, cfg BreakerConfig, logger zerolog.Logger) *trainingBreaker {
	cfg.applyDefaults()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[*recommend.Generation](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio

			if shouldTrip {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening training circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &trainingBreaker{cb: cb, name: name, logger: logger}
}

// execute runs fn unless the circuit is open.
func (b *trainingBreaker) execute(fn func() (*recommend.Generation, error)) (*recommend.Generation, error) {
	gen, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			b.logger.Warn().Err(err).Msg("[CIRCUIT BREAKER] Training rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return gen, nil
}

// state returns the current breaker state name.
func (b *trainingBreaker) state() string {
	return stateToString(b.cb.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return metrics.BreakerStateValue(0)
	case gobreaker.StateHalfOpen:
		return metrics.BreakerStateValue(1)
	case gobreaker.StateOpen:
		return metrics.BreakerStateValue(2)
	default:
		return metrics.BreakerStateValue(-1)
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/appranker/internal/logging"
	"github.com/tomtom215/appranker/internal/recommend"
)

// DefaultTrainTimeout bounds a single training run when none is configured.
const DefaultTrainTimeout = 30 * time.Minute

// Retrainer produces a fresh factor generation and publishes it.
// Satisfied by *factors.TrainedProvider.
type Retrainer interface {
	Retrain(ctx context.Context) (*recommend.Generation, error)
}

// TrainServiceConfig holds configuration for the training service.
type TrainServiceConfig struct {
	// OnStartup triggers a run as soon as the service starts.
	OnStartup bool

	// Interval between scheduled runs. Zero disables the schedule.
	Interval time.Duration

	// Timeout bounds each run.
	Timeout time.Duration
}

// TrainService runs scheduled retraining under supervision.
// A failed run is logged and retried on the next tick; it never
// terminates the service.
type TrainService struct {
	trainer Retrainer
	config  TrainServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewTrainService creates a new training service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainService(trainer Retrainer, cfg TrainServiceConfig, logger zerolog.Logger) *TrainService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTrainTimeout
	}
	return &TrainService{
		trainer: trainer,
		config:  cfg,
		logger:  logger.With().Str("service", "train").Logger(),
		name:    "train-service",
	}
}

// Serve implements suture.Service.
func (s *TrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("on_startup", s.config.OnStartup).
		Dur("interval", s.config.Interval).
		Msg("training service starting")

	if s.config.OnStartup {
		s.run(ctx, "startup")
	}

	if s.config.Interval <= 0 {
		s.logger.Info().Msg("scheduled training disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("training service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx, "schedule")
		}
	}
}

// run performs one training cycle under its own timeout and correlation id.
func (s *TrainService) run(ctx context.Context, trigger string) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	logger := s.logger.With().
		Str("trigger", trigger).
		Str("correlation_id", logging.CorrelationIDFromContext(ctx)).
		Logger()

	start := time.Now()
	logger.Info().Msg("training started")

	gen, err := s.trainer.Retrain(ctx)
	if err != nil {
		logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("training failed")
		return
	}

	logger.Info().
		Int64("generation", gen.ID).
		Int("rank", gen.Rank()).
		Dur("duration", time.Since(start)).
		Msg("training complete")
}

// String returns the service name for logging.
func (s *TrainService) String() string {
	return s.name
}

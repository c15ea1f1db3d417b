// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package factors

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/appranker/internal/metrics"
	"github.com/tomtom215/appranker/internal/recommend"
	"github.com/tomtom215/appranker/internal/recommend/storage"
)

// TrainedConfig configures a TrainedProvider.
type TrainedConfig struct {
	// Name identifies the provider in the store, cache keys and metrics.
	// Default: "trained".
	Name string

	// RetainGenerations is how many generations are kept in the store after
	// a training run. Default: 3.
	RetainGenerations int

	// TrainTimeout bounds one training run. Zero means no limit.
	TrainTimeout time.Duration

	// Breaker configures the training circuit breaker.
	Breaker BreakerConfig
}

// TrainedProvider serves the newest stored generation and trains one on
// demand when the store is empty.
type TrainedProvider struct {
	name    string
	store   storage.GenerationStore
	trainer recommend.Trainer
	retain  int
	timeout time.Duration
	breaker *trainingBreaker
	logger  zerolog.Logger

	group   singleflight.Group
	current atomic.Pointer[recommend.Generation]
}

// NewTrainedProvider creates a provider over store that trains with trainer.
//
//nolint:gocritic // logger passed by value, matching the rest of the code base
func NewTrainedProvider(store storage.GenerationStore, trainer recommend.Trainer, cfg TrainedConfig, logger zerolog.Logger) (*TrainedProvider, error) {
	if store == nil {
		return nil, errors.New("generation store is required")
	}
	if trainer == nil {
		return nil, errors.New("trainer is required")
	}
	if cfg.Name == "" {
		cfg.Name = "trained"
	}
	if cfg.RetainGenerations <= 0 {
		cfg.RetainGenerations = 3
	}

	logger = logger.With().Str("component", "factors").Str("provider", cfg.Name).Logger()

	return &TrainedProvider{
		name:    cfg.Name,
		store:   store,
		trainer: trainer,
		retain:  cfg.RetainGenerations,
		timeout: cfg.TrainTimeout,
		breaker: newTrainingBreaker(cfg.Name+"-training", cfg.Breaker, logger),
		logger:  logger,
	}, nil
}

// Name implements recommend.MatrixProvider.
func (p *TrainedProvider) Name() string { return p.name }

// Current implements recommend.MatrixProvider.
//
// Lookup order: in-process generation, newest stored generation, then one
// training run followed by exactly one more store lookup.
func (p *TrainedProvider) Current(ctx context.Context) (*recommend.Generation, error) {
	if gen := p.current.Load(); gen != nil {
		return gen, nil
	}

	gen, err := p.load(ctx)
	if err == nil {
		return gen, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: load generation: %w", p.name, err)
	}

	p.logger.Info().Msg("No stored generation, training")

	if _, trainErr := p.train(ctx, true); trainErr != nil {
		return nil, fmt.Errorf("%s: %w: %w", p.name, recommend.ErrModelUnavailable, trainErr)
	}

	gen, err = p.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", p.name, recommend.ErrModelUnavailable, err)
	}
	return gen, nil
}

// UserMatrix implements recommend.MatrixProvider.
func (p *TrainedProvider) UserMatrix(ctx context.Context) (*recommend.Matrix, error) {
	gen, err := p.Current(ctx)
	if err != nil {
		return nil, err
	}
	return gen.Users, nil
}

// ItemMatrix implements recommend.MatrixProvider.
func (p *TrainedProvider) ItemMatrix(ctx context.Context) (*recommend.Matrix, error) {
	gen, err := p.Current(ctx)
	if err != nil {
		return nil, err
	}
	return gen.Items, nil
}

// Retrain trains a new generation and publishes it. Score vectors cached
// for older generations become stale immediately.
func (p *TrainedProvider) Retrain(ctx context.Context) (*recommend.Generation, error) {
	gen, err := p.train(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%s: retrain: %w", p.name, err)
	}
	p.publish(gen)
	return gen, nil
}

// Invalidate drops the in-process generation; the next call reloads it from
// the store.
func (p *TrainedProvider) Invalidate() {
	p.current.Store(nil)
}

// BreakerState reports the training circuit breaker state.
func (p *TrainedProvider) BreakerState() string {
	return p.breaker.state()
}

func (p *TrainedProvider) load(ctx context.Context) (*recommend.Generation, error) {
	gen, err := p.store.Latest(ctx, p.name)
	if err != nil {
		return nil, err
	}
	p.publish(gen)
	return gen, nil
}

// publish swaps in gen unless a newer generation is already served.
func (p *TrainedProvider) publish(gen *recommend.Generation) {
	for {
		old := p.current.Load()
		if old != nil && old.ID >= gen.ID {
			return
		}
		if p.current.CompareAndSwap(old, gen) {
			metrics.RecordGeneration(p.name, gen.ID, gen.Rank())
			p.logger.Info().
				Int64("generation", gen.ID).
				Int("rank", gen.Rank()).
				Int("users", gen.Users.Cols).
				Int("items", gen.Items.Cols).
				Msg("Serving generation")
			return
		}
	}
}

// train runs one training at a time; concurrent callers share its result.
// With onlyIfMissing set, a generation that appeared in the store since the
// caller looked is returned instead of training again.
func (p *TrainedProvider) train(ctx context.Context, onlyIfMissing bool) (*recommend.Generation, error) {
	start := time.Now()

	key := "retrain"
	if onlyIfMissing {
		key = "bootstrap"
	}

	v, err, shared := p.group.Do(key, func() (interface{}, error) {
		if onlyIfMissing {
			if gen, err := p.store.Latest(ctx, p.name); err == nil {
				return gen, nil
			}
		}

		trainCtx := context.WithoutCancel(ctx)
		if p.timeout > 0 {
			var cancel context.CancelFunc
			trainCtx, cancel = context.WithTimeout(trainCtx, p.timeout)
			defer cancel()
		}
		return p.breaker.execute(func() (*recommend.Generation, error) {
			return p.trainAndSave(trainCtx)
		})
	})

	metrics.RecordTraining(p.name, time.Since(start), shared, err)
	if err != nil {
		p.logger.Error().Err(err).Bool("shared", shared).Msg("Training failed")
		return nil, err
	}

	gen, ok := v.(*recommend.Generation)
	if !ok || gen == nil {
		return nil, fmt.Errorf("training returned %T", v)
	}
	return gen, nil
}

func (p *TrainedProvider) trainAndSave(ctx context.Context) (*recommend.Generation, error) {
	start := time.Now()

	gen, err := p.trainer.Train(ctx)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	if err := gen.Validate(); err != nil {
		return nil, fmt.Errorf("trainer output: %w", err)
	}

	if err := p.store.Save(ctx, p.name, gen); err != nil {
		return nil, fmt.Errorf("save generation: %w", err)
	}

	removed, err := p.store.Prune(ctx, p.name, p.retain)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to prune old generations")
	}

	p.logger.Info().
		Int64("generation", gen.ID).
		Dur("duration", time.Since(start)).
		Int("pruned", removed).
		Msg("Training completed")

	return gen, nil
}

var _ recommend.MatrixProvider = (*TrainedProvider)(nil)

// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/appranker/internal/cache"
	"github.com/tomtom215/appranker/internal/config"
	"github.com/tomtom215/appranker/internal/database"
	"github.com/tomtom215/appranker/internal/logging"
	"github.com/tomtom215/appranker/internal/recommend"
	"github.com/tomtom215/appranker/internal/recommend/factors"
	"github.com/tomtom215/appranker/internal/recommend/filtering"
	"github.com/tomtom215/appranker/internal/recommend/reranking"
	"github.com/tomtom215/appranker/internal/recommend/storage"
)

// app holds the components one command works with.
type app struct {
	cfg        *config.Config
	logger     zerolog.Logger
	db         *database.DB
	store      storage.GenerationStore // nil for the random provider
	provider   recommend.MatrixProvider
	trained    *factors.TrainedProvider // nil for the random provider
	controller *recommend.Controller
	cache      cache.Cacher
}

// newApp opens the catalog and builds the provider. The controller and its
// pipeline are only built when withController is set.
func newApp(cfg *config.Config, withController bool) (a *app, err error) {
	a = &app{cfg: cfg, logger: logging.Logger()}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.db, err = database.New(&cfg.Database, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	if err = a.buildProvider(); err != nil {
		return nil, err
	}

	if withController {
		if err = a.buildController(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *app) buildProvider() error {
	switch a.cfg.Recommend.Provider {
	case "random":
		a.provider = factors.NewRandomProvider(a.db, factors.RandomConfig{
			Rank: a.cfg.Recommend.Rank,
			Seed: a.cfg.Recommend.Seed,
		}, a.logger)
		return nil

	case "trained":
		store, err := storage.OpenBadger(storage.BadgerConfig{
			Path:     a.cfg.Storage.Path,
			InMemory: a.cfg.Storage.InMemory,
		}, a.logger)
		if err != nil {
			return fmt.Errorf("open generation store: %w", err)
		}
		a.store = store

		trainer := factors.NewALSTrainer(a.db, factors.ALSConfig{
			Factors:        a.cfg.Training.Factors,
			Iterations:     a.cfg.Training.Iterations,
			Regularization: a.cfg.Training.Regularization,
			Alpha:          a.cfg.Training.Alpha,
			Workers:        a.cfg.Training.Workers,
		}, a.logger)

		breaker := factors.DefaultBreakerConfig()
		breaker.MinRequests = a.cfg.Training.Breaker.MinRequests
		breaker.FailureRatio = a.cfg.Training.Breaker.FailureRatio
		breaker.Timeout = a.cfg.Training.Breaker.Timeout
		breaker.Interval = a.cfg.Training.Breaker.Interval

		a.trained, err = factors.NewTrainedProvider(store, trainer, factors.TrainedConfig{
			RetainGenerations: a.cfg.Storage.RetainGenerations,
			TrainTimeout:      a.cfg.Training.Timeout,
			Breaker:           breaker,
		}, a.logger)
		if err != nil {
			return err
		}
		a.provider = a.trained
		return nil

	default:
		return fmt.Errorf("unknown provider %q", a.cfg.Recommend.Provider)
	}
}

func (a *app) buildController() error {
	rc := a.cfg.Recommend

	ctrlCfg := recommend.DefaultConfig()
	ctrlCfg.Limits.DefaultN = rc.DefaultN
	ctrlCfg.Limits.MaxN = rc.MaxN
	ctrlCfg.Cache.Enabled = rc.Cache.Enabled
	ctrlCfg.Cache.TTL = rc.Cache.TTL
	ctrlCfg.Scoring.Workers = rc.Scoring.Workers
	ctrlCfg.Scoring.ParallelThreshold = rc.Scoring.ParallelThreshold

	a.cache = cache.NewCacher(cache.CacheConfig{
		Type:     cache.CacheType(rc.Cache.Type),
		TTL:      rc.Cache.TTL,
		Capacity: rc.Cache.Capacity,
	})

	ctrl, err := recommend.NewController(ctrlCfg, a.provider, a.db, a.cache, a.logger)
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}
	a.controller = ctrl

	filters, err := filtering.BuildAll(rc.Filters, filtering.Deps{Store: a.db, Module: rc.Module})
	if err != nil {
		return err
	}
	rerankers, err := reranking.BuildAll(rc.Rerankers, reranking.Deps{
		Store:         a.db,
		Module:        rc.Module,
		CategorySlots: rc.CategorySlots,
	})
	if err != nil {
		return err
	}
	ctrl.RegisterFilters(filters...)
	ctrl.RegisterRerankers(rerankers...)

	a.logger.Debug().
		Str("provider", a.provider.Name()).
		Strs("filters", rc.Filters).
		Strs("rerankers", rc.Rerankers).
		Msg("Controller ready")
	return nil
}

// Close releases everything newApp opened.
func (a *app) Close() {
	if a.controller != nil {
		a.controller.Close()
	}
	if a.cache != nil {
		a.cache.Close()
	}
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Error().Err(err).Msg("Error during shutdown")
	}
}

// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package recommend

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/appranker/internal/cache"
	"github.com/tomtom215/appranker/internal/logging"
	"github.com/tomtom215/appranker/internal/metrics"
)

// ItemLookup translates internal item keys to external ids.
// This is typically implemented by the catalog store.
type ItemLookup interface {
	LookupItemsByKeys(ctx context.Context, keys []int) (map[int]string, error)
}

// classifyError maps pipeline errors to metric labels.
var classifyError = metrics.ClassifyBy(
	metrics.Sentinel{Err: ErrModelUnavailable, Label: "model_unavailable"},
	metrics.Sentinel{Err: ErrIntegrity, Label: "integrity"},
	metrics.Sentinel{Err: ErrNotImplemented, Label: "not_implemented"},
)

// Controller produces ranked recommendations for a user from the factor
// matrices of a MatrixProvider and an ordered pipeline of filters and
// rerankers. It is safe for concurrent use.
type Controller struct {
	name   string
	config *Config
	logger zerolog.Logger

	provider MatrixProvider
	items    ItemLookup
	client   cache.Cacher
	scorer   *Scorer
	scores   *ScoreCache

	pipeline Pipeline

	// Metrics
	requestCount   atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	errorCount     atomic.Int64
	lastGeneration atomic.Int64
	lastRequestAt  atomic.Int64
}

// NewController creates a controller named after its provider.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewController(cfg *Config, provider MatrixProvider, items ItemLookup, client cache.Cacher, logger zerolog.Logger) (*Controller, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("matrix provider is required")
	}
	if client == nil {
		return nil, fmt.Errorf("cache client is required")
	}

	scorer, err := NewScorer(cfg.Scoring)
	if err != nil {
		return nil, err
	}

	name := provider.Name()
	return &Controller{
		name:     name,
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Str("controller", name).Logger(),
		provider: provider,
		items:    items,
		client:   client,
		scorer:   scorer,
		scores:   NewScoreCache(client, name, cfg.Cache.TTL),
	}, nil
}

// Name returns the controller name (the provider name).
func (c *Controller) Name() string {
	return c.name
}

// Cache returns the shared cache client.
func (c *Controller) Cache() cache.Cacher {
	return c.client
}

// Close releases the scoring worker pool.
func (c *Controller) Close() {
	c.scorer.Close()
}

// RegisterFilters appends filters to the pipeline in call order.
func (c *Controller) RegisterFilters(filters ...Filter) {
	for _, f := range filters {
		if a, ok := f.(Attachable); ok {
			a.Attach(c)
		}
		c.logger.Info().
			Str("filter", f.Key().String()).
			Msg("registered filter")
	}
	c.pipeline.AddFilters(filters...)
}

// UnregisterFilters removes every registered filter equal to one of filters.
func (c *Controller) UnregisterFilters(filters ...Filter) int {
	removed := c.pipeline.RemoveFilters(filters...)
	c.logger.Info().Int("removed", removed).Msg("unregistered filters")
	return removed
}

// Filters returns a copy of the registered filters.
func (c *Controller) Filters() []Filter {
	return c.pipeline.Filters()
}

// RegisterRerankers appends rerankers to the pipeline in call order.
func (c *Controller) RegisterRerankers(rerankers ...Reranker) {
	for _, r := range rerankers {
		if a, ok := r.(Attachable); ok {
			a.Attach(c)
		}
		c.logger.Info().
			Str("reranker", r.Key().String()).
			Msg("registered reranker")
	}
	c.pipeline.AddRerankers(rerankers...)
}

// UnregisterRerankers removes every registered reranker equal to one of rerankers.
func (c *Controller) UnregisterRerankers(rerankers ...Reranker) int {
	removed := c.pipeline.RemoveRerankers(rerankers...)
	c.logger.Info().Int("removed", removed).Msg("unregistered rerankers")
	return removed
}

// Rerankers returns a copy of the registered rerankers.
func (c *Controller) Rerankers() []Reranker {
	return c.pipeline.Rerankers()
}

// GetRecommendation returns the first n item keys ranked for user.
// n == 0 returns an empty list and n < 0 uses the configured default.
// A positive MaxN caps n.
func (c *Controller) GetRecommendation(ctx context.Context, user *User, n int) ([]int, error) {
	start := time.Now()
	c.requestCount.Add(1)

	n = c.limit(n)
	logger := c.requestLogger(ctx, user, n)
	logger.Debug().Msg("processing recommendation request")

	ranked, err := c.recommend(ctx, user, n)
	metrics.RecordRecommendation(c.name, time.Since(start), err, classifyError)
	c.lastRequestAt.Store(time.Now().UnixNano())
	if err != nil {
		c.errorCount.Add(1)
		logger.Warn().Err(err).Msg("recommendation failed")
		return nil, err
	}

	logger.Debug().
		Int("returned", len(ranked)).
		Int64("latency_us", time.Since(start).Microseconds()).
		Msg("recommendation complete")

	return ranked, nil
}

// GetExternalIDRecommendations returns the external ids of
// GetRecommendation's result, in ranked order.
func (c *Controller) GetExternalIDRecommendations(ctx context.Context, user *User, n int) ([]string, error) {
	ranked, err := c.GetRecommendation(ctx, user, n)
	if err != nil {
		return nil, err
	}
	if c.items == nil {
		return nil, fmt.Errorf("item lookup not set")
	}

	ids, err := c.items.LookupItemsByKeys(ctx, ranked)
	if err != nil {
		return nil, fmt.Errorf("lookup external ids: %w", err)
	}

	out := make([]string, 0, len(ranked))
	for _, key := range ranked {
		id, ok := ids[key]
		if !ok {
			return nil, fmt.Errorf("lookup external ids: item %d not found", key)
		}
		out = append(out, id)
	}
	return out, nil
}

// recommend runs generation -> scores -> filters -> sort -> rerankers -> truncate.
func (c *Controller) recommend(ctx context.Context, user *User, n int) ([]int, error) {
	gen, err := c.provider.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("load factor matrices: %w", err)
	}
	c.lastGeneration.Store(gen.ID)

	scores, err := c.significance(user, gen)
	if err != nil {
		return nil, err
	}

	scores, err = c.pipeline.ApplyFilters(ctx, user, scores)
	if err != nil {
		return nil, err
	}

	ranked, err := c.pipeline.ApplyRerankers(ctx, user, Rank(scores))
	if err != nil {
		return nil, err
	}

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// significance returns the user's raw score vector for gen, served from the
// score cache when the cached entry was computed from the same generation.
// The returned vector is always private to the caller.
func (c *Controller) significance(user *User, gen *Generation) (ScoreVector, error) {
	if c.config.Cache.Enabled {
		if scores, ok := c.scores.Get(user.Key, gen.ID); ok {
			c.cacheHits.Add(1)
			metrics.RecordScoreCache(c.name, true)
			return scores, nil
		}
		c.cacheMisses.Add(1)
		metrics.RecordScoreCache(c.name, false)
	}

	scores, err := c.scorer.Score(user, gen)
	if err != nil {
		return nil, err
	}

	if c.config.Cache.Enabled {
		c.scores.Set(user.Key, gen.ID, scores)
	}
	return scores, nil
}

// limit applies the default and maximum recommendation counts.
func (c *Controller) limit(n int) int {
	if n < 0 {
		n = c.config.Limits.DefaultN
	}
	if maxN := c.config.Limits.MaxN; maxN > 0 && n > maxN {
		n = maxN
	}
	return n
}

// requestLogger creates a logger with request context.
func (c *Controller) requestLogger(ctx context.Context, user *User, n int) zerolog.Logger {
	lc := c.logger.With().
		Int("user_key", user.Key).
		Int("n", n)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	return lc.Logger()
}

// Metrics returns the current controller metrics.
func (c *Controller) Metrics() Metrics {
	m := Metrics{
		RequestCount: c.requestCount.Load(),
		CacheHits:    c.cacheHits.Load(),
		CacheMisses:  c.cacheMisses.Load(),
		ErrorCount:   c.errorCount.Load(),
		Generation:   c.lastGeneration.Load(),
	}
	if ts := c.lastRequestAt.Load(); ts != 0 {
		m.LastRequestAt = time.Unix(0, ts)
	}
	return m
}

// Ensure interface compliance.
var _ Owner = (*Controller)(nil)

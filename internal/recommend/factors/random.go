// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package factors

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/appranker/internal/metrics"
	"github.com/tomtom215/appranker/internal/recommend"
)

// DefaultRandomRank is the latent rank of random matrices.
const DefaultRandomRank = 10

// CountSource reports catalog dimensions.
type CountSource interface {
	UserCount(ctx context.Context) (int, error)
	ItemCount(ctx context.Context) (int, error)
}

// RandomConfig configures a RandomProvider.
type RandomConfig struct {
	// Rank is the latent rank. Default: 10.
	Rank int

	// Seed makes the matrices reproducible. Zero seeds from the clock.
	Seed uint64
}

// RandomProvider serves uniformly random matrices in [0, 1). A generation is
// built on first use and kept until Invalidate.
type RandomProvider struct {
	counts CountSource
	rank   int
	seed   uint64
	logger zerolog.Logger

	mu      sync.Mutex // serialises generation builds
	current atomic.Pointer[recommend.Generation]
	nextID  atomic.Int64
}

// NewRandomProvider creates a random provider sized by counts.
//
//nolint:gocritic // logger passed by value, matching the rest of the code base
func NewRandomProvider(counts CountSource, cfg RandomConfig, logger zerolog.Logger) *RandomProvider {
	if cfg.Rank <= 0 {
		cfg.Rank = DefaultRandomRank
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano()) //nolint:gosec // sign does not matter for a seed
	}
	return &RandomProvider{
		counts: counts,
		rank:   cfg.Rank,
		seed:   cfg.Seed,
		logger: logger.With().Str("component", "factors").Str("provider", "random").Logger(),
	}
}

// Name implements recommend.MatrixProvider.
func (p *RandomProvider) Name() string { return "random" }

// Current implements recommend.MatrixProvider.
func (p *RandomProvider) Current(ctx context.Context) (*recommend.Generation, error) {
	if gen := p.current.Load(); gen != nil {
		return gen, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen := p.current.Load(); gen != nil {
		return gen, nil
	}

	users, err := p.counts.UserCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: user count: %w", p.Name(), err)
	}
	items, err := p.counts.ItemCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: item count: %w", p.Name(), err)
	}

	id := p.nextID.Add(1)
	rng := rand.New(rand.NewPCG(p.seed, uint64(id))) //nolint:gosec // not security sensitive

	gen := &recommend.Generation{
		ID:        id,
		Users:     randomMatrix(rng, recommend.KindUsers, p.rank, users, id),
		Items:     randomMatrix(rng, recommend.KindItems, p.rank, items, id),
		TrainedAt: time.Now(),
	}

	p.current.Store(gen)
	metrics.RecordGeneration(p.Name(), gen.ID, gen.Rank())

	p.logger.Info().
		Int64("generation", gen.ID).
		Int("rank", p.rank).
		Int("users", users).
		Int("items", items).
		Msg("Random generation built")

	return gen, nil
}

// UserMatrix implements recommend.MatrixProvider.
func (p *RandomProvider) UserMatrix(ctx context.Context) (*recommend.Matrix, error) {
	gen, err := p.Current(ctx)
	if err != nil {
		return nil, err
	}
	return gen.Users, nil
}

// ItemMatrix implements recommend.MatrixProvider.
func (p *RandomProvider) ItemMatrix(ctx context.Context) (*recommend.Matrix, error) {
	gen, err := p.Current(ctx)
	if err != nil {
		return nil, err
	}
	return gen.Items, nil
}

// Invalidate drops the memoised generation; the next call builds a new one.
func (p *RandomProvider) Invalidate() {
	p.current.Store(nil)
}

func randomMatrix(rng *rand.Rand, kind recommend.MatrixKind, rank, cols int, gen int64) *recommend.Matrix {
	m := recommend.NewMatrix(kind, rank, cols, gen)
	for i := range m.Data {
		m.Data[i] = rng.Float64()
	}
	return m
}

var _ recommend.MatrixProvider = (*RandomProvider)(nil)

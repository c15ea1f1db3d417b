// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package recommend

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/tomtom215/appranker/internal/cache"
	"github.com/tomtom215/appranker/internal/metrics"
)

// Owner is the non-owning back-reference a transform receives when it is
// registered with a controller.
type Owner interface {
	// Name identifies the owning controller.
	Name() string

	// Cache returns the shared cache client.
	Cache() cache.Cacher
}

// Attachable is implemented by transforms that need their owner's shared
// resources. Attach is called once per registration.
type Attachable interface {
	Attach(owner Owner)
}

// Pipeline holds the ordered filters and rerankers of a controller.
// Order is significant: each transform sees the output of the previous one.
type Pipeline struct {
	mu        sync.RWMutex
	filters   []Filter
	rerankers []Reranker
}

// AddFilters appends filters in call order.
func (p *Pipeline) AddFilters(filters ...Filter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters = append(p.filters, filters...)
}

// RemoveFilters removes every filter whose key equals the key of one of the
// given filters. Returns the number removed.
func (p *Pipeline) RemoveFilters(filters ...Filter) int {
	keys := make(map[TransformKey]struct{}, len(filters))
	for _, f := range filters {
		keys[f.Key()] = struct{}{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	before := len(p.filters)
	p.filters = slices.DeleteFunc(slices.Clone(p.filters), func(f Filter) bool {
		_, ok := keys[f.Key()]
		return ok
	})
	return before - len(p.filters)
}

// Filters returns a copy of the registered filters.
func (p *Pipeline) Filters() []Filter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.filters)
}

// AddRerankers appends rerankers in call order.
func (p *Pipeline) AddRerankers(rerankers ...Reranker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rerankers = append(p.rerankers, rerankers...)
}

// RemoveRerankers removes every reranker whose key equals the key of one of
// the given rerankers. Returns the number removed.
func (p *Pipeline) RemoveRerankers(rerankers ...Reranker) int {
	keys := make(map[TransformKey]struct{}, len(rerankers))
	for _, r := range rerankers {
		keys[r.Key()] = struct{}{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	before := len(p.rerankers)
	p.rerankers = slices.DeleteFunc(slices.Clone(p.rerankers), func(r Reranker) bool {
		_, ok := keys[r.Key()]
		return ok
	})
	return before - len(p.rerankers)
}

// Rerankers returns a copy of the registered rerankers.
func (p *Pipeline) Rerankers() []Reranker {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.rerankers)
}

// ApplyFilters runs every filter in registration order over scores.
// A filter that changes the vector length is an integrity violation.
func (p *Pipeline) ApplyFilters(ctx context.Context, user *User, scores ScoreVector) (ScoreVector, error) {
	want := len(scores)
	for _, f := range p.Filters() {
		start := time.Now()
		out, err := f.Apply(ctx, user, scores)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", f.Key(), err)
		}
		if len(out) != want {
			return nil, &IntegrityError{Transform: f.Key(), Want: want, Got: len(out)}
		}
		metrics.RecordTransform("filter", f.Key().Kind, time.Since(start))
		scores = out
	}
	return scores, nil
}

// ApplyRerankers runs every reranker in registration order over ranked.
// A reranker that changes the list length is an integrity violation.
func (p *Pipeline) ApplyRerankers(ctx context.Context, user *User, ranked []int) ([]int, error) {
	want := len(ranked)
	for _, r := range p.Rerankers() {
		start := time.Now()
		out, err := r.Rerank(ctx, user, ranked)
		if err != nil {
			return nil, fmt.Errorf("reranker %s: %w", r.Key(), err)
		}
		if len(out) != want {
			return nil, &IntegrityError{Transform: r.Key(), Want: want, Got: len(out)}
		}
		metrics.RecordTransform("reranker", r.Key().Kind, time.Since(start))
		ranked = out
	}
	return ranked, nil
}

// Rank returns the 1-based item keys ordered by score descending. Equal
// scores keep ascending key order; NaN sorts after -Inf.
func Rank(scores ScoreVector) []int {
	ranked := make([]int, len(scores))
	for i := range ranked {
		ranked[i] = i + 1
	}

	slices.SortStableFunc(ranked, func(a, b int) int {
		return compareDesc(scores[a-1], scores[b-1])
	})
	return ranked
}

func compareDesc(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	return cmp.Compare(b, a)
}

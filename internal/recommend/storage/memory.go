// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/tomtom215/appranker/internal/metrics"
	"github.com/tomtom215/appranker/internal/recommend"
)

// MemoryStore keeps generations in process memory. Generations are treated
// as immutable and stored by reference.
type MemoryStore struct {
	mu          sync.RWMutex
	generations map[string][]*recommend.Generation // ascending by ID
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{generations: make(map[string][]*recommend.Generation)}
}

// Latest implements GenerationStore.
func (s *MemoryStore) Latest(_ context.Context, name string) (*recommend.Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gens := s.generations[name]
	if len(gens) == 0 {
		metrics.RecordStoreOp("memory", "latest", ErrNotFound)
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	metrics.RecordStoreOp("memory", "latest", nil)
	return gens[len(gens)-1], nil
}

// Save implements GenerationStore. Saving an existing ID replaces it.
func (s *MemoryStore) Save(_ context.Context, name string, gen *recommend.Generation) error {
	if err := gen.Validate(); err != nil {
		metrics.RecordStoreOp("memory", "save", err)
		return fmt.Errorf("invalid generation: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gens := s.generations[name]
	i, found := slices.BinarySearchFunc(gens, gen.ID, func(g *recommend.Generation, id int64) int {
		switch {
		case g.ID < id:
			return -1
		case g.ID > id:
			return 1
		default:
			return 0
		}
	})
	if found {
		gens[i] = gen
	} else {
		gens = slices.Insert(gens, i, gen)
	}
	s.generations[name] = gens

	metrics.RecordStoreOp("memory", "save", nil)
	return nil
}

// Prune implements GenerationStore.
func (s *MemoryStore) Prune(_ context.Context, name string, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gens := s.generations[name]
	if len(gens) <= keep {
		return 0, nil
	}

	removed := len(gens) - keep
	s.generations[name] = slices.Clone(gens[removed:])
	metrics.RecordStoreOp("memory", "prune", nil)
	return removed, nil
}

// Close implements GenerationStore.
func (s *MemoryStore) Close() error {
	return nil
}

var _ GenerationStore = (*MemoryStore)(nil)

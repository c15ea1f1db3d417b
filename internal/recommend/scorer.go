// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package recommend

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Scorer computes significance vectors from a factor matrix generation.
//
// Score is a pure function of (user key, generation). Large catalogs are
// scored in item chunks on a shared worker pool.
type Scorer struct {
	pool      *ants.Pool
	workers   int
	threshold int
}

// NewScorer creates a scorer. A worker pool is only allocated when
// cfg.Workers > 1.
func NewScorer(cfg ScoringConfig) (*Scorer, error) {
	s := &Scorer{
		workers:   cfg.Workers,
		threshold: cfg.ParallelThreshold,
	}

	if cfg.Workers > 1 {
		pool, err := ants.NewPool(cfg.Workers)
		if err != nil {
			return nil, fmt.Errorf("failed to create scoring worker pool: %w", err)
		}
		s.pool = pool
	}

	return s, nil
}

// Close releases the worker pool.
func (s *Scorer) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// Score returns s[a] = sum_f U[f][user.Key-1] * I[f][a] for every item a.
// The result has one entry per item matrix column.
func (s *Scorer) Score(user *User, gen *Generation) (ScoreVector, error) {
	if gen == nil || gen.Users == nil || gen.Items == nil {
		return nil, fmt.Errorf("score user %d: %w", user.Key, ErrModelUnavailable)
	}
	if gen.Users.Rows != gen.Items.Rows {
		return nil, fmt.Errorf("score user %d: rank mismatch (users %d, items %d)",
			user.Key, gen.Users.Rows, gen.Items.Rows)
	}

	// Column() panics on out-of-range keys, which is the caller's contract.
	userVec := gen.Users.Column(user.Key - 1)
	items := gen.Items
	scores := make(ScoreVector, items.Cols)

	if s.pool == nil || items.Cols <= s.threshold {
		scoreRange(userVec, items, scores, 0, items.Cols)
		return scores, nil
	}

	s.scoreParallel(userVec, items, scores)
	return scores, nil
}

// scoreParallel splits columns into one chunk per worker. Each chunk writes
// a disjoint range of scores.
func (s *Scorer) scoreParallel(userVec []float64, items *Matrix, scores ScoreVector) {
	var wg sync.WaitGroup
	chunkSize := (items.Cols + s.workers - 1) / s.workers

	for w := 0; w < s.workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > items.Cols {
			end = items.Cols
		}
		if start >= end {
			break
		}

		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()
			scoreRange(userVec, items, scores, start, end)
		}); err != nil {
			wg.Done()
			// pool closed or overloaded; score inline
			scoreRange(userVec, items, scores, start, end)
		}
	}

	wg.Wait()
}

// scoreRange walks the item matrix row by row so memory access stays
// sequential.
func scoreRange(userVec []float64, items *Matrix, scores ScoreVector, start, end int) {
	for f, u := range userVec {
		row := items.Data[f*items.Cols : (f+1)*items.Cols]
		for a := start; a < end; a++ {
			scores[a] += u * row[a]
		}
	}
}

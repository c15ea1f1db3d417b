// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package factors

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/tomtom215/appranker/internal/recommend"
	"github.com/tomtom215/appranker/internal/recommend/storage"
)

// fakeSource is an in-memory InteractionSource.
type fakeSource struct {
	users, items int
	interactions []recommend.Interaction
	err          error
}

func (s *fakeSource) UserCount(context.Context) (int, error) { return s.users, s.err }
func (s *fakeSource) ItemCount(context.Context) (int, error) { return s.items, s.err }

func (s *fakeSource) Interactions(context.Context) ([]recommend.Interaction, error) {
	return s.interactions, s.err
}

// countingTrainer returns rank-2 generations with increasing ids.
type countingTrainer struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (t *countingTrainer) Train(ctx context.Context) (*recommend.Generation, error) {
	n := t.calls.Add(1)
	if t.delay > 0 {
		select {
		case <-time.After(t.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if t.err != nil {
		return nil, t.err
	}

	id := int64(n)
	users := recommend.NewMatrix(recommend.KindUsers, 2, 3, id)
	items := recommend.NewMatrix(recommend.KindItems, 2, 4, id)
	for i := range items.Data {
		items.Data[i] = float64(i) + float64(id)
	}
	return &recommend.Generation{ID: id, Users: users, Items: items, TrainedAt: time.Now()}, nil
}

// droppingStore accepts saves but never returns them.
type droppingStore struct {
	*storage.MemoryStore
	saves atomic.Int32
}

func (s *droppingStore) Latest(context.Context, string) (*recommend.Generation, error) {
	return nil, storage.ErrNotFound
}

func (s *droppingStore) Save(context.Context, string, *recommend.Generation) error {
	s.saves.Add(1)
	return nil
}

// brokenStore fails every lookup.
type brokenStore struct {
	*storage.MemoryStore
}

var errDiskGone = errors.New("disk gone")

func (s *brokenStore) Latest(context.Context, string) (*recommend.Generation, error) {
	return nil, errDiskGone
}

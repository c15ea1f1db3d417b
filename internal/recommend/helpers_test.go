// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package recommend

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
)

// staticProvider serves one fixed generation.
type staticProvider struct {
	name  string
	gen   atomic.Pointer[Generation]
	err   error
	calls atomic.Int32
}

func newStaticProvider(name string, gen *Generation) *staticProvider {
	p := &staticProvider{name: name}
	p.gen.Store(gen)
	return p
}

func (p *staticProvider) Name() string { return p.name }

func (p *staticProvider) Current(_ context.Context) (*Generation, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.gen.Load(), nil
}

func (p *staticProvider) UserMatrix(ctx context.Context) (*Matrix, error) {
	gen, err := p.Current(ctx)
	if err != nil {
		return nil, err
	}
	return gen.Users, nil
}

func (p *staticProvider) ItemMatrix(ctx context.Context) (*Matrix, error) {
	gen, err := p.Current(ctx)
	if err != nil {
		return nil, err
	}
	return gen.Items, nil
}

// rankOneGeneration builds a rank-1 generation where every user factor is 1,
// so the score of item a equals itemScores[a].
func rankOneGeneration(id int64, users int, itemScores []float64) *Generation {
	u := NewMatrix(KindUsers, 1, users, id)
	for c := 0; c < users; c++ {
		u.Set(0, c, 1)
	}
	it := NewMatrix(KindItems, 1, len(itemScores), id)
	copy(it.Data, itemScores)
	return &Generation{ID: id, Users: u, Items: it}
}

// installedFilter sets installed items to -Inf.
type installedFilter struct{}

func (installedFilter) Key() TransformKey { return TransformKey{Kind: "installed"} }

func (installedFilter) Apply(_ context.Context, user *User, scores ScoreVector) (ScoreVector, error) {
	for _, key := range user.InstalledApps {
		scores[key-1] = math.Inf(-1)
	}
	return scores, nil
}

// boostFilter adds a constant to one item.
type boostFilter struct {
	item  int
	delta float64
}

func (f boostFilter) Key() TransformKey {
	return TransformKey{Kind: "boost", Params: fmt.Sprintf("item=%d,delta=%g", f.item, f.delta)}
}

func (f boostFilter) Apply(_ context.Context, _ *User, scores ScoreVector) (ScoreVector, error) {
	scores[f.item-1] += f.delta
	return scores, nil
}

// truncatingFilter breaks the length invariant.
type truncatingFilter struct{}

func (truncatingFilter) Key() TransformKey { return TransformKey{Kind: "truncate"} }

func (truncatingFilter) Apply(_ context.Context, _ *User, scores ScoreVector) (ScoreVector, error) {
	return scores[:len(scores)-1], nil
}

// reverseReranker reverses the ranked list.
type reverseReranker struct{}

func (reverseReranker) Key() TransformKey { return TransformKey{Kind: "reverse"} }

func (reverseReranker) Rerank(_ context.Context, _ *User, ranked []int) ([]int, error) {
	out := make([]int, len(ranked))
	for i, id := range ranked {
		out[len(ranked)-1-i] = id
	}
	return out, nil
}

// droppingReranker breaks the permutation invariant.
type droppingReranker struct{}

func (droppingReranker) Key() TransformKey { return TransformKey{Kind: "drop"} }

func (droppingReranker) Rerank(_ context.Context, _ *User, ranked []int) ([]int, error) {
	return ranked[1:], nil
}

// attachingReranker records its owner.
type attachingReranker struct {
	owner Owner
}

func (r *attachingReranker) Key() TransformKey { return TransformKey{Kind: "attaching"} }

func (r *attachingReranker) Attach(owner Owner) { r.owner = owner }

func (r *attachingReranker) Rerank(_ context.Context, _ *User, ranked []int) ([]int, error) {
	return ranked, nil
}

// mapLookup implements ItemLookup.
type mapLookup map[int]string

func (m mapLookup) LookupItemsByKeys(_ context.Context, keys []int) (map[int]string, error) {
	out := make(map[int]string, len(keys))
	for _, k := range keys {
		if id, ok := m[k]; ok {
			out[k] = id
		}
	}
	return out, nil
}

// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package reranking

import (
	"context"

	"github.com/tomtom215/appranker/internal/catalog"
	"github.com/tomtom215/appranker/internal/recommend"
	"github.com/tomtom215/appranker/internal/region"
)

// Region moves apps the user cannot install to the end of the list.
type Region struct {
	tools  *region.Tools
	module string
	cache  recommend.CacheBinding
}

// NewRegion creates a region reranker for apps of module. An empty module
// covers every app.
func NewRegion(tools *region.Tools, module string) *Region {
	return &Region{tools: tools, module: module}
}

// Key implements recommend.Reranker.
func (r *Region) Key() recommend.TransformKey {
	return recommend.TransformKey{Kind: KindRegion, Params: r.module}
}

// Attach implements recommend.Attachable. Availability is cached per
// module.
func (r *Region) Attach(owner recommend.Owner) {
	r.cache.Bind(owner, r.Key().String())
}

// Rerank keeps apps available in any of user.Regions or worldwide first
// and moves the others behind them. Both groups keep their order.
func (r *Region) Rerank(ctx context.Context, user *recommend.User, ranked []int) ([]int, error) {
	available, err := r.availability(ctx, user)
	if err != nil {
		return nil, err
	}

	out := make([]int, 0, len(ranked))
	var unavailable []int
	for _, key := range ranked {
		if key >= 1 && key <= len(available) && available[key-1] > 0 {
			out = append(out, key)
		} else {
			unavailable = append(unavailable, key)
		}
	}
	return append(out, unavailable...), nil
}

func (r *Region) availability(ctx context.Context, user *recommend.User) ([]float64, error) {
	if raw, ok := r.cache.Load(user.ExternalID); ok {
		if list, ok := raw.([]float64); ok {
			return list, nil
		}
	}

	regions := user.Regions
	if len(regions) == 0 {
		regions = []string{catalog.Worldwide}
	}

	var list []float64
	for _, reg := range regions {
		avail, err := r.tools.GetItemListByRegion(ctx, r.module, reg)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = avail
			continue
		}
		for i := range min(len(list), len(avail)) {
			list[i] = max(list[i], avail[i])
		}
	}
	r.cache.Store(user.ExternalID, list)
	return list, nil
}

// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package filtering

import (
	"context"

	"github.com/tomtom215/appranker/internal/recommend"
	"github.com/tomtom215/appranker/internal/region"
)

// RegionPenaltyWeight is the score lost per user region an app is
// unavailable in.
const RegionPenaltyWeight = 1000

// RegionPenalty pushes apps unavailable in the user's regions down without
// removing them.
type RegionPenalty struct {
	tools  *region.Tools
	module string
}

// NewRegionPenalty creates a region penalty filter for apps of module.
// An empty module covers every app.
func NewRegionPenalty(tools *region.Tools, module string) *RegionPenalty {
	return &RegionPenalty{tools: tools, module: module}
}

// Key implements recommend.Filter.
func (r *RegionPenalty) Key() recommend.TransformKey {
	return recommend.TransformKey{Kind: KindRegion, Params: r.module}
}

// Apply adds (available - 1) * RegionPenaltyWeight to each score, where
// available counts the user regions the app can be installed in. Users
// without regions are left unchanged.
func (r *RegionPenalty) Apply(ctx context.Context, user *recommend.User, scores recommend.ScoreVector) (recommend.ScoreVector, error) {
	regions, err := r.tools.GetUserRegions(ctx, user.ExternalID)
	if err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return scores, nil
	}

	available := make([]float64, len(scores))
	for _, reg := range regions {
		list, err := r.tools.GetItemListByRegion(ctx, r.module, reg)
		if err != nil {
			return nil, err
		}
		for i := range min(len(list), len(available)) {
			available[i] += list[i]
		}
	}

	for i := range scores {
		scores[i] += (available[i] - 1) * RegionPenaltyWeight
	}
	return scores, nil
}

// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package filtering

import (
	"context"
	"math"

	"github.com/tomtom215/appranker/internal/recommend"
)

// Installed excludes the apps a user already has.
type Installed struct{}

// NewInstalled creates the installed-apps filter.
func NewInstalled() *Installed {
	return &Installed{}
}

// Key implements recommend.Filter.
func (*Installed) Key() recommend.TransformKey {
	return recommend.TransformKey{Kind: KindInstalled}
}

// Apply sets the score of every installed app to -Inf.
func (*Installed) Apply(_ context.Context, user *recommend.User, scores recommend.ScoreVector) (recommend.ScoreVector, error) {
	excludeKeys(scores, user.InstalledApps)
	return scores, nil
}

// excludeKeys sets scores of keys to -Inf, ignoring keys outside the vector.
func excludeKeys(scores recommend.ScoreVector, keys []int) {
	for _, k := range keys {
		if k >= 1 && k <= len(scores) {
			scores[k-1] = math.Inf(-1)
		}
	}
}

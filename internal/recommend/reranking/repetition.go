// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package reranking

import (
	"context"

	"github.com/tomtom215/appranker/internal/recommend"
)

// Repetition moves apps the user already has to the tail of the list.
type Repetition struct{}

// NewRepetition creates the repetition reranker.
func NewRepetition() *Repetition {
	return &Repetition{}
}

// Key implements recommend.Reranker.
func (*Repetition) Key() recommend.TransformKey {
	return recommend.TransformKey{Kind: KindRepetition}
}

// Rerank appends the installed apps present in ranked after the rest, in
// the user's listing order.
func (*Repetition) Rerank(_ context.Context, user *recommend.User, ranked []int) ([]int, error) {
	if len(user.InstalledApps) == 0 {
		return ranked, nil
	}

	present := make(map[int]int, len(ranked))
	for _, key := range ranked {
		present[key]++
	}

	installed := make(map[int]struct{}, len(user.InstalledApps))
	tail := make([]int, 0, len(user.InstalledApps))
	for _, key := range user.InstalledApps {
		if _, dup := installed[key]; dup {
			continue
		}
		installed[key] = struct{}{}
		for range present[key] {
			tail = append(tail, key)
		}
	}

	out := make([]int, 0, len(ranked))
	for _, key := range ranked {
		if _, ok := installed[key]; !ok {
			out = append(out, key)
		}
	}
	return append(out, tail...), nil
}

// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package filtering

import (
	"context"
	"fmt"
	"slices"

	"github.com/tomtom215/appranker/internal/catalog"
	"github.com/tomtom215/appranker/internal/recommend"
)

// Locale excludes apps that do not support the user's locale.
type Locale struct {
	store catalog.Store
	cache recommend.CacheBinding
}

// NewLocale creates a locale filter backed by store.
func NewLocale(store catalog.Store) *Locale {
	return &Locale{store: store}
}

// Key implements recommend.Filter.
func (*Locale) Key() recommend.TransformKey {
	return recommend.TransformKey{Kind: KindLocale}
}

// Attach implements recommend.Attachable.
func (l *Locale) Attach(owner recommend.Owner) {
	l.cache.Bind(owner, KindLocale)
}

// Apply sets the score of every app lacking user.Locale to -Inf. A user
// without a locale is left unfiltered.
func (l *Locale) Apply(ctx context.Context, user *recommend.User, scores recommend.ScoreVector) (recommend.ScoreVector, error) {
	if user.Locale == "" {
		return scores, nil
	}

	keys, err := l.excluded(ctx, user)
	if err != nil {
		return nil, err
	}
	excludeKeys(scores, keys)
	return scores, nil
}

func (l *Locale) excluded(ctx context.Context, user *recommend.User) ([]int, error) {
	if raw, ok := l.cache.Load(user.ExternalID); ok {
		if keys, ok := raw.([]int); ok {
			return keys, nil
		}
	}

	keys, err := l.store.ItemsWithoutLocale(ctx, user.Locale)
	if err != nil {
		return nil, fmt.Errorf("items without locale %q: %w", user.Locale, err)
	}
	l.cache.Store(user.ExternalID, slices.Clip(keys))
	return keys, nil
}

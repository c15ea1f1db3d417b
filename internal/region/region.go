// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

// Package region answers region availability questions for the ranking
// transforms: which regions a user belongs to and which items can be
// installed there.
package region

import (
	"context"
	"fmt"

	"github.com/tomtom215/appranker/internal/catalog"
)

// Tools resolves region membership against a catalog store.
type Tools struct {
	store catalog.Store
}

// NewTools creates region tools over store.
func NewTools(store catalog.Store) *Tools {
	return &Tools{store: store}
}

// GetUserRegions returns the regions of the user with externalID.
// Worldwide is implicit and not included.
func (t *Tools) GetUserRegions(ctx context.Context, externalID string) ([]string, error) {
	regions, err := t.store.UserRegions(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("user regions: %w", err)
	}
	return regions, nil
}

// GetItemListByRegion returns one entry per item, index = key - 1: 1 when
// the item of module is available in region or worldwide, 0 otherwise.
// An empty module matches every item.
func (t *Tools) GetItemListByRegion(ctx context.Context, module, region string) ([]float64, error) {
	count, err := t.store.ItemCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("item count: %w", err)
	}
	keys, err := t.store.ItemsByRegion(ctx, module, region)
	if err != nil {
		return nil, fmt.Errorf("items in region %q: %w", region, err)
	}

	list := make([]float64, count)
	for _, k := range keys {
		if k >= 1 && k <= count {
			list[k-1] = 1
		}
	}
	return list, nil
}

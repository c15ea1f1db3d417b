// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/tomtom215/appranker/internal/recommend"
)

// MemoryStore is an immutable Store over in-process slices.
type MemoryStore struct {
	users      []recommend.User // index = key - 1
	items      []recommend.Item // index = key - 1
	byExternal map[string]int   // user external id -> index
}

// NewMemoryStore builds a store from users and items. Keys must be dense
// and 1-based in each slice, in any order.
func NewMemoryStore(users []recommend.User, items []recommend.Item) (*MemoryStore, error) {
	s := &MemoryStore{
		users:      make([]recommend.User, len(users)),
		items:      make([]recommend.Item, len(items)),
		byExternal: make(map[string]int, len(users)),
	}

	for _, u := range users {
		if u.Key < 1 || u.Key > len(users) || s.users[u.Key-1].Key != 0 {
			return nil, fmt.Errorf("user %q key %d: %w", u.ExternalID, u.Key, ErrInvalidKey)
		}
		if _, dup := s.byExternal[u.ExternalID]; dup {
			return nil, fmt.Errorf("user %q: duplicate external id: %w", u.ExternalID, ErrInvalidKey)
		}
		u.Regions = slices.Clone(u.Regions)
		u.InstalledApps = slices.Clone(u.InstalledApps)
		s.users[u.Key-1] = u
		s.byExternal[u.ExternalID] = u.Key - 1
	}
	for _, it := range items {
		if it.Key < 1 || it.Key > len(items) || s.items[it.Key-1].Key != 0 {
			return nil, fmt.Errorf("item %q key %d: %w", it.ExternalID, it.Key, ErrInvalidKey)
		}
		s.items[it.Key-1] = it
	}

	return s, nil
}

// UserCount implements Store.
func (s *MemoryStore) UserCount(context.Context) (int, error) {
	return len(s.users), nil
}

// ItemCount implements Store.
func (s *MemoryStore) ItemCount(context.Context) (int, error) {
	return len(s.items), nil
}

// User implements Store.
func (s *MemoryStore) User(_ context.Context, externalID string) (*recommend.User, error) {
	i, ok := s.byExternal[externalID]
	if !ok {
		return nil, fmt.Errorf("%q: %w", externalID, ErrUserNotFound)
	}
	u := s.users[i]
	u.Regions = slices.Clone(u.Regions)
	u.InstalledApps = slices.Clone(u.InstalledApps)
	return &u, nil
}

// LookupItemsByKeys implements Store.
func (s *MemoryStore) LookupItemsByKeys(_ context.Context, keys []int) (map[int]string, error) {
	out := make(map[int]string, len(keys))
	for _, k := range keys {
		if k >= 1 && k <= len(s.items) {
			out[k] = s.items[k-1].ExternalID
		}
	}
	return out, nil
}

// ItemsWithoutLocale implements Store.
func (s *MemoryStore) ItemsWithoutLocale(_ context.Context, locale string) ([]int, error) {
	var keys []int
	for _, it := range s.items {
		if !slices.Contains(it.Locales, locale) {
			keys = append(keys, it.Key)
		}
	}
	return keys, nil
}

// ItemsByRegion implements Store.
func (s *MemoryStore) ItemsByRegion(_ context.Context, module, region string) ([]int, error) {
	var keys []int
	for _, it := range s.items {
		if module != "" && it.Module != module {
			continue
		}
		if slices.Contains(it.Regions, region) || slices.Contains(it.Regions, Worldwide) {
			keys = append(keys, it.Key)
		}
	}
	return keys, nil
}

// UserRegions implements Store.
func (s *MemoryStore) UserRegions(_ context.Context, externalID string) ([]string, error) {
	i, ok := s.byExternal[externalID]
	if !ok {
		return nil, fmt.Errorf("%q: %w", externalID, ErrUserNotFound)
	}
	return slices.Clone(s.users[i].Regions), nil
}

// ItemCategories implements Store.
func (s *MemoryStore) ItemCategories(_ context.Context, keys []int) (map[int][]string, error) {
	out := make(map[int][]string, len(keys))
	for _, k := range keys {
		if k >= 1 && k <= len(s.items) {
			out[k] = slices.Clone(s.items[k-1].Categories)
		}
	}
	return out, nil
}

// Interactions implements Store.
func (s *MemoryStore) Interactions(context.Context) ([]recommend.Interaction, error) {
	var out []recommend.Interaction
	for _, u := range s.users {
		for _, k := range u.InstalledApps {
			out = append(out, recommend.Interaction{UserKey: u.Key, ItemKey: k, Confidence: 1})
		}
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)

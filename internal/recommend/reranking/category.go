// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package reranking

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/tomtom215/appranker/internal/catalog"
	"github.com/tomtom215/appranker/internal/recommend"
)

const (
	// DefaultCategorySlots is the default n of the category reranker.
	DefaultCategorySlots = 4

	// CategoryPart is the share of the ranked list, from the top, that
	// category picks are drawn from.
	CategoryPart = 0.33
)

// CategoryMass is the share of a user's installed apps in one category.
type CategoryMass struct {
	Category string
	Mass     float64
}

// Category promotes apps from the user's favourite categories into the
// first n positions.
type Category struct {
	store catalog.Store
	n     int
	cache recommend.CacheBinding
}

// NewCategory creates a category reranker with n slots. n <= 0 uses
// DefaultCategorySlots.
func NewCategory(store catalog.Store, n int) *Category {
	if n <= 0 {
		n = DefaultCategorySlots
	}
	return &Category{store: store, n: n}
}

// Key implements recommend.Reranker.
func (c *Category) Key() recommend.TransformKey {
	return recommend.TransformKey{Kind: KindCategory, Params: strconv.Itoa(c.n)}
}

// Attach implements recommend.Attachable.
func (c *Category) Attach(owner recommend.Owner) {
	c.cache.Bind(owner, KindCategory)
}

// Rerank picks, for each reserved category slot, the best-ranked unpicked
// app of that category from the top CategoryPart of ranked and moves the
// picks so they end at position n.
func (c *Category) Rerank(ctx context.Context, user *recommend.User, ranked []int) ([]int, error) {
	profile, err := c.Profile(ctx, user)
	if err != nil {
		return nil, err
	}
	prefs := categorySlots(profile, c.n)
	if len(prefs) == 0 {
		return ranked, nil
	}

	head := ranked[:int(float64(len(ranked))*CategoryPart)]
	cats, err := c.store.ItemCategories(ctx, head)
	if err != nil {
		return nil, fmt.Errorf("categories of ranked apps: %w", err)
	}

	byCategory := make(map[string][]int)
	for _, key := range head {
		for _, cat := range cats[key] {
			byCategory[cat] = append(byCategory[cat], key)
		}
	}

	picked := make(map[int]struct{}, len(prefs))
	picks := make([]int, 0, len(prefs))
	for _, cat := range prefs {
		for _, key := range byCategory[cat] {
			if _, ok := picked[key]; !ok {
				picked[key] = struct{}{}
				picks = append(picks, key)
				break
			}
		}
	}
	if len(picks) == 0 {
		return ranked, nil
	}

	rest := make([]int, 0, len(ranked))
	for _, key := range ranked {
		if _, ok := picked[key]; !ok {
			rest = append(rest, key)
		}
	}

	at := min(max(c.n-len(picks), 0), len(rest))
	out := make([]int, 0, len(ranked))
	out = append(out, rest[:at]...)
	out = append(out, picks...)
	out = append(out, rest[at:]...)

	if len(out) != len(ranked) {
		return nil, &recommend.IntegrityError{Transform: c.Key(), Want: len(ranked), Got: len(out)}
	}
	return out, nil
}

// Profile returns the user's category masses ordered by mass descending,
// ties by category name. A user without installed apps has none.
func (c *Category) Profile(ctx context.Context, user *recommend.User) ([]CategoryMass, error) {
	if raw, ok := c.cache.Load(user.ExternalID); ok {
		if profile, ok := raw.([]CategoryMass); ok {
			return profile, nil
		}
	}

	profile, err := c.buildProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	c.cache.Store(user.ExternalID, profile)
	return profile, nil
}

func (c *Category) buildProfile(ctx context.Context, user *recommend.User) ([]CategoryMass, error) {
	if len(user.InstalledApps) == 0 {
		return nil, nil
	}

	cats, err := c.store.ItemCategories(ctx, user.InstalledApps)
	if err != nil {
		return nil, fmt.Errorf("categories of installed apps: %w", err)
	}

	counts := make(map[string]int)
	for _, key := range user.InstalledApps {
		for _, cat := range cats[key] {
			counts[cat]++
		}
	}

	total := float64(len(user.InstalledApps))
	profile := make([]CategoryMass, 0, len(counts))
	for cat, n := range counts {
		profile = append(profile, CategoryMass{Category: cat, Mass: float64(n) / total})
	}
	slices.SortFunc(profile, func(a, b CategoryMass) int {
		if d := cmp.Compare(b.Mass, a.Mass); d != 0 {
			return d
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return profile, nil
}

// categorySlots expands profile into one entry per reserved slot. Each
// category gets floor(mass * n) slots; expansion stops once more than n/2
// slots are reserved.
func categorySlots(profile []CategoryMass, n int) []string {
	var (
		slots []string
		total int
	)
	for _, p := range profile {
		k := int(math.Floor(p.Mass * float64(n)))
		total += k
		for range k {
			slots = append(slots, p.Category)
		}
		if float64(total) > float64(n)/2 {
			break
		}
	}
	return slots
}

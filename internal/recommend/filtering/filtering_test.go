// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package filtering

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/appranker/internal/cache"
	"github.com/tomtom215/appranker/internal/catalog"
	"github.com/tomtom215/appranker/internal/recommend"
	"github.com/tomtom215/appranker/internal/region"
)

var negInf = math.Inf(-1)

type testOwner struct {
	client cache.Cacher
}

func (testOwner) Name() string          { return "test" }
func (o testOwner) Cache() cache.Cacher { return o.client }

// countingStore counts locale lookups.
type countingStore struct {
	catalog.Store
	localeCalls atomic.Int32
}

func (s *countingStore) ItemsWithoutLocale(ctx context.Context, locale string) ([]int, error) {
	s.localeCalls.Add(1)
	return s.Store.ItemsWithoutLocale(ctx, locale)
}

type staticProvider struct {
	gen *recommend.Generation
}

func (staticProvider) Name() string { return "static" }

func (p staticProvider) Current(context.Context) (*recommend.Generation, error) { return p.gen, nil }

func (p staticProvider) UserMatrix(context.Context) (*recommend.Matrix, error) { return p.gen.Users, nil }

func (p staticProvider) ItemMatrix(context.Context) (*recommend.Matrix, error) { return p.gen.Items, nil }

func newTestStore(t *testing.T) *catalog.MemoryStore {
	t.Helper()
	store, err := catalog.NewMemoryStore(
		[]recommend.User{
			{Key: 1, ExternalID: "alice", Locale: "pt", Regions: []string{"pt"}, InstalledApps: []int{2}},
			{Key: 2, ExternalID: "bob", Locale: "en"},
			{Key: 3, ExternalID: "carol", Locale: "pt", Regions: []string{"pt", "br"}},
		},
		[]recommend.Item{
			{Key: 1, ExternalID: "a", Module: "store", Locales: []string{"pt", "en"}, Regions: []string{"pt"}},
			{Key: 2, ExternalID: "b", Module: "store", Locales: []string{"en"}, Regions: []string{catalog.Worldwide}},
			{Key: 3, ExternalID: "c", Module: "store", Locales: []string{"pt"}, Regions: []string{"br"}},
		},
	)
	if err != nil {
		t.Fatalf("NewMemoryStore() error = %v", err)
	}
	return store
}

func userOf(t *testing.T, store catalog.Store, id string) *recommend.User {
	t.Helper()
	u, err := store.User(context.Background(), id)
	if err != nil {
		t.Fatalf("User(%q) error = %v", id, err)
	}
	return u
}

func TestInstalled_Apply(t *testing.T) {
	t.Parallel()

	user := &recommend.User{InstalledApps: []int{1, 3, 99}}
	got, err := NewInstalled().Apply(context.Background(), user, recommend.ScoreVector{0.5, 0.9, 0.1})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := recommend.ScoreVector{negInf, 0.9, negInf}
	if !slices.Equal(got, want) {
		t.Errorf("Apply() = %v, want %v", got, want)
	}
}

func TestLocale_Apply(t *testing.T) {
	t.Parallel()
	store := &countingStore{Store: newTestStore(t)}

	f := NewLocale(store)
	f.Attach(testOwner{client: cache.New(time.Minute)})

	alice := userOf(t, store, "alice")
	for i := 0; i < 3; i++ {
		got, err := f.Apply(context.Background(), alice, recommend.ScoreVector{3, 2, 1})
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if want := (recommend.ScoreVector{3, negInf, 1}); !slices.Equal(got, want) {
			t.Errorf("Apply() = %v, want %v", got, want)
		}
	}
	if n := store.localeCalls.Load(); n != 1 {
		t.Errorf("store queried %d times, want 1 (cached)", n)
	}
}

func TestLocale_NoLocale(t *testing.T) {
	t.Parallel()
	store := &countingStore{Store: newTestStore(t)}

	got, err := NewLocale(store).Apply(context.Background(), &recommend.User{ExternalID: "x"}, recommend.ScoreVector{1, 2, 3})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !slices.Equal(got, recommend.ScoreVector{1, 2, 3}) {
		t.Errorf("Apply() = %v, want unchanged", got)
	}
	if store.localeCalls.Load() != 0 {
		t.Error("store queried for a user without locale")
	}
}

func TestLocale_Unattached(t *testing.T) {
	t.Parallel()
	store := &countingStore{Store: newTestStore(t)}
	f := NewLocale(store)
	bob := userOf(t, store, "bob")

	for i := 0; i < 2; i++ {
		got, err := f.Apply(context.Background(), bob, recommend.ScoreVector{1, 2, 3})
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if want := (recommend.ScoreVector{1, 2, negInf}); !slices.Equal(got, want) {
			t.Errorf("Apply() = %v, want %v", got, want)
		}
	}
	if n := store.localeCalls.Load(); n != 2 {
		t.Errorf("store queried %d times, want 2 without a cache", n)
	}
}

func TestRegionPenalty_Apply(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	f := NewRegionPenalty(region.NewTools(store), "store")

	tests := []struct {
		name string
		user string
		want recommend.ScoreVector
	}{
		// pt: a available, b worldwide, c only in br
		{"user in pt", "alice", recommend.ScoreVector{0.5, 0.9, 0.1 - RegionPenaltyWeight}},
		{"user without region", "bob", recommend.ScoreVector{0.5, 0.9, 0.1}},
		// pt and br: b is in both, a and c in one each
		{"user in pt and br", "carol", recommend.ScoreVector{0.5, 0.9 + RegionPenaltyWeight, 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Apply(context.Background(), userOf(t, store, tt.user), recommend.ScoreVector{0.5, 0.9, 0.1})
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegionPenalty_UnknownUser(t *testing.T) {
	t.Parallel()
	f := NewRegionPenalty(region.NewTools(newTestStore(t)), "")

	_, err := f.Apply(context.Background(), &recommend.User{ExternalID: "ghost"}, recommend.ScoreVector{1, 2, 3})
	if !errors.Is(err, catalog.ErrUserNotFound) {
		t.Errorf("Apply() error = %v, want ErrUserNotFound", err)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()
	deps := Deps{Store: newTestStore(t), Module: "store"}

	for _, name := range Names() {
		f, err := Build(name, deps)
		if err != nil {
			t.Fatalf("Build(%q) error = %v", name, err)
		}
		if f.Key().Kind != name {
			t.Errorf("Build(%q).Key().Kind = %q", name, f.Key().Kind)
		}
	}

	if _, err := Build("bogus", deps); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("Build(bogus) error = %v, want ErrUnknownFilter", err)
	}
	if _, err := Build(KindLocale, Deps{}); err == nil {
		t.Error("Build(locale) without store succeeded")
	}

	filters, err := BuildAll([]string{KindInstalled, KindRegion}, deps)
	if err != nil || len(filters) != 2 {
		t.Fatalf("BuildAll() = %v, %v", filters, err)
	}
	if got := filters[1].Key().String(); got != "region(store)" {
		t.Errorf("region key = %q, want region(store)", got)
	}
}

func TestFilters_InController(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	u := recommend.NewMatrix(recommend.KindUsers, 1, 2, 1)
	u.Set(0, 0, 1)
	u.Set(0, 1, 1)
	it := recommend.NewMatrix(recommend.KindItems, 1, 3, 1)
	copy(it.Data, []float64{0.5, 0.9, 0.1})
	gen := &recommend.Generation{ID: 1, Users: u, Items: it}

	ctrl, err := recommend.NewController(recommend.DefaultConfig(), staticProvider{gen: gen}, store,
		cache.New(time.Minute), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	defer ctrl.Close()

	filters, err := BuildAll(Names(), Deps{Store: store, Module: "store"})
	if err != nil {
		t.Fatalf("BuildAll() error = %v", err)
	}
	ctrl.RegisterFilters(filters...)

	got, err := ctrl.GetRecommendation(context.Background(), userOf(t, store, "alice"), 3)
	if err != nil {
		t.Fatalf("GetRecommendation() error = %v", err)
	}
	// b installed, a first, c lacks region pt
	if want := []int{1, 3, 2}; !slices.Equal(got, want) {
		t.Errorf("GetRecommendation() = %v, want %v", got, want)
	}
}

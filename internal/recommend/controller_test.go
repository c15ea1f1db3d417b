// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/appranker/internal/cache"
)

func newTestController(t *testing.T, provider MatrixProvider, cfg *Config) *Controller {
	t.Helper()

	client := cache.New(time.Minute)
	t.Cleanup(client.Close)

	c, err := NewController(cfg, provider, mapLookup{1: "app-1", 2: "app-2", 3: "app-3"}, client, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNewController(t *testing.T) {
	provider := newStaticProvider("static", rankOneGeneration(1, 1, []float64{1}))
	client := cache.New(time.Minute)
	defer client.Close()

	tests := []struct {
		name     string
		cfg      *Config
		provider MatrixProvider
		client   cache.Cacher
		wantErr  bool
	}{
		{"defaults", nil, provider, client, false},
		{"invalid config", &Config{}, provider, client, true},
		{"missing provider", nil, nil, client, true},
		{"missing cache", nil, provider, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewController(tt.cfg, tt.provider, nil, tt.client, zerolog.Nop())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewController() error = %v, wantErr %v", err, tt.wantErr)
			}
			if c != nil {
				if c.Name() != "static" {
					t.Errorf("Name() = %q, want static", c.Name())
				}
				c.Close()
			}
		})
	}
}

func TestController_InstalledScenario(t *testing.T) {
	t.Parallel()

	provider := newStaticProvider("static", rankOneGeneration(1, 1, []float64{0.5, 0.9, 0.1}))
	c := newTestController(t, provider, nil)
	c.RegisterFilters(installedFilter{})

	user := &User{Key: 1, ExternalID: "u1", InstalledApps: []int{2}}
	got, err := c.GetRecommendation(context.Background(), user, 10)
	if err != nil {
		t.Fatalf("GetRecommendation() error = %v", err)
	}

	if want := []int{1, 3, 2}; !slices.Equal(got, want) {
		t.Errorf("GetRecommendation() = %v, want %v", got, want)
	}
}

func TestController_NoFilters(t *testing.T) {
	t.Parallel()

	provider := newStaticProvider("static", rankOneGeneration(1, 1, []float64{0.5, 0.9, 0.1}))
	c := newTestController(t, provider, nil)

	got, err := c.GetRecommendation(context.Background(), &User{Key: 1}, 2)
	if err != nil {
		t.Fatalf("GetRecommendation() error = %v", err)
	}
	if want := []int{2, 1}; !slices.Equal(got, want) {
		t.Errorf("GetRecommendation() = %v, want %v", got, want)
	}
}

func TestController_Limits(t *testing.T) {
	t.Parallel()

	scores := make([]float64, 30)
	for i := range scores {
		scores[i] = float64(len(scores) - i)
	}
	provider := newStaticProvider("static", rankOneGeneration(1, 1, scores))

	cfg := DefaultConfig()
	cfg.Limits.DefaultN = 5
	cfg.Limits.MaxN = 20
	c := newTestController(t, provider, cfg)

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"zero returns nothing", 0, 0},
		{"negative uses default", -3, 5},
		{"explicit", 7, 7},
		{"capped at max", 100, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.GetRecommendation(context.Background(), &User{Key: 1}, tt.n)
			if err != nil {
				t.Fatalf("GetRecommendation() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestController_NoCapByDefault(t *testing.T) {
	t.Parallel()

	scores := make([]float64, 1500)
	for i := range scores {
		scores[i] = float64(i)
	}
	c := newTestController(t, newStaticProvider("static", rankOneGeneration(1, 1, scores)), nil)

	got, err := c.GetRecommendation(context.Background(), &User{Key: 1}, 1200)
	if err != nil {
		t.Fatalf("GetRecommendation() error = %v", err)
	}
	if len(got) != 1200 {
		t.Errorf("len = %d, want 1200", len(got))
	}
	if got[0] != 1500 {
		t.Errorf("first = %d, want 1500", got[0])
	}
}

func TestController_TiesPreferLowerKey(t *testing.T) {
	t.Parallel()

	provider := newStaticProvider("static", rankOneGeneration(1, 1, []float64{0.3, 0.7, 0.7, 0.3, 0.7}))
	c := newTestController(t, provider, nil)

	got, err := c.GetRecommendation(context.Background(), &User{Key: 1}, 10)
	if err != nil {
		t.Fatalf("GetRecommendation() error = %v", err)
	}
	if want := []int{2, 3, 5, 1, 4}; !slices.Equal(got, want) {
		t.Errorf("GetRecommendation() = %v, want %v", got, want)
	}
}

func TestController_FilterOrder(t *testing.T) {
	t.Parallel()

	// boost item 3 above item 2, then suppress it as installed: the later
	// filter sees the earlier one's output and wins.
	provider := newStaticProvider("static", rankOneGeneration(1, 1, []float64{0.5, 0.9, 0.1}))
	c := newTestController(t, provider, nil)
	c.RegisterFilters(boostFilter{item: 3, delta: 5}, installedFilter{})
	c.RegisterRerankers(reverseReranker{})

	got, err := c.GetRecommendation(context.Background(), &User{Key: 1, InstalledApps: []int{3}}, 10)
	if err != nil {
		t.Fatalf("GetRecommendation() error = %v", err)
	}
	if want := []int{3, 1, 2}; !slices.Equal(got, want) {
		t.Errorf("GetRecommendation() = %v, want %v", got, want)
	}
}

func TestController_Registration(t *testing.T) {
	t.Parallel()

	provider := newStaticProvider("static", rankOneGeneration(1, 1, []float64{1, 2}))
	c := newTestController(t, provider, nil)

	c.RegisterFilters(boostFilter{item: 1, delta: 1}, installedFilter{}, boostFilter{item: 1, delta: 1})
	c.RegisterFilters(boostFilter{item: 2, delta: 1})

	filters := c.Filters()
	if len(filters) != 4 {
		t.Fatalf("len(Filters()) = %d, want 4", len(filters))
	}
	if filters[1].Key().Kind != "installed" {
		t.Errorf("Filters()[1] = %s, want installed", filters[1].Key())
	}

	// defensive copy
	filters[0] = truncatingFilter{}
	if c.Filters()[0].Key().Kind != "boost" {
		t.Error("mutating Filters() result changed the pipeline")
	}

	// equal keys are removed together; other parameters stay
	if removed := c.UnregisterFilters(boostFilter{item: 1, delta: 1}); removed != 2 {
		t.Errorf("UnregisterFilters() = %d, want 2", removed)
	}
	remaining := c.Filters()
	if len(remaining) != 2 {
		t.Fatalf("len(Filters()) after unregister = %d, want 2", len(remaining))
	}
	if remaining[0].Key().Kind != "installed" || remaining[1].Key() != (boostFilter{item: 2, delta: 1}).Key() {
		t.Errorf("remaining filters = %v, %v", remaining[0].Key(), remaining[1].Key())
	}

	if removed := c.UnregisterFilters(truncatingFilter{}); removed != 0 {
		t.Errorf("UnregisterFilters(unknown) = %d, want 0", removed)
	}

	c.RegisterRerankers(reverseReranker{}, reverseReranker{})
	if removed := c.UnregisterRerankers(reverseReranker{}); removed != 2 {
		t.Errorf("UnregisterRerankers() = %d, want 2", removed)
	}
	if len(c.Rerankers()) != 0 {
		t.Errorf("len(Rerankers()) = %d, want 0", len(c.Rerankers()))
	}
}

func TestController_AttachOnRegister(t *testing.T) {
	t.Parallel()

	provider := newStaticProvider("static", rankOneGeneration(1, 1, []float64{1}))
	c := newTestController(t, provider, nil)

	r := &attachingReranker{}
	c.RegisterRerankers(r)

	if r.owner == nil {
		t.Fatal("Attach was not called")
	}
	if r.owner.Name() != "static" {
		t.Errorf("owner.Name() = %q, want static", r.owner.Name())
	}
	if r.owner.Cache() != c.Cache() {
		t.Error("owner.Cache() is not the controller cache")
	}
}

func TestController_IntegrityErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		register func(c *Controller)
	}{
		{"filter changes length", func(c *Controller) { c.RegisterFilters(truncatingFilter{}) }},
		{"reranker drops id", func(c *Controller) { c.RegisterRerankers(droppingReranker{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newStaticProvider("static", rankOneGeneration(1, 1, []float64{1, 2, 3}))
			c := newTestController(t, provider, nil)
			tt.register(c)

			_, err := c.GetRecommendation(context.Background(), &User{Key: 1}, 10)
			if !errors.Is(err, ErrIntegrity) {
				t.Fatalf("error = %v, want ErrIntegrity", err)
			}

			var ie *IntegrityError
			if !errors.As(err, &ie) {
				t.Fatalf("error %T is not *IntegrityError", err)
			}
			if ie.Want != 3 || ie.Got != 2 {
				t.Errorf("IntegrityError = %+v, want Want=3 Got=2", ie)
			}
			if c.Metrics().ErrorCount != 1 {
				t.Errorf("ErrorCount = %d, want 1", c.Metrics().ErrorCount)
			}
		})
	}
}

func TestController_ProviderError(t *testing.T) {
	t.Parallel()

	provider := newStaticProvider("static", nil)
	provider.err = fmt.Errorf("provider static: %w", ErrModelUnavailable)
	c := newTestController(t, provider, nil)

	_, err := c.GetRecommendation(context.Background(), &User{Key: 1}, 10)
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("error = %v, want ErrModelUnavailable", err)
	}
}

func TestController_ScoreCache(t *testing.T) {
	t.Parallel()

	provider := newStaticProvider("static", rankOneGeneration(1, 2, []float64{0.1, 0.2, 0.3}))
	c := newTestController(t, provider, nil)
	c.RegisterFilters(installedFilter{})

	ctx := context.Background()
	user := &User{Key: 1, InstalledApps: []int{3}}

	first, err := c.GetRecommendation(ctx, user, 10)
	if err != nil {
		t.Fatalf("first call error = %v", err)
	}
	second, err := c.GetRecommendation(ctx, user, 10)
	if err != nil {
		t.Fatalf("second call error = %v", err)
	}

	// filters must not have leaked -Inf into the cached vector
	if !slices.Equal(first, second) {
		t.Errorf("cached result %v differs from first %v", second, first)
	}

	m := c.Metrics()
	if m.CacheMisses != 1 || m.CacheHits != 1 {
		t.Errorf("hits/misses = %d/%d, want 1/1", m.CacheHits, m.CacheMisses)
	}

	// a new generation makes the cached entry stale
	provider.gen.Store(rankOneGeneration(2, 2, []float64{0.3, 0.2, 0.1}))
	third, err := c.GetRecommendation(ctx, &User{Key: 1}, 10)
	if err != nil {
		t.Fatalf("third call error = %v", err)
	}
	if want := []int{1, 2, 3}; !slices.Equal(third, want) {
		t.Errorf("after new generation = %v, want %v", third, want)
	}

	m = c.Metrics()
	if m.CacheMisses != 2 {
		t.Errorf("CacheMisses = %d, want 2", m.CacheMisses)
	}
	if m.Generation != 2 {
		t.Errorf("Generation = %d, want 2", m.Generation)
	}
	if m.RequestCount != 3 {
		t.Errorf("RequestCount = %d, want 3", m.RequestCount)
	}
	if m.LastRequestAt.IsZero() {
		t.Error("LastRequestAt not set")
	}
}

func TestController_CacheDisabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	provider := newStaticProvider("static", rankOneGeneration(1, 1, []float64{1, 2}))
	c := newTestController(t, provider, cfg)

	for i := 0; i < 3; i++ {
		if _, err := c.GetRecommendation(context.Background(), &User{Key: 1}, 10); err != nil {
			t.Fatalf("GetRecommendation() error = %v", err)
		}
	}

	m := c.Metrics()
	if m.CacheHits != 0 || m.CacheMisses != 0 {
		t.Errorf("hits/misses = %d/%d, want 0/0", m.CacheHits, m.CacheMisses)
	}
}

func TestController_Idempotent(t *testing.T) {
	t.Parallel()

	provider := newStaticProvider("static", rankOneGeneration(1, 1, []float64{0.4, 0.8, 0.8, 0.1}))
	c := newTestController(t, provider, nil)
	c.RegisterFilters(installedFilter{})
	c.RegisterRerankers(reverseReranker{}, reverseReranker{})

	user := &User{Key: 1, InstalledApps: []int{4}}
	first, err := c.GetRecommendation(context.Background(), user, 10)
	if err != nil {
		t.Fatalf("GetRecommendation() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := c.GetRecommendation(context.Background(), user, 10)
		if err != nil {
			t.Fatalf("GetRecommendation() error = %v", err)
		}
		if !slices.Equal(first, again) {
			t.Fatalf("run %d = %v, want %v", i, again, first)
		}
	}
}

func TestController_ExternalIDs(t *testing.T) {
	t.Parallel()

	provider := newStaticProvider("static", rankOneGeneration(1, 1, []float64{0.5, 0.9, 0.1}))
	c := newTestController(t, provider, nil)
	c.RegisterFilters(installedFilter{})

	got, err := c.GetExternalIDRecommendations(context.Background(), &User{Key: 1, InstalledApps: []int{2}}, 10)
	if err != nil {
		t.Fatalf("GetExternalIDRecommendations() error = %v", err)
	}
	if want := []string{"app-1", "app-3", "app-2"}; !slices.Equal(got, want) {
		t.Errorf("GetExternalIDRecommendations() = %v, want %v", got, want)
	}
}

func TestController_ExternalIDsMissingItem(t *testing.T) {
	t.Parallel()

	provider := newStaticProvider("static", rankOneGeneration(1, 1, []float64{0.5, 0.9, 0.1, 0.7}))
	c := newTestController(t, provider, nil)

	if _, err := c.GetExternalIDRecommendations(context.Background(), &User{Key: 1}, 10); err == nil {
		t.Fatal("expected error for item without external id")
	}
}

func TestController_Concurrent(t *testing.T) {
	t.Parallel()

	scores := make([]float64, 200)
	for i := range scores {
		scores[i] = float64(i % 17)
	}
	provider := newStaticProvider("static", rankOneGeneration(1, 8, scores))
	c := newTestController(t, provider, nil)
	c.RegisterFilters(installedFilter{})

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			user := &User{Key: id%8 + 1, InstalledApps: []int{id%200 + 1}}
			got, err := c.GetRecommendation(context.Background(), user, 20)
			if err != nil {
				errs <- err
				return
			}
			if len(got) != 20 {
				errs <- fmt.Errorf("len = %d, want 20", len(got))
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if got := c.Metrics().RequestCount; got != 64 {
		t.Errorf("RequestCount = %d, want 64", got)
	}
}

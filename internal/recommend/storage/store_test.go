// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package storage

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomtom215/appranker/internal/recommend"
)

func testGeneration(id int64) *recommend.Generation {
	users := recommend.NewMatrix(recommend.KindUsers, 2, 3, id)
	items := recommend.NewMatrix(recommend.KindItems, 2, 4, id)
	for i := range users.Data {
		users.Data[i] = float64(id) + float64(i)/10
	}
	for i := range items.Data {
		items.Data[i] = float64(id) - float64(i)/10
	}
	return &recommend.Generation{
		ID:        id,
		Users:     users,
		Items:     items,
		TrainedAt: time.Unix(1700000000+id, 0).UTC(),
	}
}

func newBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadger(BadgerConfig{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func stores(t *testing.T) map[string]GenerationStore {
	return map[string]GenerationStore{
		"memory": NewMemoryStore(),
		"badger": newBadgerStore(t),
	}
}

func TestGenerationStore_Latest(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := store.Latest(ctx, "trained"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Latest() on empty store error = %v, want ErrNotFound", err)
			}

			for _, id := range []int64{1, 3, 2} {
				if err := store.Save(ctx, "trained", testGeneration(id)); err != nil {
					t.Fatalf("Save(%d) error = %v", id, err)
				}
			}

			got, err := store.Latest(ctx, "trained")
			if err != nil {
				t.Fatalf("Latest() error = %v", err)
			}

			want := testGeneration(3)
			if got.ID != want.ID {
				t.Errorf("Latest().ID = %d, want %d", got.ID, want.ID)
			}
			if !slices.Equal(got.Users.Data, want.Users.Data) || !slices.Equal(got.Items.Data, want.Items.Data) {
				t.Error("Latest() matrices differ from saved generation")
			}
			if got.Users.Generation != got.ID || got.Items.Generation != got.ID {
				t.Error("Latest() returned a mixed generation")
			}

			// names are independent
			if _, err := store.Latest(ctx, "random"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Latest(random) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestGenerationStore_SaveRejectsInvalid(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			gen := testGeneration(1)
			gen.Items.Generation = 7

			if err := store.Save(context.Background(), "trained", gen); err == nil {
				t.Error("Save() accepted a generation with mismatched tags")
			}
		})
	}
}

func TestGenerationStore_Prune(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for id := int64(1); id <= 5; id++ {
				if err := store.Save(ctx, "trained", testGeneration(id)); err != nil {
					t.Fatalf("Save(%d) error = %v", id, err)
				}
			}

			removed, err := store.Prune(ctx, "trained", 2)
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if removed != 3 {
				t.Errorf("Prune() removed = %d, want 3", removed)
			}

			got, err := store.Latest(ctx, "trained")
			if err != nil || got.ID != 5 {
				t.Errorf("Latest() after prune = %v, %v; want generation 5", got, err)
			}

			removed, _ = store.Prune(ctx, "trained", 0)
			if removed != 1 {
				t.Errorf("Prune(keep=0) removed = %d, want 1", removed)
			}
		})
	}
}

func TestBadgerStore_ZeroPaddedOrder(t *testing.T) {
	s := newBadgerStore(t)
	ctx := context.Background()

	for _, id := range []int64{9, 10, 100} {
		if err := s.Save(ctx, "trained", testGeneration(id)); err != nil {
			t.Fatalf("Save(%d) error = %v", id, err)
		}
	}

	if _, err := s.Prune(ctx, "trained", 1); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	got, err := s.Latest(ctx, "trained")
	if err != nil || got.ID != 100 {
		t.Errorf("Latest() = %v, %v; want generation 100", got, err)
	}
}

func TestDecodeGeneration_ChecksumMismatch(t *testing.T) {
	data, err := encodeGeneration("trained", testGeneration(1))
	if err != nil {
		t.Fatalf("encodeGeneration() error = %v", err)
	}

	var rec record
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	rec.Metadata.Checksum = "0000"
	tampered, err := msgpack.Marshal(&rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if _, _, err := decodeGeneration(tampered); err == nil {
		t.Error("decodeGeneration() accepted a bad checksum")
	}
}

func TestEncodeGeneration_Metadata(t *testing.T) {
	data, err := encodeGeneration("trained", testGeneration(4))
	if err != nil {
		t.Fatalf("encodeGeneration() error = %v", err)
	}

	_, meta, err := decodeGeneration(data)
	if err != nil {
		t.Fatalf("decodeGeneration() error = %v", err)
	}
	if meta.Name != "trained" || meta.Generation != 4 || meta.Rank != 2 {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.UserCount != 3 || meta.ItemCount != 4 {
		t.Errorf("metadata counts = %d users, %d items", meta.UserCount, meta.ItemCount)
	}
}

// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package factors

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/appranker/internal/recommend"
)

// twoCommunities: users 1-3 install items 1-3, users 4-6 install items 4-6.
// User 1 lacks item 3 and user 4 lacks item 6.
func twoCommunities() *fakeSource {
	src := &fakeSource{users: 6, items: 6}
	add := func(u, i int) {
		src.interactions = append(src.interactions, recommend.Interaction{UserKey: u, ItemKey: i, Confidence: 1})
	}
	for u := 1; u <= 3; u++ {
		for i := 1; i <= 3; i++ {
			if u == 1 && i == 3 {
				continue
			}
			add(u, i)
		}
	}
	for u := 4; u <= 6; u++ {
		for i := 4; i <= 6; i++ {
			if u == 4 && i == 6 {
				continue
			}
			add(u, i)
		}
	}
	return src
}

func TestALSTrainer_Train(t *testing.T) {
	trainer := NewALSTrainer(twoCommunities(), ALSConfig{Factors: 4, Iterations: 10, Workers: 2}, zerolog.Nop())

	gen, err := trainer.Train(context.Background())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if err := gen.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if gen.Rank() != 4 || gen.Users.Cols != 6 || gen.Items.Cols != 6 {
		t.Fatalf("shape = rank %d, %d users, %d items", gen.Rank(), gen.Users.Cols, gen.Items.Cols)
	}

	s, _ := recommend.NewScorer(recommend.ScoringConfig{})
	defer s.Close()

	scores, err := s.Score(&recommend.User{Key: 1}, gen)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	// the missing in-community item outranks every out-of-community item
	for i := 3; i < 6; i++ {
		if scores[2] <= scores[i] {
			t.Errorf("user 1: item 3 score %v <= item %d score %v", scores[2], i+1, scores[i])
		}
	}

	scores, _ = s.Score(&recommend.User{Key: 4}, gen)
	for i := 0; i < 3; i++ {
		if scores[5] <= scores[i] {
			t.Errorf("user 4: item 6 score %v <= item %d score %v", scores[5], i+1, scores[i])
		}
	}
}

func TestALSTrainer_IDsIncrease(t *testing.T) {
	trainer := NewALSTrainer(twoCommunities(), ALSConfig{Factors: 2, Iterations: 1}, zerolog.Nop())
	fixed := time.Unix(1700000000, 0)
	trainer.now = func() time.Time { return fixed }

	a, err := trainer.Train(context.Background())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	b, err := trainer.Train(context.Background())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if b.ID <= a.ID {
		t.Errorf("generation ids did not increase: %d then %d", a.ID, b.ID)
	}
	if a.Users.Generation != a.ID || a.Items.Generation != a.ID {
		t.Error("matrix generation tags do not match id")
	}
}

func TestALSTrainer_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
		ctx  func() context.Context
	}{
		{
			name: "empty catalog",
			src:  &fakeSource{},
			ctx:  context.Background,
		},
		{
			name: "cancelled",
			src:  twoCommunities(),
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trainer := NewALSTrainer(tt.src, ALSConfig{}, zerolog.Nop())
			if _, err := trainer.Train(tt.ctx()); err == nil {
				t.Error("Train() expected error")
			}
		})
	}
}

func TestALSTrainer_SkipsOutOfRangeKeys(t *testing.T) {
	src := twoCommunities()
	src.interactions = append(src.interactions,
		recommend.Interaction{UserKey: 0, ItemKey: 1},
		recommend.Interaction{UserKey: 1, ItemKey: 99},
	)

	trainer := NewALSTrainer(src, ALSConfig{Factors: 2, Iterations: 2}, zerolog.Nop())
	gen, err := trainer.Train(context.Background())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if gen.Items.Cols != 6 {
		t.Errorf("Items.Cols = %d, want 6", gen.Items.Cols)
	}
}

func TestSolveLinearSystem(t *testing.T) {
	// [4 2; 2 3] x = [2; 1] -> x = [0.5, 0]
	A := [][]float64{{4, 2}, {2, 3}}
	x := solveLinearSystem(A, []float64{2, 1})

	want := []float64{0.5, 0}
	for i := range want {
		if math.Abs(x[i]-want[i]) > 1e-9 {
			t.Errorf("x[%d] = %v, want %v", i, x[i], want[i])
		}
	}
}

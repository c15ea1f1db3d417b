// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package recommend

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// randomGeneration builds a generation with deterministic pseudo-random values.
func randomGeneration(id int64, rank, users, items int, seed int64) *Generation {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // test data
	u := NewMatrix(KindUsers, rank, users, id)
	for i := range u.Data {
		u.Data[i] = rng.Float64()
	}
	it := NewMatrix(KindItems, rank, items, id)
	for i := range it.Data {
		it.Data[i] = rng.Float64()
	}
	return &Generation{ID: id, Users: u, Items: it}
}

// naiveScore is the reference dot product.
func naiveScore(gen *Generation, userKey int) ScoreVector {
	out := make(ScoreVector, gen.Items.Cols)
	for a := 0; a < gen.Items.Cols; a++ {
		for f := 0; f < gen.Users.Rows; f++ {
			out[a] += gen.Users.At(f, userKey-1) * gen.Items.At(f, a)
		}
	}
	return out
}

func TestScorer_Score(t *testing.T) {
	t.Parallel()

	// U = [[1,2],[3,4]] (rank 2, 2 users), I = [[1,0,2],[0,1,1]] (rank 2, 3 items)
	u := &Matrix{Kind: KindUsers, Rows: 2, Cols: 2, Data: []float64{1, 2, 3, 4}, Generation: 1}
	it := &Matrix{Kind: KindItems, Rows: 2, Cols: 3, Data: []float64{1, 0, 2, 0, 1, 1}, Generation: 1}
	gen := &Generation{ID: 1, Users: u, Items: it}

	s, err := NewScorer(ScoringConfig{})
	if err != nil {
		t.Fatalf("NewScorer() error = %v", err)
	}
	defer s.Close()

	tests := []struct {
		user int
		want ScoreVector
	}{
		// user 1 factors = column 0 = (1, 3)
		{1, ScoreVector{1, 3, 5}},
		// user 2 factors = column 1 = (2, 4)
		{2, ScoreVector{2, 4, 8}},
	}

	for _, tt := range tests {
		got, err := s.Score(&User{Key: tt.user}, gen)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("len = %d, want %d", len(got), len(tt.want))
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("user %d: score[%d] = %v, want %v", tt.user, i, got[i], tt.want[i])
			}
		}
	}
}

func TestScorer_ParallelMatchesSerial(t *testing.T) {
	t.Parallel()

	gen := randomGeneration(1, 10, 5, 1003, 7)

	serial, err := NewScorer(ScoringConfig{Workers: 1})
	if err != nil {
		t.Fatalf("NewScorer() error = %v", err)
	}
	defer serial.Close()

	parallel, err := NewScorer(ScoringConfig{Workers: 4, ParallelThreshold: 10})
	if err != nil {
		t.Fatalf("NewScorer() error = %v", err)
	}
	defer parallel.Close()

	for key := 1; key <= 5; key++ {
		user := &User{Key: key}
		a, err := serial.Score(user, gen)
		if err != nil {
			t.Fatalf("serial Score() error = %v", err)
		}
		b, err := parallel.Score(user, gen)
		if err != nil {
			t.Fatalf("parallel Score() error = %v", err)
		}
		want := naiveScore(gen, key)

		if len(a) != gen.Items.Cols || len(b) != gen.Items.Cols {
			t.Fatalf("lengths = %d/%d, want %d", len(a), len(b), gen.Items.Cols)
		}
		for i := range want {
			if math.Abs(a[i]-want[i]) > 1e-9 || math.Abs(b[i]-want[i]) > 1e-9 {
				t.Fatalf("user %d item %d: serial %v parallel %v want %v", key, i, a[i], b[i], want[i])
			}
		}
	}
}

func TestScorer_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	gen := randomGeneration(3, 4, 2, 20, 11)
	usersBefore := append([]float64(nil), gen.Users.Data...)
	itemsBefore := append([]float64(nil), gen.Items.Data...)

	s, _ := NewScorer(ScoringConfig{})
	defer s.Close()

	if _, err := s.Score(&User{Key: 2}, gen); err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	for i := range usersBefore {
		if gen.Users.Data[i] != usersBefore[i] {
			t.Fatal("user matrix mutated")
		}
	}
	for i := range itemsBefore {
		if gen.Items.Data[i] != itemsBefore[i] {
			t.Fatal("item matrix mutated")
		}
	}
}

func TestScorer_Errors(t *testing.T) {
	t.Parallel()

	s, _ := NewScorer(ScoringConfig{})
	defer s.Close()

	if _, err := s.Score(&User{Key: 1}, nil); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("nil generation error = %v, want ErrModelUnavailable", err)
	}

	gen := &Generation{
		ID:    1,
		Users: NewMatrix(KindUsers, 2, 1, 1),
		Items: NewMatrix(KindItems, 3, 1, 1),
	}
	if _, err := s.Score(&User{Key: 1}, gen); err == nil {
		t.Error("expected rank mismatch error")
	}
}

func BenchmarkScorer(b *testing.B) {
	gen := randomGeneration(1, 10, 100, 100000, 1)
	s, _ := NewScorer(ScoringConfig{Workers: 4, ParallelThreshold: 50000})
	defer s.Close()
	user := &User{Key: 42}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Score(user, gen)
	}
}

// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package factors

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/appranker/internal/recommend"
)

// InteractionSource supplies training data.
type InteractionSource interface {
	CountSource
	Interactions(ctx context.Context) ([]recommend.Interaction, error)
}

// ALSConfig contains configuration for the ALS trainer.
type ALSConfig struct {
	// Factors is the latent rank of the produced matrices.
	// Typical range: 10-200.
	Factors int

	// Iterations is the number of ALS iterations to run.
	// Typical range: 10-50.
	Iterations int

	// Regularization is the L2 regularization parameter.
	// Typical range: 0.01-0.1.
	Regularization float64

	// Alpha scales the confidence transformation for implicit feedback.
	// c = 1 + alpha * r, where r is the interaction confidence.
	Alpha float64

	// Workers is the number of parallel workers per half-iteration.
	// If <= 0, defaults to 4.
	Workers int
}

// DefaultALSConfig returns default ALS configuration.
func DefaultALSConfig() ALSConfig {
	return ALSConfig{
		Factors:        10,
		Iterations:     15,
		Regularization: 0.01,
		Alpha:          40.0,
		Workers:        4,
	}
}

// ALSTrainer implements recommend.Trainer with Alternating Least Squares for
// implicit feedback (Hu, Koren, Volinsky, 2008).
//
// It minimises
//
//	sum_{u,i} c_ui * (p_ui - x_u' * y_i)^2 + lambda * (||x_u||^2 + ||y_i||^2)
//
// where p_ui = 1 if user u installed item i and c_ui = 1 + alpha * r_ui.
// Every user and item key in the catalog gets a column, so users or items
// without interactions end up with near-zero factors.
type ALSTrainer struct {
	source InteractionSource
	config ALSConfig
	logger zerolog.Logger
	now    func() time.Time
	lastID atomic.Int64
}

// NewALSTrainer creates an ALS trainer reading from source.
//
//nolint:gocritic // logger passed by value, matching the rest of the code base
func NewALSTrainer(source InteractionSource, cfg ALSConfig, logger zerolog.Logger) *ALSTrainer {
	d := DefaultALSConfig()
	if cfg.Factors <= 0 {
		cfg.Factors = d.Factors
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = d.Iterations
	}
	if cfg.Regularization <= 0 {
		cfg.Regularization = d.Regularization
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = d.Alpha
	}
	if cfg.Workers <= 0 {
		cfg.Workers = d.Workers
	}

	return &ALSTrainer{
		source: source,
		config: cfg,
		logger: logger.With().Str("component", "trainer").Str("algorithm", "als").Logger(),
		now:    time.Now,
	}
}

// Train implements recommend.Trainer. Generation ids are derived from the
// training clock and strictly increase per trainer.
func (a *ALSTrainer) Train(ctx context.Context) (*recommend.Generation, error) {
	numUsers, err := a.source.UserCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("user count: %w", err)
	}
	numItems, err := a.source.ItemCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("item count: %w", err)
	}
	if numUsers == 0 || numItems == 0 {
		return nil, errors.New("catalog is empty")
	}

	interactions, err := a.source.Interactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("interactions: %w", err)
	}

	userItems, itemUsers, skipped := a.confidence(interactions, numUsers, numItems)
	if skipped > 0 {
		a.logger.Warn().Int("skipped", skipped).Msg("Ignored interactions with out-of-range keys")
	}

	f := &alsFit{
		numFactors: a.config.Factors,
		numWorkers: a.config.Workers,
		lambda:     a.config.Regularization,
		X:          initFactors(numUsers, a.config.Factors),
		Y:          initFactors(numItems, a.config.Factors),
	}

	for iter := 0; iter < a.config.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f.updateUserFactors(userItems)

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f.updateItemFactors(itemUsers)
	}

	trainedAt := a.now()
	id := a.nextID(trainedAt)

	users := recommend.NewMatrix(recommend.KindUsers, f.numFactors, numUsers, id)
	for u, x := range f.X {
		for k, v := range x {
			users.Set(k, u, v)
		}
	}
	items := recommend.NewMatrix(recommend.KindItems, f.numFactors, numItems, id)
	for i, y := range f.Y {
		for k, v := range y {
			items.Set(k, i, v)
		}
	}

	a.logger.Info().
		Int64("generation", id).
		Int("users", numUsers).
		Int("items", numItems).
		Int("interactions", len(interactions)-skipped).
		Int("factors", f.numFactors).
		Int("iterations", a.config.Iterations).
		Msg("ALS training finished")

	return &recommend.Generation{ID: id, Users: users, Items: items, TrainedAt: trainedAt}, nil
}

func (a *ALSTrainer) nextID(t time.Time) int64 {
	for {
		last := a.lastID.Load()
		id := t.UnixNano()
		if id <= last {
			id = last + 1
		}
		if a.lastID.CompareAndSwap(last, id) {
			return id
		}
	}
}

// confidence builds the sparse confidence matrix in both orientations.
// Indices are key - 1. Duplicates keep the highest confidence.
func (a *ALSTrainer) confidence(interactions []recommend.Interaction, numUsers, numItems int) (userItems, itemUsers []map[int]float64, skipped int) {
	userItems = make([]map[int]float64, numUsers)
	itemUsers = make([]map[int]float64, numItems)

	for _, inter := range interactions {
		u, i := inter.UserKey-1, inter.ItemKey-1
		if u < 0 || u >= numUsers || i < 0 || i >= numItems {
			skipped++
			continue
		}
		r := inter.Confidence
		if r <= 0 {
			r = 1
		}
		conf := 1.0 + a.config.Alpha*r

		if userItems[u] == nil {
			userItems[u] = make(map[int]float64)
		}
		if conf > userItems[u][i] {
			userItems[u][i] = conf
		}
		if itemUsers[i] == nil {
			itemUsers[i] = make(map[int]float64)
		}
		if conf > itemUsers[i][u] {
			itemUsers[i][u] = conf
		}
	}
	return userItems, itemUsers, skipped
}

// initFactors returns a small deterministic initialisation.
func initFactors(n, numFactors int) [][]float64 {
	m := make([][]float64, n)
	for r := 0; r < n; r++ {
		m[r] = make([]float64, numFactors)
		for f := 0; f < numFactors; f++ {
			m[r][f] = 0.1 * (float64((r*numFactors+f)%1000)/1000.0 - 0.5)
		}
	}
	return m
}

// alsFit holds the factor state of one training run.
//
//nolint:gocritic // X, Y follow standard linear algebra notation
type alsFit struct {
	numFactors int
	numWorkers int
	lambda     float64

	// X is the user factor matrix (numUsers x numFactors)
	X [][]float64

	// Y is the item factor matrix (numItems x numFactors)
	Y [][]float64
}

// gram returns M'M for a row-major factor matrix.
func (f *alsFit) gram(m [][]float64) [][]float64 {
	g := make([][]float64, f.numFactors)
	for k := range g {
		g[k] = make([]float64, f.numFactors)
	}
	for _, row := range m {
		for f1 := 0; f1 < f.numFactors; f1++ {
			for f2 := f1; f2 < f.numFactors; f2++ {
				g[f1][f2] += row[f1] * row[f2]
			}
		}
	}
	for f1 := 0; f1 < f.numFactors; f1++ {
		for f2 := 0; f2 < f1; f2++ {
			g[f1][f2] = g[f2][f1]
		}
	}
	return g
}

// updateUserFactors solves every user with Y fixed.
func (f *alsFit) updateUserFactors(userItems []map[int]float64) {
	YtY := f.gram(f.Y)
	f.parallel(len(f.X), func(u int) {
		f.X[u] = f.solveRow(userItems[u], f.Y, YtY)
	})
}

// updateItemFactors solves every item with X fixed.
func (f *alsFit) updateItemFactors(itemUsers []map[int]float64) {
	XtX := f.gram(f.X)
	f.parallel(len(f.Y), func(i int) {
		f.Y[i] = f.solveRow(itemUsers[i], f.X, XtX)
	})
}

// parallel runs fn over [0, n) in contiguous chunks.
func (f *alsFit) parallel(n int, fn func(int)) {
	var wg sync.WaitGroup
	chunkSize := (n + f.numWorkers - 1) / f.numWorkers

	for w := 0; w < f.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for r := lo; r < hi; r++ {
				fn(r)
			}
		}(start, end)
	}

	wg.Wait()
}

// solveRow computes one factor vector:
//
//	A = F'F + F' (C - I) F + lambda * I
//	b = F' C p
//	x = A^(-1) b
//
//nolint:gocritic // FtF follows standard linear algebra notation
func (f *alsFit) solveRow(conf map[int]float64, fixed, FtF [][]float64) []float64 {
	A := make([][]float64, f.numFactors)
	for k := range A {
		A[k] = make([]float64, f.numFactors)
		copy(A[k], FtF[k])
		A[k][k] += f.lambda
	}

	b := make([]float64, f.numFactors)
	for j, c := range conf {
		y := fixed[j]
		cMinus1 := c - 1.0

		for f1 := 0; f1 < f.numFactors; f1++ {
			for f2 := f1; f2 < f.numFactors; f2++ {
				delta := cMinus1 * y[f1] * y[f2]
				A[f1][f2] += delta
				if f1 != f2 {
					A[f2][f1] += delta
				}
			}
			b[f1] += c * y[f1]
		}
	}

	return solveLinearSystem(A, b)
}

// solveLinearSystem solves A*x = b using Cholesky decomposition.
//
//nolint:gocritic // A, L follow standard linear algebra notation
func solveLinearSystem(A [][]float64, b []float64) []float64 {
	n := len(b)

	// A = L * L'
	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := A[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}

			if i == j {
				if sum <= 0 {
					sum = 1e-10
				}
				L[i][j] = math.Sqrt(sum)
			} else if L[j][j] != 0 {
				L[i][j] = sum / L[j][j]
			}
		}
	}

	// L * z = b
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for j := 0; j < i; j++ {
			sum -= L[i][j] * z[j]
		}
		if L[i][i] != 0 {
			z[i] = sum / L[i][i]
		}
	}

	// L' * x = z
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < n; j++ {
			sum -= L[j][i] * x[j]
		}
		if L[i][i] != 0 {
			x[i] = sum / L[i][i]
		}
	}

	return x
}

var _ recommend.Trainer = (*ALSTrainer)(nil)

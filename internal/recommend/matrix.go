// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package recommend

import (
	"fmt"
	"time"
)

// MatrixKind distinguishes user-factor from item-factor matrices.
type MatrixKind int

const (
	// KindUsers has one column per user.
	KindUsers MatrixKind = iota
	// KindItems has one column per item.
	KindItems
)

// String returns the kind name.
func (k MatrixKind) String() string {
	switch k {
	case KindUsers:
		return "users"
	case KindItems:
		return "items"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Matrix is a dense row-major factor matrix. Rows is the latent rank and
// Cols the number of users or items; column index = key - 1.
//
// A Matrix is never mutated after construction.
type Matrix struct {
	Kind       MatrixKind `msgpack:"kind"`
	Rows       int        `msgpack:"rows"`
	Cols       int        `msgpack:"cols"`
	Data       []float64  `msgpack:"data"`
	Generation int64      `msgpack:"generation"`
}

// NewMatrix allocates a zeroed matrix.
func NewMatrix(kind MatrixKind, rows, cols int, generation int64) *Matrix {
	return &Matrix{
		Kind:       kind,
		Rows:       rows,
		Cols:       cols,
		Data:       make([]float64, rows*cols),
		Generation: generation,
	}
}

// At returns the value at factor row f, column c.
func (m *Matrix) At(f, c int) float64 {
	return m.Data[f*m.Cols+c]
}

// Set writes the value at factor row f, column c.
// Only for use while building a matrix.
func (m *Matrix) Set(f, c int, v float64) {
	m.Data[f*m.Cols+c] = v
}

// Column returns a copy of column c (the latent vector of key c+1).
func (m *Matrix) Column(c int) []float64 {
	col := make([]float64, m.Rows)
	for f := 0; f < m.Rows; f++ {
		col[f] = m.Data[f*m.Cols+c]
	}
	return col
}

// Validate checks the matrix shape.
func (m *Matrix) Validate() error {
	if m == nil {
		return fmt.Errorf("matrix is nil")
	}
	if m.Rows <= 0 {
		return fmt.Errorf("%s matrix rank must be positive, got %d", m.Kind, m.Rows)
	}
	if m.Cols < 0 {
		return fmt.Errorf("%s matrix columns must be non-negative, got %d", m.Kind, m.Cols)
	}
	if len(m.Data) != m.Rows*m.Cols {
		return fmt.Errorf("%s matrix data length %d does not match %dx%d", m.Kind, len(m.Data), m.Rows, m.Cols)
	}
	return nil
}

// Generation is a pair of factor matrices produced by one training run.
// Readers always observe both matrices of the same generation.
type Generation struct {
	ID        int64     `msgpack:"id"`
	Users     *Matrix   `msgpack:"users"`
	Items     *Matrix   `msgpack:"items"`
	TrainedAt time.Time `msgpack:"trained_at"`
}

// Rank returns the latent rank shared by both matrices.
func (g *Generation) Rank() int {
	return g.Users.Rows
}

// Validate checks that both matrices belong together.
func (g *Generation) Validate() error {
	if g == nil {
		return fmt.Errorf("generation is nil")
	}
	if err := g.Users.Validate(); err != nil {
		return fmt.Errorf("generation %d: %w", g.ID, err)
	}
	if err := g.Items.Validate(); err != nil {
		return fmt.Errorf("generation %d: %w", g.ID, err)
	}
	if g.Users.Kind != KindUsers {
		return fmt.Errorf("generation %d: user matrix has kind %s", g.ID, g.Users.Kind)
	}
	if g.Items.Kind != KindItems {
		return fmt.Errorf("generation %d: item matrix has kind %s", g.ID, g.Items.Kind)
	}
	if g.Users.Rows != g.Items.Rows {
		return fmt.Errorf("generation %d: rank mismatch (users %d, items %d)", g.ID, g.Users.Rows, g.Items.Rows)
	}
	if g.Users.Generation != g.ID || g.Items.Generation != g.ID {
		return fmt.Errorf("generation %d: matrix tags %d/%d do not match",
			g.ID, g.Users.Generation, g.Items.Generation)
	}
	return nil
}

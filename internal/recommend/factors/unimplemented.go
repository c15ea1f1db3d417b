// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package factors

import (
	"context"
	"fmt"

	"github.com/tomtom215/appranker/internal/recommend"
)

// UnimplementedProvider fails every call with recommend.ErrNotImplemented.
// Embed it in partial providers so missing methods fail at call time.
type UnimplementedProvider struct{}

// Name implements recommend.MatrixProvider.
func (UnimplementedProvider) Name() string { return "unimplemented" }

// UserMatrix implements recommend.MatrixProvider.
func (UnimplementedProvider) UserMatrix(context.Context) (*recommend.Matrix, error) {
	return nil, fmt.Errorf("user matrix: %w", recommend.ErrNotImplemented)
}

// ItemMatrix implements recommend.MatrixProvider.
func (UnimplementedProvider) ItemMatrix(context.Context) (*recommend.Matrix, error) {
	return nil, fmt.Errorf("item matrix: %w", recommend.ErrNotImplemented)
}

// Current implements recommend.MatrixProvider.
func (UnimplementedProvider) Current(context.Context) (*recommend.Generation, error) {
	return nil, fmt.Errorf("current generation: %w", recommend.ErrNotImplemented)
}

var _ recommend.MatrixProvider = UnimplementedProvider{}

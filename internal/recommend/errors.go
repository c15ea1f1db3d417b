// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable is returned when factor matrices cannot be
	// obtained even after one training attempt.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrIntegrity marks a broken list invariant inside the pipeline.
	// It indicates a bug and must not be swallowed.
	ErrIntegrity = errors.New("pipeline integrity violation")

	// ErrNotImplemented is returned by abstract providers whose
	// required methods were not overridden.
	ErrNotImplemented = errors.New("not implemented")
)

// IntegrityError reports a transform whose output length differs from
// its input length.
type IntegrityError struct {
	Transform TransformKey
	Want      int
	Got       int
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s: length mismatch (old:%d != new:%d)",
		ErrIntegrity, e.Transform, e.Want, e.Got)
}

// Is reports whether target is ErrIntegrity.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

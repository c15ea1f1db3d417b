// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package api

import "errors"

var (
	// ErrCatalogRequired indicates the handler was built without a catalog.
	ErrCatalogRequired = errors.New("catalog is required")

	// ErrStatsRequired indicates the handler was built without a stats source.
	ErrStatsRequired = errors.New("stats source is required")
)

// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

// Package filtering implements score filters: transforms applied to the
// full score vector before it is sorted.
//
// # Available Filters
//
//   - Installed: installed apps drop to -Inf
//   - Locale: apps that do not support the user's locale drop to -Inf
//   - RegionPenalty: apps unavailable in the user's regions lose 1000 per
//     missing region
//
// Filters never change the vector length. They may write to the vector
// they receive, which is always a private copy owned by the request.
//
// # Caching
//
// Locale implements recommend.Attachable. Once registered with a
// controller it memoises the excluded keys per user external id in the
// controller's cache under the "locale:<owner>" keyspace. Entries follow
// the cache's default TTL and are not invalidated when item data changes.
//
// # Configuration
//
// Build creates a filter from its configured name, so the set of filters
// can be chosen in the recommend.filters config list.
package filtering

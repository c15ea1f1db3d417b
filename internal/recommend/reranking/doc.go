// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

// Package reranking implements list rerankers: transforms applied to the
// ranked key list after the score vector is sorted.
//
// # Overview
//
// Reranking runs after filtering and sorting:
//
//	Scores -> Filters -> Stable sort -> Rerankers -> Truncate to n
//
// Every reranker returns a permutation of its input. The controller checks
// the length after each step and fails the request with a
// *recommend.IntegrityError when it changes.
//
// # Available Rerankers
//
// Region:
//   - Moves apps unavailable in all of the user's regions (and not
//     worldwide) to the end
//   - Both groups keep their relative order
//
// Category:
//   - Builds a category profile from the user's installed apps
//   - Reserves up to n slots for the user's favourite categories and fills
//     each with the best-ranked unpicked app of that category taken from
//     the top third of the list
//   - Inserts the picks so they end at position n
//
// Repetition:
//   - Moves installed apps to the tail in the user's listing order
//
// # Category Slots
//
// The profile mass of a category is the share of installed apps carrying
// it. Categories are visited by mass descending, ties by name, and each
// receives floor(mass * n) slots until the running total exceeds n/2:
//
//	installed: 3 games, 1 news (n = 4)
//	games: floor(0.75 * 4) = 3 slots -> total 3 > 2, stop
//
// # Caching
//
// Region and Category implement recommend.Attachable and memoise per-user
// state (availability list and category profile) in the owner's cache.
// Region keys its entries by module as well as by user.
//
// # Thread Safety
//
// Rerankers hold no per-request state and are safe for concurrent use.
package reranking

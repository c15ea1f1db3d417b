// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

// Package factors provides the factor matrix providers behind
// recommend.MatrixProvider and the ALS trainer that feeds them.
//
// # Providers
//
//   - RandomProvider: fixed-rank random matrices sized from the catalog,
//     generated once and kept until Invalidate. Used for smoke tests.
//   - TrainedProvider: serves the newest generation from a
//     storage.GenerationStore and trains one when none exists.
//   - UnimplementedProvider: embeddable base that fails every call with
//     recommend.ErrNotImplemented.
//
// # Training
//
// TrainedProvider funnels concurrent cache misses into one training run
// (singleflight) and guards the trainer with a circuit breaker so a broken
// training pipeline is not hammered by every request. After a successful
// run the generation is persisted, old generations are pruned and the
// store lookup is retried exactly once.
//
// # Thread Safety
//
// All providers are safe for concurrent use. The served generation is
// published through an atomic pointer so readers always see a matching
// user/item matrix pair.
package factors

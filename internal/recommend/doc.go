// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

// Package recommend implements latent-factor ranking of catalog items.
//
// # Architecture
//
// A Controller turns a user into a top-N list of item keys:
//
//	MatrixProvider.Current -> Scorer (cached per generation) -> filters
//	-> stable descending sort -> rerankers -> truncate to n
//
// Filters transform the score vector (one score per item, index = key-1)
// and must keep its length. Rerankers transform the ranked key list and must
// return a permutation of it. A violation of either rule is reported as an
// *IntegrityError and fails the request.
//
// # Matrices and Generations
//
// Factor matrices are rank x count, column = key - 1. A Generation pairs the
// user and item matrices of one training run; providers publish generations
// atomically so readers never mix matrices from different runs. Score vectors
// are cached together with the generation id that produced them and are
// recomputed as soon as a newer generation is served.
//
// # Usage
//
//	ctrl, err := recommend.NewController(cfg, provider, store, cacheClient, logger)
//	ctrl.RegisterFilters(filtering.NewInstalled(), filtering.NewLocale(store))
//	ctrl.RegisterRerankers(reranking.NewCategory(store, 4))
//
//	keys, err := ctrl.GetRecommendation(ctx, user, 10)
//	ids, err := ctrl.GetExternalIDRecommendations(ctx, user, 10)
//
// # Thread Safety
//
// Controllers are safe for concurrent use. Pipeline registration takes a
// write lock; requests snapshot the pipeline under a read lock and run
// without holding it.
package recommend

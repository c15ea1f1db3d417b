// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

// Package logging provides centralized zerolog-based structured logging for Appranker.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once from the logging config section
//   - JSON output for production and console output for development
//   - Component loggers (WithComponent) handed to the ranking packages
//   - Request and correlation IDs carried in context.Context
//   - An slog.Handler adapter for the suture supervisor
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	ctrl, err := recommend.NewController(cfg, provider, store, client,
//	    logging.WithComponent("recommend"))
//
//	ctx = logging.ContextWithNewRequestID(ctx)
//	logging.Ctx(ctx).Debug().Int("n", n).Msg("recommendation requested")
//
// # Log Levels
//
//   - trace: Badger internals, per-iteration training detail
//   - debug: per-request pipeline detail
//   - info: generation swaps, training runs, service lifecycle
//   - warn: recoverable failures (pruning, skipped interactions)
//   - error: failed training runs and requests
//
// # Thread Safety
//
// Init and SetLogger take a write lock; Logger and the helpers built on it
// take a read lock. zerolog.Logger values are safe to share.
package logging

// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

// Package storage persists trained factor generations.
//
// A generation (the user and item factor matrices of one training run) is
// stored as a single record so that a reader can never load a user matrix
// from one run and an item matrix from another.
//
// # Storage Format
//
// Records are msgpack-encoded and carry metadata with a SHA-256 checksum of
// the encoded generation. The checksum is verified on every load.
//
//	gen:{provider}:{id, zero padded}  -> record
//	latest:{provider}                 -> id of the newest record
//
// The generation record and the latest pointer are written in one Badger
// transaction.
//
// # Backends
//
//   - MemoryStore: process-local, used in tests and for the random provider
//   - BadgerStore: embedded on-disk store, survives restarts
//
// # Retention
//
// Prune keeps the newest N generations of a provider and removes the rest.
package storage

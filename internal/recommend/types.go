// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package recommend

import (
	"context"
	"time"
)

// User is the subject of a recommendation request.
type User struct {
	// Key is the dense 1-based internal key; column Key-1 of the user matrix.
	Key int `json:"key"`

	// ExternalID is the opaque identifier exposed outside the ranking core.
	ExternalID string `json:"external_id"`

	// Locale is the user's locale tag (e.g. "pt-PT").
	Locale string `json:"locale"`

	// Regions lists the user's region tags. Worldwide is implicit.
	Regions []string `json:"regions,omitempty"`

	// InstalledApps lists installed item keys in listing order.
	InstalledApps []int `json:"installed_apps,omitempty"`
}

// Item is a catalog entry (an app).
type Item struct {
	// Key is the dense 1-based internal key; column Key-1 of the item matrix.
	Key int `json:"key"`

	// ExternalID is the opaque identifier exposed outside the ranking core.
	ExternalID string `json:"external_id"`

	// Module groups items of one kind for region lookups.
	Module string `json:"module,omitempty"`

	Categories []string `json:"categories,omitempty"`
	Locales    []string `json:"locales,omitempty"`
	Regions    []string `json:"regions,omitempty"`
}

// Interaction is an implicit-feedback event used for training:
// the user installed the item.
type Interaction struct {
	UserKey int `json:"user_key"`
	ItemKey int `json:"item_key"`

	// Confidence weights the event. Installs carry 1.0.
	Confidence float64 `json:"confidence"`
}

// ScoreVector holds one significance score per item, index = item key - 1.
// Its length never changes once produced.
type ScoreVector []float64

// Clone returns an independent copy of the vector.
func (v ScoreVector) Clone() ScoreVector {
	if v == nil {
		return nil
	}
	out := make(ScoreVector, len(v))
	copy(out, v)
	return out
}

// TransformKey identifies a filter or reranker by kind and canonical
// parameters. Two transforms with equal keys are interchangeable.
type TransformKey struct {
	Kind   string
	Params string
}

// String renders the key as kind(params).
func (k TransformKey) String() string {
	if k.Params == "" {
		return k.Kind
	}
	return k.Kind + "(" + k.Params + ")"
}

// Filter transforms the score vector before sorting.
//
// Implementations may mutate and return the input vector but must keep
// its length.
type Filter interface {
	Key() TransformKey
	Apply(ctx context.Context, user *User, scores ScoreVector) (ScoreVector, error)
}

// Reranker transforms the ranked id list after sorting.
//
// The returned list must be a permutation of the input.
type Reranker interface {
	Key() TransformKey
	Rerank(ctx context.Context, user *User, ranked []int) ([]int, error)
}

// Trainer produces a fresh generation of factor matrices.
// Implementations must tolerate concurrent calls.
type Trainer interface {
	Train(ctx context.Context) (*Generation, error)
}

// MatrixProvider supplies the factor matrices of the current generation.
type MatrixProvider interface {
	// Name identifies the provider in cache keys and logs.
	Name() string

	UserMatrix(ctx context.Context) (*Matrix, error)
	ItemMatrix(ctx context.Context) (*Matrix, error)

	// Current returns both matrices of one generation.
	Current(ctx context.Context) (*Generation, error)
}

// Metrics contains controller performance counters.
type Metrics struct {
	// RequestCount is the total number of recommendation requests.
	RequestCount int64 `json:"request_count"`

	// CacheHits is the number of score vectors served from cache.
	CacheHits int64 `json:"cache_hits"`

	// CacheMisses is the number of score vectors computed.
	CacheMisses int64 `json:"cache_misses"`

	// ErrorCount is the number of failed requests.
	ErrorCount int64 `json:"error_count"`

	// Generation is the id of the last generation served.
	Generation int64 `json:"generation"`

	// LastRequestAt is when the last request completed.
	LastRequestAt time.Time `json:"last_request_at,omitempty"`
}

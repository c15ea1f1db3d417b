// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package reranking

import (
	"errors"
	"fmt"

	"github.com/tomtom215/appranker/internal/catalog"
	"github.com/tomtom215/appranker/internal/recommend"
	"github.com/tomtom215/appranker/internal/region"
)

// Reranker kinds accepted by Build.
const (
	KindRegion     = "region"
	KindCategory   = "category"
	KindRepetition = "repetition"
)

// ErrUnknownReranker is returned by Build for an unregistered name.
var ErrUnknownReranker = errors.New("unknown reranker")

// Deps carries what the configurable rerankers need.
type Deps struct {
	Store         catalog.Store
	Module        string
	CategorySlots int
}

// Names lists the reranker names Build accepts.
func Names() []string {
	return []string{KindRegion, KindCategory, KindRepetition}
}

// Build creates the reranker registered under name.
func Build(name string, deps Deps) (recommend.Reranker, error) {
	switch name {
	case KindRepetition:
		return NewRepetition(), nil
	case KindRegion, KindCategory:
		if deps.Store == nil {
			return nil, fmt.Errorf("%s reranker: catalog store is required", name)
		}
		if name == KindRegion {
			return NewRegion(region.NewTools(deps.Store), deps.Module), nil
		}
		return NewCategory(deps.Store, deps.CategorySlots), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReranker, name)
	}
}

// BuildAll creates the rerankers for names in order.
func BuildAll(names []string, deps Deps) ([]recommend.Reranker, error) {
	rerankers := make([]recommend.Reranker, 0, len(names))
	for _, name := range names {
		r, err := Build(name, deps)
		if err != nil {
			return nil, err
		}
		rerankers = append(rerankers, r)
	}
	return rerankers, nil
}

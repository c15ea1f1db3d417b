// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package filtering

import (
	"errors"
	"fmt"

	"github.com/tomtom215/appranker/internal/catalog"
	"github.com/tomtom215/appranker/internal/recommend"
	"github.com/tomtom215/appranker/internal/region"
)

// Filter kinds accepted by Build.
const (
	KindInstalled = "installed"
	KindLocale    = "locale"
	KindRegion    = "region"
)

// ErrUnknownFilter is returned by Build for an unregistered name.
var ErrUnknownFilter = errors.New("unknown filter")

// Deps carries what the configurable filters need.
type Deps struct {
	Store  catalog.Store
	Module string
}

// Names lists the filter names Build accepts.
func Names() []string {
	return []string{KindInstalled, KindLocale, KindRegion}
}

// Build creates the filter registered under name.
func Build(name string, deps Deps) (recommend.Filter, error) {
	switch name {
	case KindInstalled:
		return NewInstalled(), nil
	case KindLocale:
		if deps.Store == nil {
			return nil, fmt.Errorf("%s filter: catalog store is required", name)
		}
		return NewLocale(deps.Store), nil
	case KindRegion:
		if deps.Store == nil {
			return nil, fmt.Errorf("%s filter: catalog store is required", name)
		}
		return NewRegionPenalty(region.NewTools(deps.Store), deps.Module), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
}

// BuildAll creates the filters for names in order.
func BuildAll(names []string, deps Deps) ([]recommend.Filter, error) {
	filters := make([]recommend.Filter, 0, len(names))
	for _, name := range names {
		f, err := Build(name, deps)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

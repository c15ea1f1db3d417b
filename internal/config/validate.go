// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package config

import (
	"fmt"

	"github.com/tomtom215/appranker/internal/validation"
)

// Validate checks struct tag rules and then the cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}
	return c.validateStorage()
}

// validateRecommend checks the pipeline limits.
func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.MaxN > 0 && r.MaxN < r.DefaultN {
		return fmt.Errorf("recommend.max_n (%d) must be >= recommend.default_n (%d)", r.MaxN, r.DefaultN)
	}
	if r.Cache.Type == "lru" && r.Cache.Capacity == 0 {
		return fmt.Errorf("recommend.cache.capacity is required when recommend.cache.type=lru")
	}
	return nil
}

// validateStorage requires a store location for the trained provider.
func (c *Config) validateStorage() error {
	if c.Recommend.Provider != "trained" || c.Storage.InMemory {
		return nil
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required when recommend.provider=trained and storage.in_memory=false")
	}
	return nil
}

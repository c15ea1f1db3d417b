// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps a thread-safe singleton validator configured for the
// application's koanf-tagged configuration structs. Field errors are
// reported by their dotted configuration path, so a failure reads the same
// way the setting is written in YAML:
//
//	recommend.default_n must be at least 1
//
// # Quick Start
//
//	type TrainingConfig struct {
//	    Interval time.Duration `koanf:"interval" validate:"gte=0"`
//	    Factors  int           `koanf:"factors" validate:"min=1,max=512"`
//	}
//
//	if verr := validation.ValidateStruct(&cfg); verr != nil {
//	    return fmt.Errorf("invalid configuration: %w", verr)
//	}
//
// # Custom Validators
//
//   - bytesize: a DuckDB memory size such as "512MB", "2GB" or "75%"
//
// # Errors
//
// ValidateStruct returns a *StructError holding one FieldError per failed
// rule. StructError matches ErrInvalid with errors.Is.
//
// # Thread Safety
//
// GetValidator initialises the validator once; it is safe for concurrent use.
package validation

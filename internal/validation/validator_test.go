// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type limitsSection struct {
	DefaultN int `koanf:"default_n" validate:"min=1"`
	MaxN     int `koanf:"max_n" validate:"min=1,max=1000"`
}

type testConfig struct {
	Strategy  string        `koanf:"strategy" validate:"required,oneof=random trained"`
	MaxMemory string        `koanf:"max_memory" validate:"omitempty,bytesize"`
	Filters   []string      `koanf:"filters" validate:"max=2"`
	Limits    limitsSection `koanf:"limits"`
	Untagged  int           `validate:"gte=0"`
}

func validTestConfig() testConfig {
	return testConfig{
		Strategy:  "trained",
		MaxMemory: "1GB",
		Limits:    limitsSection{DefaultN: 10, MaxN: 100},
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*testConfig)
		wantPath string
		wantMsg  string
	}{
		{"valid", func(*testConfig) {}, "", ""},
		{"missing strategy", func(c *testConfig) { c.Strategy = "" }, "strategy", "strategy is required"},
		{"unknown strategy", func(c *testConfig) { c.Strategy = "magic" }, "strategy", "strategy must be one of: random trained"},
		{"nested path", func(c *testConfig) { c.Limits.MaxN = 0 }, "limits.max_n", "limits.max_n must be at least 1"},
		{"list length", func(c *testConfig) { c.Filters = []string{"a", "b", "c"} }, "filters", "filters must have at most 2 entries"},
		{"bad byte size", func(c *testConfig) { c.MaxMemory = "lots" }, "max_memory", "max_memory must be a memory size such as 512MB or 75%"},
		{"untagged field", func(c *testConfig) { c.Untagged = -1 }, "Untagged", "Untagged must be greater than or equal to 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(&cfg)

			verr := ValidateStruct(&cfg)
			if tt.wantPath == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if len(verr.Errors()) != 1 {
				t.Fatalf("Errors() = %d entries, want 1: %v", len(verr.Errors()), verr)
			}
			fe := verr.Errors()[0]
			if fe.Path() != tt.wantPath {
				t.Errorf("Path() = %q, want %q", fe.Path(), tt.wantPath)
			}
			if fe.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", fe.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_ByteSizes(t *testing.T) {
	for _, size := range []string{"512MB", "2GB", "1.5GiB", "75%", "100 kb"} {
		cfg := validTestConfig()
		cfg.MaxMemory = size
		if verr := ValidateStruct(&cfg); verr != nil {
			t.Errorf("MaxMemory %q rejected: %v", size, verr)
		}
	}
	for _, size := range []string{"GB", "-1GB", "1000%", "12 parsecs"} {
		cfg := validTestConfig()
		cfg.MaxMemory = size
		if verr := ValidateStruct(&cfg); verr == nil {
			t.Errorf("MaxMemory %q accepted", size)
		}
	}
}

func TestStructError(t *testing.T) {
	cfg := validTestConfig()
	cfg.Strategy = ""
	cfg.Limits.DefaultN = 0

	verr := ValidateStruct(&cfg)
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	var err error = verr
	if !errors.Is(err, ErrInvalid) {
		t.Error("StructError should match ErrInvalid")
	}
	if len(verr.Errors()) != 2 {
		t.Errorf("Errors() = %d entries, want 2", len(verr.Errors()))
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("Error() = %q, want joined messages", err.Error())
	}

	if (&StructError{}).Error() != ErrInvalid.Error() {
		t.Error("empty StructError should render ErrInvalid")
	}
}

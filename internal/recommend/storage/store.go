// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomtom215/appranker/internal/recommend"
)

// ErrNotFound is returned by Latest when no generation is stored.
var ErrNotFound = errors.New("generation not found")

// GenerationStore persists factor generations per provider name.
type GenerationStore interface {
	// Latest returns the newest stored generation, or ErrNotFound.
	Latest(ctx context.Context, name string) (*recommend.Generation, error)

	// Save stores gen atomically and makes it the latest generation.
	Save(ctx context.Context, name string, gen *recommend.Generation) error

	// Prune keeps the newest keep generations and returns how many were
	// removed.
	Prune(ctx context.Context, name string, keep int) (int, error)

	// Close releases backend resources.
	Close() error
}

// Metadata describes a stored generation.
type Metadata struct {
	Name       string    `msgpack:"name"`
	Generation int64     `msgpack:"generation"`
	Rank       int       `msgpack:"rank"`
	UserCount  int       `msgpack:"user_count"`
	ItemCount  int       `msgpack:"item_count"`
	TrainedAt  time.Time `msgpack:"trained_at"`
	SavedAt    time.Time `msgpack:"saved_at"`
	Checksum   string    `msgpack:"checksum"`
	SizeBytes  int64     `msgpack:"size_bytes"`
}

// record is the stored format.
type record struct {
	Metadata Metadata `msgpack:"metadata"`
	Payload  []byte   `msgpack:"payload"`
}

// encodeGeneration validates gen and returns the encoded record.
func encodeGeneration(name string, gen *recommend.Generation) ([]byte, error) {
	if err := gen.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generation: %w", err)
	}

	payload, err := msgpack.Marshal(gen)
	if err != nil {
		return nil, fmt.Errorf("encode generation: %w", err)
	}

	hash := sha256.Sum256(payload)
	rec := record{
		Metadata: Metadata{
			Name:       name,
			Generation: gen.ID,
			Rank:       gen.Rank(),
			UserCount:  gen.Users.Cols,
			ItemCount:  gen.Items.Cols,
			TrainedAt:  gen.TrainedAt,
			SavedAt:    time.Now(),
			Checksum:   hex.EncodeToString(hash[:]),
			SizeBytes:  int64(len(payload)),
		},
		Payload: payload,
	}

	data, err := msgpack.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

// decodeGeneration verifies the checksum and decodes a record.
func decodeGeneration(data []byte) (*recommend.Generation, *Metadata, error) {
	var rec record
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, nil, fmt.Errorf("decode record: %w", err)
	}

	hash := sha256.Sum256(rec.Payload)
	checksum := hex.EncodeToString(hash[:])
	if checksum != rec.Metadata.Checksum {
		return nil, nil, fmt.Errorf("checksum mismatch: expected %s, got %s", rec.Metadata.Checksum, checksum)
	}

	var gen recommend.Generation
	if err := msgpack.Unmarshal(rec.Payload, &gen); err != nil {
		return nil, nil, fmt.Errorf("decode generation: %w", err)
	}
	if err := gen.Validate(); err != nil {
		return nil, nil, fmt.Errorf("stored generation: %w", err)
	}

	return &gen, &rec.Metadata, nil
}

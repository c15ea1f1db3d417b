// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/appranker/internal/metrics"
	"github.com/tomtom215/appranker/internal/recommend"
)

// BadgerConfig configures the Badger generation store.
type BadgerConfig struct {
	// Path is the Badger data directory. Required unless InMemory is set.
	Path string

	// InMemory runs Badger without disk persistence.
	InMemory bool
}

// BadgerStore persists generations in BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// OpenBadger opens (or creates) a Badger generation store.
//
//nolint:gocritic // logger passed by value, matching the rest of the code base
func OpenBadger(cfg BadgerConfig, logger zerolog.Logger) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badger store: path is required for on-disk mode")
	}

	logger = logger.With().Str("component", "generation_store").Logger()

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Generation store opened")

	return &BadgerStore{db: db, logger: logger}, nil
}

func generationKey(name string, id int64) []byte {
	// Zero padding keeps lexicographic key order equal to numeric order.
	return []byte(fmt.Sprintf("gen:%s:%020d", name, id))
}

func generationPrefix(name string) []byte {
	return []byte("gen:" + name + ":")
}

func latestKey(name string) []byte {
	return []byte("latest:" + name)
}

// Latest implements GenerationStore.
func (s *BadgerStore) Latest(_ context.Context, name string) (*recommend.Generation, error) {
	var gen *recommend.Generation

	err := s.db.View(func(txn *badger.Txn) error {
		id, err := readLatestID(txn, name)
		if err != nil {
			return err
		}

		item, err := txn.Get(generationKey(name, id))
		if err != nil {
			return fmt.Errorf("get generation %d: %w", id, err)
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("read generation %d: %w", id, err)
		}

		gen, _, err = decodeGeneration(data)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		metrics.RecordStoreOp("badger", "latest", ErrNotFound)
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	metrics.RecordStoreOp("badger", "latest", err)
	if err != nil {
		return nil, err
	}
	return gen, nil
}

// readLatestID returns the latest pointer, or badger.ErrKeyNotFound.
func readLatestID(txn *badger.Txn, name string) (int64, error) {
	item, err := txn.Get(latestKey(name))
	if err != nil {
		return 0, err
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return 0, fmt.Errorf("read latest pointer: %w", err)
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse latest pointer %q: %w", raw, err)
	}
	return id, nil
}

// Save implements GenerationStore. The record and the latest pointer are
// written in one transaction; the pointer never moves to an older ID.
func (s *BadgerStore) Save(_ context.Context, name string, gen *recommend.Generation) error {
	data, err := encodeGeneration(name, gen)
	if err != nil {
		metrics.RecordStoreOp("badger", "save", err)
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(generationKey(name, gen.ID), data); err != nil {
			return fmt.Errorf("set generation: %w", err)
		}
		current, err := readLatestID(txn, name)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err == nil && current > gen.ID {
			return nil
		}
		if err := txn.Set(latestKey(name), []byte(strconv.FormatInt(gen.ID, 10))); err != nil {
			return fmt.Errorf("set latest pointer: %w", err)
		}
		return nil
	})
	metrics.RecordStoreOp("badger", "save", err)
	if err != nil {
		return fmt.Errorf("write to BadgerDB: %w", err)
	}

	s.logger.Debug().
		Str("provider", name).
		Int64("generation", gen.ID).
		Int("bytes", len(data)).
		Msg("Generation saved")
	return nil
}

// Prune implements GenerationStore.
func (s *BadgerStore) Prune(_ context.Context, name string, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}

	var keys [][]byte
	prefix := generationPrefix(name)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		metrics.RecordStoreOp("badger", "prune", err)
		return 0, fmt.Errorf("iterate generations: %w", err)
	}

	if len(keys) <= keep {
		return 0, nil
	}

	stale := keys[:len(keys)-keep]
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range stale {
		if err := wb.Delete(k); err != nil {
			metrics.RecordStoreOp("badger", "prune", err)
			return 0, fmt.Errorf("delete generation: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		metrics.RecordStoreOp("badger", "prune", err)
		return 0, fmt.Errorf("flush prune batch: %w", err)
	}

	metrics.RecordStoreOp("badger", "prune", nil)
	s.logger.Info().
		Str("provider", name).
		Int("removed", len(stale)).
		Int("kept", keep).
		Msg("Pruned old generations")
	return len(stale), nil
}

// Close implements GenerationStore.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}

var _ GenerationStore = (*BadgerStore)(nil)

// badgerLogger routes Badger's internal logging through zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(f string, v ...interface{}) { l.logger.Error().Msgf(f, v...) }

func (l badgerLogger) Warningf(f string, v ...interface{}) { l.logger.Warn().Msgf(f, v...) }

func (l badgerLogger) Infof(f string, v ...interface{}) { l.logger.Debug().Msgf(f, v...) }

func (l badgerLogger) Debugf(f string, v ...interface{}) { l.logger.Trace().Msgf(f, v...) }

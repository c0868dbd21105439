// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package kits

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/datatypes"
)

// Key layout: kit:{created_at unix nano, zero padded}:{uuid}.
// A reverse iteration over the prefix yields newest first.
const kitKeyPrefix = "kit:"

// Config holds configuration for the badger-backed store.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// Retention is how many kits to keep. Zero means DefaultRetention.
	Retention int

	// Logger is the logger for BadgerDB operations.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger
}

// BadgerStore implements Store on an embedded BadgerDB.
type BadgerStore struct {
	db        *badger.DB
	retention int
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open creates and opens a kit store with the given configuration.
//
// # Outputs
//
//   - *BadgerStore: The opened store. Caller must call Close() when done.
//   - error: Non-nil if path is invalid or the database cannot be opened.
func Open(cfg Config) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("path is required for persistent kit store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create kit store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open kit store: %w", err)
	}

	retention := cfg.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &BadgerStore{db: db, retention: retention}, nil
}

// OpenInMemory opens a throwaway in-memory store for testing.
func OpenInMemory() (*BadgerStore, error) {
	return Open(Config{InMemory: true})
}

func kitKey(kit datatypes.StoredKit) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", kitKeyPrefix, kit.CreatedAt.UnixNano(), kit.ID))
}

// Save persists the kit and evicts the oldest entries beyond retention.
func (s *BadgerStore) Save(ctx context.Context, kit datatypes.StoredKit) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	value, err := json.Marshal(kit)
	if err != nil {
		return fmt.Errorf("marshal kit %s: %w", kit.ID, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(kitKey(kit), value); err != nil {
			return err
		}
		return s.pruneLocked(txn)
	})
	if err != nil {
		return fmt.Errorf("save kit %s: %w", kit.ID, err)
	}
	return nil
}

// pruneLocked deletes everything past the newest retention entries.
// Must run inside an update transaction.
func (s *BadgerStore) pruneLocked(txn *badger.Txn) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Reverse = true
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := []byte(kitKeyPrefix)
	seen := 0
	var stale [][]byte
	// Reverse iteration needs a seek key past the whole prefix range.
	for it.Seek(append(prefix, 0xFF)); it.ValidForPrefix(prefix); it.Next() {
		seen++
		if seen > s.retention {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
	}
	for _, key := range stale {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// Recent returns up to limit kits, newest first.
func (s *BadgerStore) Recent(ctx context.Context, limit int) ([]datatypes.StoredKit, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}
	if limit <= 0 {
		limit = s.retention
	}

	out := []datatypes.StoredKit{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(kitKeyPrefix)
		for it.Seek(append(prefix, 0xFF)); it.ValidForPrefix(prefix) && len(out) < limit; it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var kit datatypes.StoredKit
				if err := json.Unmarshal(val, &kit); err != nil {
					return fmt.Errorf("unmarshal kit %s: %w", it.Item().Key(), err)
				}
				out = append(out, kit)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list recent kits: %w", err)
	}
	return out, nil
}

// Get loads one kit by id. The retention window keeps the key space tiny,
// so a prefix scan is cheaper than a secondary index.
func (s *BadgerStore) Get(ctx context.Context, id string) (datatypes.StoredKit, error) {
	if err := ctx.Err(); err != nil {
		return datatypes.StoredKit{}, fmt.Errorf("context cancelled: %w", err)
	}

	suffix := []byte(":" + id)
	var found *datatypes.StoredKit
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(kitKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if !bytes.HasSuffix(it.Item().Key(), suffix) {
				continue
			}
			return it.Item().Value(func(val []byte) error {
				var kit datatypes.StoredKit
				if err := json.Unmarshal(val, &kit); err != nil {
					return fmt.Errorf("unmarshal kit %s: %w", id, err)
				}
				found = &kit
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return datatypes.StoredKit{}, fmt.Errorf("get kit %s: %w", id, err)
	}
	if found == nil {
		return datatypes.StoredKit{}, ErrNotFound
	}
	return *found, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

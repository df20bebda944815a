// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Badger is a Cache backed by an embedded Badger database with native
// per-entry TTLs. Results survive restarts when a path is configured.
type Badger struct {
	db     *badger.DB
	ttl    time.Duration
	logger zerolog.Logger
}

// OpenBadger opens (or creates) a Badger cache at path. An empty path keeps
// the database in memory.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func OpenBadger(path string, ttl time.Duration, logger zerolog.Logger) (*Badger, error) {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	opts.ValueLogFileSize = 16 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}

	return &Badger{
		db:     db,
		ttl:    ttl,
		logger: logger.With().Str("component", "cache").Str("backend", "badger").Logger(),
	}, nil
}

// Name implements Backend.
func (b *Badger) Name() string { return string(BackendBadger) }

// Get implements Cache.
func (b *Badger) Get(_ context.Context, key string) ([]byte, bool) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false
	}
	if err != nil {
		b.logger.Warn().Err(err).Str("key", key).Msg("Badger get failed, treating as miss")
		return nil, false
	}
	return value, true
}

// Set implements Cache.
func (b *Badger) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = b.ttl
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value).WithTTL(ttl))
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix.
func (b *Badger) DeletePrefix(_ context.Context, prefix string) error {
	if err := b.db.DropPrefix([]byte(prefix)); err != nil {
		return fmt.Errorf("badger drop prefix %s: %w", prefix, err)
	}
	return nil
}

// Close closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

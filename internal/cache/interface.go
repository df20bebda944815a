// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Cache is the result cache consumed by the recommendation engine.
// A miss must never change results; implementations degrade errors to misses.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key for ttl. A ttl <= 0 uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Invalidator drops every key sharing a prefix.
type Invalidator interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

// Backend is a concrete cache owned by the process.
type Backend interface {
	Cache
	Invalidator
	Name() string
	Close() error
}

// BackendType selects a cache implementation.
type BackendType string

const (
	// BackendNone disables result caching.
	BackendNone BackendType = "none"

	// BackendMemory is the in-process LRU cache with TTL.
	BackendMemory BackendType = "memory"

	// BackendRedis stores results in Redis, shared between instances.
	BackendRedis BackendType = "redis"

	// BackendBadger stores results in an embedded Badger database.
	BackendBadger BackendType = "badger"
)

// Config holds configuration for creating a cache backend.
type Config struct {
	Backend BackendType

	// TTL is the default time-to-live for entries.
	TTL time.Duration

	// Capacity bounds the memory backend. Default: 10000
	Capacity int

	Redis RedisConfig

	// BadgerPath is the Badger directory. Empty runs Badger in memory.
	BadgerPath string
}

// New creates the configured backend. It returns a nil Backend for BackendNone.
//
//	backend, err := cache.New(cache.Config{Backend: cache.BackendMemory, TTL: 10 * time.Minute}, logger)
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, logger zerolog.Logger) (Backend, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}

	switch cfg.Backend {
	case BackendNone, "":
		return nil, nil
	case BackendMemory:
		return NewMemory(cfg.Capacity, cfg.TTL), nil
	case BackendRedis:
		r, err := NewRedis(cfg.Redis, cfg.TTL, logger)
		if err != nil {
			return nil, err
		}
		return r, nil
	case BackendBadger:
		b, err := OpenBadger(cfg.BadgerPath, cfg.TTL, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Verify interface implementations at compile time
var (
	_ Backend = (*Memory)(nil)
	_ Backend = (*Redis)(nil)
	_ Backend = (*Badger)(nil)
)

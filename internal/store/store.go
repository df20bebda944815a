// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/models"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendDuckDB = "duckdb"
)

// Reader is the read side consumed by the recommendation engine.
type Reader interface {
	GetRatings(ctx context.Context, userID int) (map[int]int, error)
	GetAllRatings(ctx context.Context) ([]models.Rating, error)
	GetWatchlist(ctx context.Context, userID int) ([]models.WatchlistEntry, error)
	GetViews(ctx context.Context, userID int) ([]models.ViewRecord, error)
}

// Writer records user interactions. Deletes of absent rows succeed.
type Writer interface {
	UpsertRating(ctx context.Context, userID, movieID, value int) error
	DeleteRating(ctx context.Context, userID, movieID int) error
	UpsertWatchlist(ctx context.Context, userID, movieID int) error
	DeleteWatchlist(ctx context.Context, userID, movieID int) error
	RecordView(ctx context.Context, userID, movieID int) error
	DeleteUser(ctx context.Context, userID int) error
}

// Store is a complete interaction store.
type Store interface {
	Reader
	Writer

	// GetEngagement aggregates interaction counts for the given movies.
	// Movies without interactions are absent from the result.
	GetEngagement(ctx context.Context, movieIDs []int) (map[int]models.Engagement, error)

	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend string       `koanf:"backend"`
	DuckDB  DuckDBConfig `koanf:"duckdb"`
}

// DuckDBConfig configures DuckDBStore.
type DuckDBConfig struct {
	// Path is the database file, or ":memory:".
	Path string `koanf:"path"`

	// Threads is the DuckDB worker count. 0 uses all CPUs.
	Threads int `koanf:"threads"`

	// MaxMemory caps DuckDB memory, e.g. "512MB".
	MaxMemory string `koanf:"max_memory"`

	// QueryTimeout bounds every statement.
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// DefaultConfig returns the in-memory backend.
func DefaultConfig() Config {
	return Config{
		Backend: BackendMemory,
		DuckDB: DuckDBConfig{
			Path:         "/data/cinerec.duckdb",
			MaxMemory:    "512MB",
			QueryTimeout: 5 * time.Second,
		},
	}
}

// Open creates the configured backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg Config, scale models.RatingScale, logger zerolog.Logger) (Store, error) {
	if err := scale.Validate(); err != nil {
		return nil, fmt.Errorf("rating scale: %w", err)
	}
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(scale), nil
	case BackendDuckDB:
		return NewDuckDBStore(ctx, cfg.DuckDB, scale, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// checkIDs rejects non-positive user or movie IDs.
func checkIDs(userID, movieID int) error {
	if userID <= 0 {
		return fmt.Errorf("%w: user id %d", models.ErrInvalidID, userID)
	}
	if movieID <= 0 {
		return fmt.Errorf("%w: movie id %d", models.ErrInvalidID, movieID)
	}
	return nil
}

// checkUser rejects a non-positive user ID.
func checkUser(userID int) error {
	if userID <= 0 {
		return fmt.Errorf("%w: user id %d", models.ErrInvalidID, userID)
	}
	return nil
}

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import "time"

// Config holds all application configuration loaded from defaults, an
// optional config file and environment variables.
type Config struct {
	Logging    LoggingConfig    `koanf:"logging"`
	Server     ServerConfig     `koanf:"server"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Store      StoreConfig      `koanf:"store"`
	Cache      CacheConfig      `koanf:"cache"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Resilience ResilienceConfig `koanf:"resilience"`
	Events     EventsConfig     `koanf:"events"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// ServerConfig holds the operational HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// CatalogConfig holds movie catalog settings.
type CatalogConfig struct {
	// Path is the YAML catalog file.
	Path string `koanf:"path"`
}

// StoreConfig holds interaction store settings.
type StoreConfig struct {
	// Backend is memory or duckdb.
	// Default: memory
	Backend string `koanf:"backend"`

	// SeedPath is an optional YAML fixture loaded at startup.
	SeedPath string `koanf:"seed_path"`

	DuckDB DuckDBConfig `koanf:"duckdb"`
}

// DuckDBConfig holds DuckDB connection settings.
type DuckDBConfig struct {
	Path         string        `koanf:"path"`
	Threads      int           `koanf:"threads"` // 0 = runtime.NumCPU()
	MaxMemory    string        `koanf:"max_memory"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	// Backend is none, memory, redis or badger.
	// Default: memory
	Backend string `koanf:"backend"`

	// TTL applies to personalized and similar-movie responses.
	// Default: 10m
	TTL time.Duration `koanf:"ttl"`

	// Capacity bounds the memory backend.
	// Default: 10000
	Capacity int `koanf:"capacity"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// BadgerPath is the Badger directory. Empty runs Badger in memory.
	BadgerPath string `koanf:"badger_path"`
}

// RecommendConfig holds the operator-facing recommendation parameters.
// cmd/server maps it onto recommend.Config.
type RecommendConfig struct {
	DefaultMode      string  `koanf:"default_mode"`
	RatingMin        int     `koanf:"rating_min"`
	RatingMax        int     `koanf:"rating_max"`
	PositiveFraction float64 `koanf:"positive_fraction"`

	ContentPool                int     `koanf:"content_pool"`
	MinSimilarity              float64 `koanf:"min_similarity"`
	PreferencePopularityWeight float64 `koanf:"preference_popularity_weight"`
	DerivedGenres              int     `koanf:"derived_genres"`

	ItemCFMaxRaters     int     `koanf:"item_cf_max_raters"`
	ItemCFMinSimilarity float64 `koanf:"item_cf_min_similarity"`
	UserCFMaxNeighbors  int     `koanf:"user_cf_max_neighbors"`
	UserCFTopNeighbors  int     `koanf:"user_cf_top_neighbors"`

	ContentWeight       float64 `koanf:"content_weight"`
	CollaborativeWeight float64 `koanf:"collaborative_weight"`
	CollaborativeSource string  `koanf:"collaborative_source"`

	FallbackPool        int           `koanf:"fallback_pool"`
	DefaultLimit        int           `koanf:"default_limit"`
	MaxLimit            int           `koanf:"max_limit"`
	CollaboratorTimeout time.Duration `koanf:"collaborator_timeout"`
	ExcludeViewed       bool          `koanf:"exclude_viewed"`
	Workers             int           `koanf:"workers"`

	FeaturedTTL             time.Duration `koanf:"featured_ttl"`
	FeaturedRefreshInterval time.Duration `koanf:"featured_refresh_interval"` // 0 disables background refresh
	FeaturedRefreshLimit    int           `koanf:"featured_refresh_limit"`
}

// ResilienceConfig holds the catalog circuit breaker and rate limiter.
type ResilienceConfig struct {
	BreakerMaxRequests      uint32        `koanf:"breaker_max_requests"`
	BreakerInterval         time.Duration `koanf:"breaker_interval"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	CatalogRatePerSecond    float64       `koanf:"catalog_rate_per_second"` // 0 disables limiting
	CatalogBurst            int           `koanf:"catalog_burst"`
}

// EventsConfig holds the interaction event bus settings.
type EventsConfig struct {
	Enabled              bool          `koanf:"enabled"`
	Topic                string        `koanf:"topic"`
	BufferSize           int64         `koanf:"buffer_size"`
	RetryMaxRetries      int           `koanf:"retry_max_retries"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`
	ThrottlePerSecond    int64         `koanf:"throttle_per_second"`
	CloseTimeout         time.Duration `koanf:"close_timeout"`
}

// Load reads configuration using defaults, an optional config file and
// environment variables, in that order. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

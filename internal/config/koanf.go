// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinerec/config.yaml",
	"/etc/cinerec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Server: ServerConfig{
			Port:            9090,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Catalog: CatalogConfig{
			Path: "/data/catalog.yaml",
		},
		Store: StoreConfig{
			Backend:  "memory",
			SeedPath: "",
			DuckDB: DuckDBConfig{
				Path:         "/data/cinerec.duckdb",
				Threads:      0,
				MaxMemory:    "512MB",
				QueryTimeout: 5 * time.Second,
			},
		},
		Cache: CacheConfig{
			Backend:   "memory",
			TTL:       10 * time.Minute,
			Capacity:  10000,
			RedisAddr: "127.0.0.1:6379",
		},
		Recommend: RecommendConfig{
			DefaultMode:                "hybrid",
			RatingMin:                  1,
			RatingMax:                  5,
			PositiveFraction:           0.75,
			ContentPool:                300,
			MinSimilarity:              0,
			PreferencePopularityWeight: 0.2,
			DerivedGenres:              5,
			ItemCFMaxRaters:            2000,
			ItemCFMinSimilarity:        0.1,
			UserCFMaxNeighbors:         1000,
			UserCFTopNeighbors:         50,
			ContentWeight:              0.6,
			CollaborativeWeight:        0.4,
			CollaborativeSource:        "both",
			FallbackPool:               200,
			DefaultLimit:               10,
			MaxLimit:                   100,
			CollaboratorTimeout:        5 * time.Second,
			ExcludeViewed:              true,
			Workers:                    4,
			FeaturedTTL:                30 * time.Minute,
			FeaturedRefreshInterval:    15 * time.Minute,
			FeaturedRefreshLimit:       20,
		},
		Resilience: ResilienceConfig{
			BreakerMaxRequests:      3,
			BreakerInterval:         30 * time.Second,
			BreakerTimeout:          10 * time.Second,
			BreakerFailureThreshold: 5,
			CatalogRatePerSecond:    0,
			CatalogBurst:            50,
		},
		Events: EventsConfig{
			Enabled:              true,
			Topic:                "interactions",
			BufferSize:           256,
			RetryMaxRetries:      3,
			RetryInitialInterval: 100 * time.Millisecond,
			ThrottlePerSecond:    0,
			CloseTimeout:         10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Built-in defaults
//  2. Config file (CONFIG_PATH or the first of DefaultConfigPaths)
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first existing
// default path, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lowercased environment variable names to config paths.
var envMappings = map[string]string{
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"catalog_path": "catalog.path",

	"store_backend":       "store.backend",
	"store_seed_path":     "store.seed_path",
	"duckdb_path":         "store.duckdb.path",
	"duckdb_threads":      "store.duckdb.threads",
	"duckdb_max_memory":   "store.duckdb.max_memory",
	"duckdb_query_timeout": "store.duckdb.query_timeout",

	"cache_backend":  "cache.backend",
	"cache_ttl":      "cache.ttl",
	"cache_capacity": "cache.capacity",
	"redis_addr":     "cache.redis_addr",
	"redis_password": "cache.redis_password",
	"redis_db":       "cache.redis_db",
	"badger_path":    "cache.badger_path",

	"recommend_default_mode":                 "recommend.default_mode",
	"recommend_rating_min":                   "recommend.rating_min",
	"recommend_rating_max":                   "recommend.rating_max",
	"recommend_positive_fraction":            "recommend.positive_fraction",
	"recommend_content_pool":                 "recommend.content_pool",
	"recommend_min_similarity":               "recommend.min_similarity",
	"recommend_preference_popularity_weight": "recommend.preference_popularity_weight",
	"recommend_derived_genres":               "recommend.derived_genres",
	"recommend_item_cf_max_raters":           "recommend.item_cf_max_raters",
	"recommend_item_cf_min_similarity":       "recommend.item_cf_min_similarity",
	"recommend_user_cf_max_neighbors":        "recommend.user_cf_max_neighbors",
	"recommend_user_cf_top_neighbors":        "recommend.user_cf_top_neighbors",
	"recommend_content_weight":               "recommend.content_weight",
	"recommend_collaborative_weight":         "recommend.collaborative_weight",
	"recommend_collaborative_source":         "recommend.collaborative_source",
	"recommend_fallback_pool":                "recommend.fallback_pool",
	"recommend_default_limit":                "recommend.default_limit",
	"recommend_max_limit":                    "recommend.max_limit",
	"recommend_collaborator_timeout":         "recommend.collaborator_timeout",
	"recommend_exclude_viewed":               "recommend.exclude_viewed",
	"recommend_workers":                      "recommend.workers",
	"recommend_featured_ttl":                 "recommend.featured_ttl",
	"recommend_featured_refresh_interval":    "recommend.featured_refresh_interval",
	"recommend_featured_refresh_limit":       "recommend.featured_refresh_limit",

	"breaker_max_requests":      "resilience.breaker_max_requests",
	"breaker_interval":          "resilience.breaker_interval",
	"breaker_timeout":           "resilience.breaker_timeout",
	"breaker_failure_threshold": "resilience.breaker_failure_threshold",
	"catalog_rate_per_second":   "resilience.catalog_rate_per_second",
	"catalog_burst":             "resilience.catalog_burst",

	"events_enabled":                "events.enabled",
	"events_topic":                  "events.topic",
	"events_buffer_size":            "events.buffer_size",
	"events_retry_max_retries":      "events.retry_max_retries",
	"events_retry_initial_interval": "events.retry_initial_interval",
	"events_throttle_per_second":    "events.throttle_per_second",
	"events_close_timeout":          "events.close_timeout",
}

// envTransformFunc transforms environment variable names to config paths.
// Unmapped variables return "" and are skipped so unrelated environment
// does not leak into the configuration.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

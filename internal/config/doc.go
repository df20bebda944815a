// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package config provides centralized configuration management for Cinerec.

# Configuration Sources

Configuration is layered with Koanf v2, later sources overriding earlier ones:
 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: CONFIG_PATH, or the first of DefaultConfigPaths
 3. Environment variables listed in the transform table

# Configuration Structure

  - LoggingConfig: zerolog level and format
  - ServerConfig: operational HTTP listener (/metrics, /healthz)
  - CatalogConfig: movie catalog file
  - StoreConfig: interaction store backend (memory or duckdb) and seed fixture
  - CacheConfig: response cache backend (none, memory, redis, badger)
  - RecommendConfig: scoring and blending parameters
  - ResilienceConfig: catalog circuit breaker and rate limiter
  - EventsConfig: interaction event bus and router

# Environment Variables

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: include caller file:line (default: false)

Server:
  - HTTP_HOST: bind address (default: 0.0.0.0)
  - HTTP_PORT: listen port (default: 9090)

Catalog and store:
  - CATALOG_PATH: YAML movie catalog (required)
  - STORE_BACKEND: memory, duckdb (default: memory)
  - STORE_SEED_PATH: YAML interaction fixture loaded at startup
  - DUCKDB_PATH: interaction database path

Cache:
  - CACHE_BACKEND: none, memory, redis, badger (default: memory)
  - CACHE_TTL: personalized response TTL (default: 10m)
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB: Redis connection
  - BADGER_PATH: Badger directory (empty runs in memory)

Recommend:
  - RECOMMEND_DEFAULT_MODE: content_based, item_based, user_based, hybrid
  - RECOMMEND_RATING_MIN, RECOMMEND_RATING_MAX: rating scale (default: 1-5)
  - RECOMMEND_CONTENT_WEIGHT, RECOMMEND_COLLABORATIVE_WEIGHT: hybrid blend
  - RECOMMEND_FEATURED_REFRESH_INTERVAL: background refresh (0 disables)

See envTransformFunc for the complete table.

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

# Thread Safety

Config is immutable after Load() and safe for concurrent read access.
*/
package config

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package main is the entry point for the Cinerec server.

Cinerec scores movies for a user from the genre content of what they liked,
item-based and user-based collaborative filtering over ratings, or a hybrid
blend of both. Requests that produce nothing fall back to global popularity.

# Application Architecture

	RootSupervisor ("cinerec")
	├── DataSupervisor ("data-layer")
	│   └── FeaturedService (periodic featured ranking refresh)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventRouterService (interaction events -> cache invalidation)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (/metrics, /healthz)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog with JSON/console output modes
 3. Catalog: YAML file behind a circuit breaker and rate limiter
 4. Events: Watermill in-process bus, publisher and router
 5. Store: memory or DuckDB, optional seed fixture, event publishing
 6. Cache: none, memory, Redis or Badger
 7. Engine: recommend.Engine wired to catalog, store and cache
 8. Supervisor Tree: Suture v4 process supervision

# Configuration

	CONFIG_PATH=/etc/cinerec/config.yaml
	CATALOG_PATH=/data/catalog.yaml
	STORE_BACKEND=duckdb DUCKDB_PATH=/data/cinerec.duckdb
	CACHE_BACKEND=redis REDIS_ADDR=redis:6379
	RECOMMEND_DEFAULT_MODE=hybrid

See internal/config for every key.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops every
service, then the cache, store and event bus are closed.
*/
package main

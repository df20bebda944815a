// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateLogging,
		c.validateServer,
		c.validateCatalog,
		c.validateStore,
		c.validateCache,
		c.validateRecommend,
		c.validateResilience,
		c.validateEvents,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case "memory":
	case "duckdb":
		if c.Store.DuckDB.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when STORE_BACKEND=duckdb")
		}
		if c.Store.DuckDB.QueryTimeout <= 0 {
			return fmt.Errorf("DUCKDB_QUERY_TIMEOUT must be positive")
		}
		if c.Store.DuckDB.Threads < 0 {
			return fmt.Errorf("DUCKDB_THREADS must be non-negative")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of: memory, duckdb")
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "none":
		return nil
	case "memory":
		if c.Cache.Capacity < 1 {
			return fmt.Errorf("CACHE_CAPACITY must be positive")
		}
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
		if c.Cache.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB must be non-negative")
		}
	case "badger":
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: none, memory, redis, badger")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}

var validModes = map[string]bool{
	"content_based": true,
	"item_based":    true,
	"user_based":    true,
	"hybrid":        true,
}

var validCollaborativeSources = map[string]bool{
	"item": true,
	"user": true,
	"both": true,
}

// validateRecommend checks operator-facing bounds. recommend.Config.Validate
// checks the mapped engine config again at startup.
func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if !validModes[r.DefaultMode] {
		return fmt.Errorf("RECOMMEND_DEFAULT_MODE must be one of: content_based, item_based, user_based, hybrid")
	}
	if r.RatingMin < 1 || r.RatingMax <= r.RatingMin {
		return fmt.Errorf("rating scale must satisfy 1 <= RECOMMEND_RATING_MIN < RECOMMEND_RATING_MAX, got %d-%d",
			r.RatingMin, r.RatingMax)
	}
	if r.PositiveFraction < 0 || r.PositiveFraction > 1 {
		return fmt.Errorf("RECOMMEND_POSITIVE_FRACTION must be in [0, 1]")
	}
	if r.ContentWeight < 0 || r.CollaborativeWeight < 0 {
		return fmt.Errorf("hybrid weights must be non-negative")
	}
	if !validCollaborativeSources[r.CollaborativeSource] {
		return fmt.Errorf("RECOMMEND_COLLABORATIVE_SOURCE must be one of: item, user, both")
	}
	if r.DefaultLimit < 1 || r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("limits must satisfy 1 <= RECOMMEND_DEFAULT_LIMIT <= RECOMMEND_MAX_LIMIT")
	}
	if r.Workers < 1 {
		return fmt.Errorf("RECOMMEND_WORKERS must be positive")
	}
	if r.FeaturedRefreshInterval < 0 {
		return fmt.Errorf("RECOMMEND_FEATURED_REFRESH_INTERVAL must be non-negative")
	}
	return nil
}

func (c *Config) validateResilience() error {
	if c.Resilience.BreakerFailureThreshold < 1 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be positive")
	}
	if c.Resilience.BreakerTimeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	if c.Resilience.CatalogRatePerSecond < 0 {
		return fmt.Errorf("CATALOG_RATE_PER_SECOND must be non-negative")
	}
	if c.Resilience.CatalogRatePerSecond > 0 && c.Resilience.CatalogBurst < 1 {
		return fmt.Errorf("CATALOG_BURST must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	if c.Events.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC is required when EVENTS_ENABLED=true")
	}
	if c.Events.BufferSize < 0 || c.Events.RetryMaxRetries < 0 || c.Events.ThrottlePerSecond < 0 {
		return fmt.Errorf("event buffer, retry and throttle settings must be non-negative")
	}
	return nil
}

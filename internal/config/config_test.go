// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"missing catalog", func(c *Config) { c.Catalog.Path = "  " }, "CATALOG_PATH"},
		{"unknown store", func(c *Config) { c.Store.Backend = "postgres" }, "STORE_BACKEND"},
		{"duckdb without path", func(c *Config) {
			c.Store.Backend = "duckdb"
			c.Store.DuckDB.Path = ""
		}, "DUCKDB_PATH"},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }, "CACHE_BACKEND"},
		{"redis without addr", func(c *Config) {
			c.Cache.Backend = "redis"
			c.Cache.RedisAddr = ""
		}, "REDIS_ADDR"},
		{"zero capacity", func(c *Config) { c.Cache.Capacity = 0 }, "CACHE_CAPACITY"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "CACHE_TTL"},
		{"unknown mode", func(c *Config) { c.Recommend.DefaultMode = "random" }, "RECOMMEND_DEFAULT_MODE"},
		{"inverted scale", func(c *Config) {
			c.Recommend.RatingMin = 5
			c.Recommend.RatingMax = 1
		}, "rating scale"},
		{"fraction above one", func(c *Config) { c.Recommend.PositiveFraction = 1.5 }, "POSITIVE_FRACTION"},
		{"negative weight", func(c *Config) { c.Recommend.ContentWeight = -1 }, "weights"},
		{"unknown source", func(c *Config) { c.Recommend.CollaborativeSource = "none" }, "COLLABORATIVE_SOURCE"},
		{"limit above max", func(c *Config) { c.Recommend.DefaultLimit = 500 }, "limits"},
		{"no workers", func(c *Config) { c.Recommend.Workers = 0 }, "WORKERS"},
		{"zero breaker threshold", func(c *Config) { c.Resilience.BreakerFailureThreshold = 0 }, "BREAKER_FAILURE_THRESHOLD"},
		{"rate without burst", func(c *Config) {
			c.Resilience.CatalogRatePerSecond = 10
			c.Resilience.CatalogBurst = 0
		}, "CATALOG_BURST"},
		{"events without topic", func(c *Config) { c.Events.Topic = "" }, "EVENTS_TOPIC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAcceptsAlternatives(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"cache disabled", func(c *Config) {
			c.Cache.Backend = "none"
			c.Cache.TTL = 0
		}},
		{"badger cache", func(c *Config) { c.Cache.Backend = "badger" }},
		{"duckdb store", func(c *Config) { c.Store.Backend = "duckdb" }},
		{"events disabled without topic", func(c *Config) {
			c.Events.Enabled = false
			c.Events.Topic = ""
		}},
		{"console logging", func(c *Config) { c.Logging.Format = "console" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points CONFIG_PATH at a missing file and moves into an empty
// directory so no default config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "absent.yaml"))
	return dir
}

func TestLoadWithKoanfDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Recommend.DefaultMode != "hybrid" {
		t.Errorf("default mode = %q, want hybrid", cfg.Recommend.DefaultMode)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("cache ttl = %v, want 10m", cfg.Cache.TTL)
	}
}

func TestLoadWithKoanfFileThenEnv(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "cinerec.yaml")
	content := `
logging:
  level: debug
catalog:
  path: /srv/movies.yaml
recommend:
  default_mode: content_based
  content_weight: 0.7
cache:
  backend: none
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("RECOMMEND_WORKERS", "8")
	t.Setenv("EVENTS_RETRY_INITIAL_INTERVAL", "250ms")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("env should override file: level = %q", cfg.Logging.Level)
	}
	if cfg.Catalog.Path != "/srv/movies.yaml" {
		t.Errorf("catalog path = %q", cfg.Catalog.Path)
	}
	if cfg.Recommend.DefaultMode != "content_based" {
		t.Errorf("default mode = %q", cfg.Recommend.DefaultMode)
	}
	if cfg.Recommend.ContentWeight != 0.7 {
		t.Errorf("content weight = %v", cfg.Recommend.ContentWeight)
	}
	if cfg.Recommend.CollaborativeWeight != 0.4 {
		t.Errorf("unset keys keep defaults: collaborative weight = %v", cfg.Recommend.CollaborativeWeight)
	}
	if cfg.Recommend.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Recommend.Workers)
	}
	if cfg.Events.RetryInitialInterval != 250*time.Millisecond {
		t.Errorf("retry interval = %v", cfg.Events.RetryInitialInterval)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("cache backend = %q", cfg.Cache.Backend)
	}
}

func TestLoadWithKoanfRejectsInvalid(t *testing.T) {
	isolate(t)
	t.Setenv("STORE_BACKEND", "sqlite")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"LOG_LEVEL", "logging.level"},
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_MAX_MEMORY", "store.duckdb.max_memory"},
		{"REDIS_ADDR", "cache.redis_addr"},
		{"RECOMMEND_ITEM_CF_MAX_RATERS", "recommend.item_cf_max_raters"},
		{"BREAKER_TIMEOUT", "resilience.breaker_timeout"},
		{"EVENTS_TOPIC", "events.topic"},
		{"HOME", ""},
		{"PATH", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("expected no config file, got %q", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("expected default path, got %q", got)
	}
}

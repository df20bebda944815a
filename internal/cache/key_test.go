// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestGenerateKey(t *testing.T) {
	type params struct {
		Mode  string
		Limit int
	}

	k1 := GenerateKey("recommend:u1", params{"hybrid", 10})
	k2 := GenerateKey("recommend:u1", params{"hybrid", 10})
	k3 := GenerateKey("recommend:u1", params{"hybrid", 20})

	if k1 != k2 {
		t.Errorf("identical params produced different keys: %s vs %s", k1, k2)
	}
	if k1 == k3 {
		t.Error("different params produced the same key")
	}
	if !strings.HasPrefix(k1, "recommend:u1:") {
		t.Errorf("key %q does not keep its prefix", k1)
	}
	// prefix + ":" + 32 hex chars
	if len(k1) != len("recommend:u1:")+32 {
		t.Errorf("key length = %d, want %d", len(k1), len("recommend:u1:")+32)
	}
}

func TestGenerateKey_Unmarshalable(t *testing.T) {
	key := GenerateKey("x", make(chan int))
	if !strings.HasPrefix(key, "x:") {
		t.Errorf("fallback key %q missing prefix", key)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantNil  bool
		wantName string
		wantErr  bool
	}{
		{name: "none", cfg: Config{Backend: BackendNone}, wantNil: true},
		{name: "empty", cfg: Config{}, wantNil: true},
		{name: "memory", cfg: Config{Backend: BackendMemory, TTL: time.Minute}, wantName: "memory"},
		{name: "badger in memory", cfg: Config{Backend: BackendBadger}, wantName: "badger"},
		{name: "redis without address", cfg: Config{Backend: BackendRedis}, wantErr: true},
		{name: "unknown", cfg: Config{Backend: "memcached"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.cfg, zerolog.Nop())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if b != nil {
					t.Errorf("New() = %v, want nil", b)
				}
				return
			}
			defer b.Close()
			if b.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", b.Name(), tt.wantName)
			}
		})
	}
}

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// newTestRedis connects to the server named by REDIS_ADDR or skips.
func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	r, err := NewRedis(RedisConfig{Addr: addr}, time.Minute, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestNewRedis_RequiresAddr(t *testing.T) {
	if _, err := NewRedis(RedisConfig{}, time.Minute, zerolog.Nop()); err == nil {
		t.Error("NewRedis() with empty address should fail")
	}
}

func TestRedisGetSetDeletePrefix(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()
	prefix := "cinerec-test:" + uuid.NewString() + ":"

	if _, ok := r.Get(ctx, prefix+"missing"); ok {
		t.Error("Get(missing) should be a miss")
	}

	for _, suffix := range []string{"a", "b"} {
		if err := r.Set(ctx, prefix+suffix, []byte(suffix), 0); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	got, ok := r.Get(ctx, prefix+"a")
	if !ok || string(got) != "a" {
		t.Errorf("Get(a) = %q, %v", got, ok)
	}

	if err := r.DeletePrefix(ctx, prefix); err != nil {
		t.Fatalf("DeletePrefix() error = %v", err)
	}
	if _, ok := r.Get(ctx, prefix+"b"); ok {
		t.Error("keys under prefix should be deleted")
	}
}

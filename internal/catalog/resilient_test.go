// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinerec/internal/models"
)

type flakyProvider struct {
	err   error
	calls atomic.Int32
}

func (f *flakyProvider) GetMovie(_ context.Context, id int) (*models.MovieRecord, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &models.MovieRecord{ID: id, Title: "ok"}, nil
}

func (f *flakyProvider) GetPopular(_ context.Context, _ int) ([]models.MovieRecord, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []models.MovieRecord{{ID: 1, Title: "ok"}}, nil
}

func (f *flakyProvider) GetGenreUniverse(_ context.Context) ([]string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []string{"Drama"}, nil
}

func testResilientConfig() ResilientConfig {
	cfg := DefaultResilientConfig()
	cfg.Name = "catalog-test"
	cfg.FailureThreshold = 3
	cfg.Timeout = time.Hour
	return cfg
}

func TestNewResilient_RequiresInner(t *testing.T) {
	if _, err := NewResilient(nil, DefaultResilientConfig(), zerolog.Nop()); err == nil {
		t.Fatal("NewResilient(nil) expected error")
	}
}

func TestResilientCatalog_PassThrough(t *testing.T) {
	inner := &flakyProvider{}
	r, err := NewResilient(inner, testResilientConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewResilient() error = %v", err)
	}
	ctx := context.Background()

	movie, err := r.GetMovie(ctx, 7)
	if err != nil || movie.ID != 7 {
		t.Errorf("GetMovie() = %v, %v", movie, err)
	}
	popular, err := r.GetPopular(ctx, 1)
	if err != nil || len(popular) != 1 {
		t.Errorf("GetPopular() = %v, %v", popular, err)
	}
	universe, err := r.GetGenreUniverse(ctx)
	if err != nil || len(universe) != 1 {
		t.Errorf("GetGenreUniverse() = %v, %v", universe, err)
	}
}

func TestResilientCatalog_OpensAfterFailures(t *testing.T) {
	inner := &flakyProvider{err: errors.New("backend down")}
	r, err := NewResilient(inner, testResilientConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewResilient() error = %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := r.GetPopular(ctx, 5); err == nil || errors.Is(err, ErrCatalogUnavailable) {
			t.Fatalf("call %d: error = %v, want backend error", i, err)
		}
	}
	if r.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", r.State())
	}

	_, err = r.GetGenreUniverse(ctx)
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Errorf("open breaker error = %v, want ErrCatalogUnavailable", err)
	}
	if got := inner.calls.Load(); got != 3 {
		t.Errorf("inner calls = %d, want 3", got)
	}
}

func TestResilientCatalog_NotFoundDoesNotTrip(t *testing.T) {
	inner := &flakyProvider{err: fmt.Errorf("movie 9: %w", models.ErrMovieNotFound)}
	r, err := NewResilient(inner, testResilientConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewResilient() error = %v", err)
	}

	for i := 0; i < 10; i++ {
		_, err := r.GetMovie(context.Background(), 9)
		if !errors.Is(err, models.ErrMovieNotFound) {
			t.Fatalf("call %d: error = %v, want ErrMovieNotFound", i, err)
		}
	}
	if r.State() != gobreaker.StateClosed {
		t.Errorf("State() = %v, want closed", r.State())
	}
}

func TestResilientCatalog_RateLimitHonorsContext(t *testing.T) {
	cfg := testResilientConfig()
	cfg.RatePerSecond = 0.001
	cfg.Burst = 1
	inner := &flakyProvider{}
	r, err := NewResilient(inner, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewResilient() error = %v", err)
	}

	if _, err := r.GetMovie(context.Background(), 1); err != nil {
		t.Fatalf("first call error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := r.GetMovie(ctx, 1); err == nil {
		t.Fatal("second call expected rate limit error")
	}
	if got := inner.calls.Load(); got != 1 {
		t.Errorf("inner calls = %d, want 1", got)
	}
}

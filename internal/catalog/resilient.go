// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/models"
)

// ErrCatalogUnavailable is returned while the circuit breaker is open.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// ResilientConfig configures a ResilientCatalog.
type ResilientConfig struct {
	// Name identifies the breaker in logs and metrics.
	Name string

	// MaxRequests allowed through in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period for clearing counts in closed state.
	Interval time.Duration

	// Timeout is how long the breaker stays open before half-open.
	Timeout time.Duration

	// FailureThreshold is the consecutive failure count that opens the breaker.
	FailureThreshold uint32

	// RatePerSecond limits calls to the wrapped provider. 0 disables limiting.
	RatePerSecond float64

	// Burst is the limiter bucket size.
	Burst int
}

// DefaultResilientConfig returns production defaults.
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		Name:             "catalog",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
		RatePerSecond:    0,
		Burst:            50,
	}
}

// ResilientCatalog wraps a Provider with a circuit breaker and an optional
// rate limiter. A missing movie is a successful call and never trips the
// breaker.
type ResilientCatalog struct {
	inner   Provider
	cb      *gobreaker.CircuitBreaker[any]
	limiter *rate.Limiter
	logger  zerolog.Logger
}

var _ Provider = (*ResilientCatalog)(nil)

// NewResilient wraps inner.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewResilient(inner Provider, cfg ResilientConfig, logger zerolog.Logger) (*ResilientCatalog, error) {
	if inner == nil {
		return nil, errors.New("inner catalog is required")
	}
	if cfg.Name == "" {
		cfg.Name = "catalog"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	r := &ResilientCatalog{
		inner:  inner,
		logger: logger.With().Str("component", "catalog").Str("breaker", cfg.Name).Logger(),
	}

	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	threshold := cfg.FailureThreshold
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, models.ErrMovieNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("catalog circuit breaker state changed")
			metrics.SetCircuitBreakerState(name, int(to))
		},
	}
	r.cb = gobreaker.NewCircuitBreaker[any](settings)
	metrics.SetCircuitBreakerState(cfg.Name, int(gobreaker.StateClosed))

	return r, nil
}

// State returns the current breaker state.
func (r *ResilientCatalog) State() gobreaker.State {
	return r.cb.State()
}

// GetMovie implements Provider.
func (r *ResilientCatalog) GetMovie(ctx context.Context, id int) (*models.MovieRecord, error) {
	return execute(ctx, r, "get_movie", func(ctx context.Context) (*models.MovieRecord, error) {
		return r.inner.GetMovie(ctx, id)
	})
}

// GetPopular implements Provider.
func (r *ResilientCatalog) GetPopular(ctx context.Context, limit int) ([]models.MovieRecord, error) {
	return execute(ctx, r, "get_popular", func(ctx context.Context) ([]models.MovieRecord, error) {
		return r.inner.GetPopular(ctx, limit)
	})
}

// GetGenreUniverse implements Provider.
func (r *ResilientCatalog) GetGenreUniverse(ctx context.Context) ([]string, error) {
	return execute(ctx, r, "get_genre_universe", func(ctx context.Context) ([]string, error) {
		return r.inner.GetGenreUniverse(ctx)
	})
}

// execute runs fn behind the limiter and breaker.
func execute[T any](ctx context.Context, r *ResilientCatalog, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return zero, fmt.Errorf("catalog %s: rate limit wait: %w", op, err)
		}
	}

	result, err := r.cb.Execute(func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("catalog %s: %w: %w", op, ErrCatalogUnavailable, err)
		}
		return zero, err
	}

	typed, ok := result.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/metrics"
)

// FeaturedRefresher recomputes the global featured ranking.
// Implemented by *recommend.Engine.
type FeaturedRefresher interface {
	RefreshFeatured(ctx context.Context) error
}

// FeaturedServiceConfig holds configuration for the featured refresher.
type FeaturedServiceConfig struct {
	// Interval between refreshes. Default: 15m
	Interval time.Duration

	// Timeout bounds one refresh. Default: 1m
	Timeout time.Duration

	// RefreshOnStartup runs one refresh before the first tick.
	RefreshOnStartup bool
}

// FeaturedService periodically refreshes the featured ranking so the cache
// stays warm for Featured calls.
type FeaturedService struct {
	refresher FeaturedRefresher
	config    FeaturedServiceConfig
	logger    zerolog.Logger
	name      string
}

// NewFeaturedService creates a new featured refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFeaturedService(refresher FeaturedRefresher, cfg FeaturedServiceConfig, logger zerolog.Logger) *FeaturedService {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	return &FeaturedService{
		refresher: refresher,
		config:    cfg,
		logger:    logger.With().Str("service", "featured").Logger(),
		name:      "featured-service",
	}
}

// Serve implements suture.Service. Refresh failures are logged and counted;
// they never stop the loop.
func (s *FeaturedService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("refresh_on_startup", s.config.RefreshOnStartup).
		Dur("interval", s.config.Interval).
		Msg("featured service starting")

	if s.config.RefreshOnStartup {
		s.refresh(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("featured service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *FeaturedService) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	err := s.refresher.RefreshFeatured(refreshCtx)
	metrics.RecordFeaturedRefresh(err)
	if err != nil {
		s.logger.Warn().Err(err).Msg("featured refresh failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("featured refresh complete")
}

// String returns the service name for logging.
func (s *FeaturedService) String() string {
	return s.name
}

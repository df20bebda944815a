// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/cache"
	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/supervisor"
	"github.com/tomtom215/cinerec/internal/supervisor/services"
)

// initRecommend builds the engine and, when a refresh interval is set,
// registers the featured refresher with the data layer.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(
	cfg *config.Config,
	catalog recommend.CatalogProvider,
	store recommend.InteractionStore,
	resultCache cache.Cache,
	tree *supervisor.SupervisorTree,
	logger zerolog.Logger,
) (*recommend.Engine, error) {
	engineCfg := buildEngineConfig(cfg)

	engine, err := recommend.NewEngine(engineCfg, catalog, store, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	if resultCache != nil {
		engine.SetCache(resultCache)
	}

	logger.Info().
		Str("default_mode", string(engineCfg.DefaultMode)).
		Int("rating_min", engineCfg.Scale.Min).
		Int("rating_max", engineCfg.Scale.Max).
		Float64("content_weight", engineCfg.Hybrid.ContentWeight).
		Float64("collaborative_weight", engineCfg.Hybrid.CollaborativeWeight).
		Bool("cache", resultCache != nil).
		Msg("recommendation engine initialized")

	if interval := cfg.Recommend.FeaturedRefreshInterval; interval > 0 && tree != nil {
		tree.AddDataService(services.NewFeaturedService(engine, services.FeaturedServiceConfig{
			Interval:         interval,
			Timeout:          cfg.Server.Timeout,
			RefreshOnStartup: true,
		}, logger))
		logger.Info().Dur("interval", interval).Msg("featured refresher added to supervisor tree")
	}

	return engine, nil
}

// buildEngineConfig creates the engine configuration from app config.
// Settings without an app-level key keep recommend.DefaultConfig values.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := &cfg.Recommend
	engineCfg := recommend.DefaultConfig()

	engineCfg.DefaultMode = recommend.Mode(rc.DefaultMode)
	engineCfg.Scale = models.RatingScale{Min: rc.RatingMin, Max: rc.RatingMax}
	engineCfg.PositiveFraction = rc.PositiveFraction

	engineCfg.Content.Pool = rc.ContentPool
	engineCfg.Content.MinSimilarity = rc.MinSimilarity
	engineCfg.Content.PreferencePopularityWeight = rc.PreferencePopularityWeight
	engineCfg.Content.DerivedGenres = rc.DerivedGenres

	engineCfg.ItemCF.MaxRaters = rc.ItemCFMaxRaters
	engineCfg.ItemCF.MinSimilarity = rc.ItemCFMinSimilarity
	engineCfg.UserCF.MaxNeighbors = rc.UserCFMaxNeighbors
	engineCfg.UserCF.TopNeighbors = rc.UserCFTopNeighbors

	engineCfg.Hybrid.ContentWeight = rc.ContentWeight
	engineCfg.Hybrid.CollaborativeWeight = rc.CollaborativeWeight
	engineCfg.Hybrid.CollaborativeSource = recommend.CollaborativeSource(rc.CollaborativeSource)

	engineCfg.Fallback.Pool = rc.FallbackPool
	engineCfg.Featured.TTL = rc.FeaturedTTL
	engineCfg.Featured.RefreshLimit = rc.FeaturedRefreshLimit

	engineCfg.Limits.DefaultLimit = rc.DefaultLimit
	engineCfg.Limits.MaxLimit = rc.MaxLimit
	engineCfg.Limits.CollaboratorTimeout = rc.CollaboratorTimeout

	engineCfg.Cache.TTL = cfg.Cache.TTL
	engineCfg.ExcludeViewed = rc.ExcludeViewed
	engineCfg.Workers = rc.Workers

	return engineCfg
}

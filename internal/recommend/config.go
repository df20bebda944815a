// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend/algorithms"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// DefaultMode is used when a request carries no mode.
	// Default: hybrid.
	DefaultMode Mode `json:"default_mode" koanf:"default_mode"`

	// Scale is the valid rating interval.
	// Default: 1-5.
	Scale models.RatingScale `json:"scale" koanf:"scale"`

	// PositiveFraction places the positive-rating threshold within Scale:
	// ceil(Min + PositiveFraction*(Max-Min)).
	// Default: 0.75 (4 on a 1-5 scale).
	PositiveFraction float64 `json:"positive_fraction" koanf:"positive_fraction"`

	// Content contains parameters for genre-based scoring.
	Content ContentConfig `json:"content" koanf:"content"`

	// ItemCF contains parameters for item-based collaborative filtering.
	ItemCF ItemCFConfig `json:"item_cf" koanf:"item_cf"`

	// UserCF contains parameters for user-based collaborative filtering.
	UserCF UserCFConfig `json:"user_cf" koanf:"user_cf"`

	// Hybrid contains blend weights for hybrid mode.
	Hybrid HybridConfig `json:"hybrid" koanf:"hybrid"`

	// Fallback contains popularity back-fill parameters.
	Fallback FallbackConfig `json:"fallback" koanf:"fallback"`

	// Featured contains parameters for the global featured list.
	Featured FeaturedConfig `json:"featured" koanf:"featured"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Cache contains caching parameters.
	Cache CacheConfig `json:"cache" koanf:"cache"`

	// ExcludeViewed drops viewed movies from results in addition to rated
	// and watchlisted ones.
	// Default: true.
	ExcludeViewed bool `json:"exclude_viewed" koanf:"exclude_viewed"`

	// Workers bounds the goroutines used for similarity computation and
	// catalog lookups.
	// Default: 4.
	Workers int `json:"workers" koanf:"workers"`
}

// ContentConfig contains parameters for genre-based scoring.
type ContentConfig struct {
	// Pool is how many popular movies are scored as content candidates.
	// Default: 300.
	Pool int `json:"pool" koanf:"pool"`

	// MinSimilarity drops seed-scored candidates below this mean cosine.
	// Requests may override it (0.5 gives a strict list).
	// Default: 0.
	MinSimilarity float64 `json:"min_similarity" koanf:"min_similarity"`

	// PreferenceMinSimilarity drops preference-scored candidates below this
	// blended score.
	// Default: 0.
	PreferenceMinSimilarity float64 `json:"preference_min_similarity" koanf:"preference_min_similarity"`

	// PreferencePopularityWeight blends catalog popularity into preference
	// scores: (1-w)*cosine + w*popularity/10.
	// Default: 0.2.
	PreferencePopularityWeight float64 `json:"preference_popularity_weight" koanf:"preference_popularity_weight"`

	// DerivedGenres is how many top genres are taken from a history without
	// positive ratings to build a preference vector.
	// Default: 5.
	DerivedGenres int `json:"derived_genres" koanf:"derived_genres"`

	// SimilarPool is how many popular movies are compared in Similar.
	// Default: 100.
	SimilarPool int `json:"similar_pool" koanf:"similar_pool"`
}

// ItemCFConfig contains parameters for item-based collaborative filtering.
type ItemCFConfig struct {
	// MaxRaters caps the raters considered per item, lowest user IDs first.
	// Zero disables the cap.
	// Default: 2000.
	MaxRaters int `json:"max_raters" koanf:"max_raters"`

	// MinSimilarity is the smallest item similarity that contributes.
	// Default: 0.1.
	MinSimilarity float64 `json:"min_similarity" koanf:"min_similarity"`
}

// UserCFConfig contains parameters for user-based collaborative filtering.
type UserCFConfig struct {
	// MaxNeighbors caps the candidate neighbors, lowest user IDs first.
	// Zero disables the cap.
	// Default: 1000.
	MaxNeighbors int `json:"max_neighbors" koanf:"max_neighbors"`

	// TopNeighbors is how many of the most similar users contribute.
	// Default: 50.
	TopNeighbors int `json:"top_neighbors" koanf:"top_neighbors"`
}

// HybridConfig contains blend parameters for hybrid mode.
type HybridConfig struct {
	// ContentWeight weights content scores.
	// Default: 0.6.
	ContentWeight float64 `json:"content_weight" koanf:"content_weight"`

	// CollaborativeWeight weights max-normalized collaborative scores.
	// Default: 0.4.
	CollaborativeWeight float64 `json:"collaborative_weight" koanf:"collaborative_weight"`

	// CollaborativeSource picks item, user or both (mean of the two).
	// Default: both.
	CollaborativeSource CollaborativeSource `json:"collaborative_source" koanf:"collaborative_source"`

	// CandidateMultiplier sets how many entries each source contributes,
	// as a multiple of the request limit.
	// Default: 2.
	CandidateMultiplier int `json:"candidate_multiplier" koanf:"candidate_multiplier"`
}

// FallbackConfig contains popularity back-fill parameters.
type FallbackConfig struct {
	// Pool is the minimum number of popular movies fetched for back-fill.
	// Default: 200.
	Pool int `json:"pool" koanf:"pool"`
}

// FeaturedConfig contains parameters for the global featured list.
type FeaturedConfig struct {
	// Weights weights popularity and engagement terms.
	Weights algorithms.FeaturedWeights `json:"weights" koanf:"weights"`

	// TTL is how long a featured list stays cached.
	// Default: 30m.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// RefreshLimit is the list size computed by background refresh.
	// Default: 20.
	RefreshLimit int `json:"refresh_limit" koanf:"refresh_limit"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is used when a request limit is zero.
	// Default: 10.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit clamps larger request limits.
	// Default: 100.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`

	// CollaboratorTimeout bounds each catalog or store call.
	// Default: 5s.
	CollaboratorTimeout time.Duration `json:"collaborator_timeout" koanf:"collaborator_timeout"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// TTL is the cache entry time-to-live for personalized responses.
	// Default: 10m.
	TTL time.Duration `json:"ttl" koanf:"ttl"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultMode:      ModeHybrid,
		Scale:            models.DefaultRatingScale(),
		PositiveFraction: 0.75,
		Content: ContentConfig{
			Pool:                       300,
			MinSimilarity:              0,
			PreferenceMinSimilarity:    0,
			PreferencePopularityWeight: 0.2,
			DerivedGenres:              5,
			SimilarPool:                100,
		},
		ItemCF: ItemCFConfig{
			MaxRaters:     2000,
			MinSimilarity: 0.1,
		},
		UserCF: UserCFConfig{
			MaxNeighbors: 1000,
			TopNeighbors: 50,
		},
		Hybrid: HybridConfig{
			ContentWeight:       0.6,
			CollaborativeWeight: 0.4,
			CollaborativeSource: CollaborativeBoth,
			CandidateMultiplier: 2,
		},
		Fallback: FallbackConfig{
			Pool: 200,
		},
		Featured: FeaturedConfig{
			Weights:      algorithms.DefaultFeaturedWeights(),
			TTL:          30 * time.Minute,
			RefreshLimit: 20,
		},
		Limits: LimitsConfig{
			DefaultLimit:        10,
			MaxLimit:            100,
			CollaboratorTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
		ExcludeViewed: true,
		Workers:       4,
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if !c.DefaultMode.Valid() {
		return fmt.Errorf("default_mode must be one of %v, got %q", Modes(), c.DefaultMode)
	}
	if err := c.Scale.Validate(); err != nil {
		return fmt.Errorf("scale: %w", err)
	}
	if c.PositiveFraction < 0 || c.PositiveFraction > 1 {
		return fmt.Errorf("positive_fraction must be in [0, 1], got %f", c.PositiveFraction)
	}

	if c.Content.Pool < 1 {
		return fmt.Errorf("content.pool must be positive, got %d", c.Content.Pool)
	}
	if c.Content.MinSimilarity < 0 || c.Content.MinSimilarity > 1 {
		return fmt.Errorf("content.min_similarity must be in [0, 1], got %f", c.Content.MinSimilarity)
	}
	if c.Content.PreferenceMinSimilarity < 0 || c.Content.PreferenceMinSimilarity > 1 {
		return fmt.Errorf("content.preference_min_similarity must be in [0, 1], got %f", c.Content.PreferenceMinSimilarity)
	}
	if c.Content.PreferencePopularityWeight < 0 || c.Content.PreferencePopularityWeight > 1 {
		return fmt.Errorf("content.preference_popularity_weight must be in [0, 1], got %f",
			c.Content.PreferencePopularityWeight)
	}
	if c.Content.DerivedGenres < 1 {
		return fmt.Errorf("content.derived_genres must be positive, got %d", c.Content.DerivedGenres)
	}
	if c.Content.SimilarPool < 1 {
		return fmt.Errorf("content.similar_pool must be positive, got %d", c.Content.SimilarPool)
	}

	if c.ItemCF.MaxRaters < 0 {
		return fmt.Errorf("item_cf.max_raters must be non-negative, got %d", c.ItemCF.MaxRaters)
	}
	if c.ItemCF.MinSimilarity < 0 || c.ItemCF.MinSimilarity > 1 {
		return fmt.Errorf("item_cf.min_similarity must be in [0, 1], got %f", c.ItemCF.MinSimilarity)
	}
	if c.UserCF.MaxNeighbors < 0 {
		return fmt.Errorf("user_cf.max_neighbors must be non-negative, got %d", c.UserCF.MaxNeighbors)
	}
	if c.UserCF.TopNeighbors < 1 {
		return fmt.Errorf("user_cf.top_neighbors must be positive, got %d", c.UserCF.TopNeighbors)
	}

	if c.Hybrid.ContentWeight < 0 || c.Hybrid.CollaborativeWeight < 0 {
		return fmt.Errorf("hybrid weights must be non-negative, got %f and %f",
			c.Hybrid.ContentWeight, c.Hybrid.CollaborativeWeight)
	}
	switch c.Hybrid.CollaborativeSource {
	case CollaborativeItem, CollaborativeUser, CollaborativeBoth:
	default:
		return fmt.Errorf("hybrid.collaborative_source must be item, user or both, got %q", c.Hybrid.CollaborativeSource)
	}
	if c.Hybrid.CandidateMultiplier < 1 {
		return fmt.Errorf("hybrid.candidate_multiplier must be positive, got %d", c.Hybrid.CandidateMultiplier)
	}

	if c.Fallback.Pool < 1 {
		return fmt.Errorf("fallback.pool must be positive, got %d", c.Fallback.Pool)
	}
	if c.Featured.TTL < 0 {
		return fmt.Errorf("featured.ttl must be non-negative, got %v", c.Featured.TTL)
	}
	if c.Featured.RefreshLimit < 1 {
		return fmt.Errorf("featured.refresh_limit must be positive, got %d", c.Featured.RefreshLimit)
	}

	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d",
			c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.CollaboratorTimeout <= 0 {
		return fmt.Errorf("limits.collaborator_timeout must be positive, got %v", c.Limits.CollaboratorTimeout)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be non-negative, got %v", c.Cache.TTL)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}

// PositiveThreshold returns the smallest rating counted as positive.
func (c *Config) PositiveThreshold() int {
	return c.Scale.PositiveThreshold(c.PositiveFraction)
}

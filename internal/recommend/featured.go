// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/cache"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend/algorithms"
)

// ModeFeatured is the metadata mode of featured responses.
const ModeFeatured = "featured"

// ErrFeaturedUnavailable is returned by RefreshFeatured when the catalog
// yields no popular movies.
var ErrFeaturedUnavailable = errors.New("featured ranking unavailable")

type featuredKey struct {
	Limit int `json:"limit"`
}

// Featured returns the global featured ranking: popular movies re-ranked by
// engagement. It is not personalized.
func (e *Engine) Featured(ctx context.Context, limit int) (*Response, error) {
	start := time.Now()
	limit, err := e.resolveLimit(limit)
	if err != nil {
		return nil, err
	}

	requestID := logging.GenerateRequestID()
	logger := e.logger.With().Str("request_id", requestID).Str("mode", ModeFeatured).Logger()

	key := cache.GenerateKey(featuredKeyPrefix, featuredKey{Limit: limit})
	if resp := e.checkCache(ctx, key, logger); resp != nil {
		resp.Metadata.RequestID = requestID
		resp.Metadata.CacheHit = true
		resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
		return resp, nil
	}

	resp, err := e.computeFeatured(ctx, limit, requestID, start, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("featured ranking unavailable, returning empty list")
		return resp, nil
	}
	if !resp.Metadata.Degraded {
		e.cacheResponse(ctx, key, resp, e.config.Featured.TTL, logger)
	}
	return resp, nil
}

// RefreshFeatured recomputes the featured ranking at Featured.RefreshLimit
// and overwrites the cached entry.
func (e *Engine) RefreshFeatured(ctx context.Context) error {
	start := time.Now()
	limit := e.config.Featured.RefreshLimit
	requestID := logging.GenerateRequestID()
	logger := e.logger.With().Str("request_id", requestID).Str("mode", ModeFeatured).Logger()

	resp, err := e.computeFeatured(ctx, limit, requestID, start, logger)
	if err != nil {
		return err
	}
	if resp.Metadata.Degraded {
		logger.Warn().Msg("featured ranking degraded, keeping previous cached entry")
		return nil
	}
	e.cacheResponse(ctx, cache.GenerateKey(featuredKeyPrefix, featuredKey{Limit: limit}), resp, e.config.Featured.TTL, logger)
	logger.Debug().Int("items", len(resp.Items)).Msg("featured ranking refreshed")
	return nil
}

// computeFeatured ranks Fallback.Pool popular movies by FeaturedScore. When
// the store offers no engagement counts, popularity alone decides.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) computeFeatured(ctx context.Context, limit int, requestID string, start time.Time, logger zerolog.Logger) (*Response, error) {
	req := Request{RequestID: requestID, Mode: ModeFeatured, Limit: limit}
	ctx, degraded := withDegradation(ctx)

	pool := e.popular(ctx, e.config.Fallback.Pool, logger)
	if len(pool) == 0 {
		return e.buildResponse(req, nil, nil, "", start), ErrFeaturedUnavailable
	}

	engagement := e.engagement(ctx, pool, logger)

	scores := make(map[int]float64, len(pool))
	byID := make(map[int]models.MovieRecord, len(pool))
	for i := range pool {
		m := pool[i]
		byID[m.ID] = m
		scores[m.ID] = algorithms.FeaturedScore(m.Popularity, engagement[m.ID], e.config.Scale, e.config.Featured.Weights)
	}

	ranked := algorithms.RankScores(scores, limit)
	items := make([]ScoredMovie, 0, len(ranked))
	for _, s := range ranked {
		items = append(items, ScoredMovie{Movie: byID[s.ID], Score: s.Score, Source: SourceFeatured})
	}

	used := []string{"popularity"}
	if len(engagement) > 0 {
		used = append(used, "engagement")
	}
	resp := e.buildResponse(req, items, used, "", start)
	resp.Metadata.Degraded = degraded.Load()
	return resp, nil
}

// engagement reads counts for the pool when the store supports it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) engagement(ctx context.Context, pool []models.MovieRecord, logger zerolog.Logger) map[int]models.Engagement {
	src, ok := e.store.(EngagementSource)
	if !ok {
		return nil
	}

	ids := make([]int, len(pool))
	for i := range pool {
		ids[i] = pool[i].ID
	}

	callCtx, cancel := e.withTimeout(ctx)
	defer cancel()
	counts, err := src.GetEngagement(callCtx, ids)
	if err != nil {
		collaboratorFailed(ctx, logger, collaboratorStore, "get_engagement", err)
		return nil
	}
	return counts
}

// resolveLimit validates a non-personalized limit and applies defaults.
func (e *Engine) resolveLimit(limit int) (int, error) {
	if limit < 0 {
		return 0, fmt.Errorf("%w: limit must be non-negative, got %d", ErrInvalidRequest, limit)
	}
	if limit == 0 {
		limit = e.config.Limits.DefaultLimit
	}
	if limit > e.config.Limits.MaxLimit {
		limit = e.config.Limits.MaxLimit
	}
	return limit, nil
}

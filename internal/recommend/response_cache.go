// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/cache"
	"github.com/tomtom215/cinerec/internal/metrics"
)

// Cache key prefixes. Personalized keys share recommend:u<id> so a user's
// entries can be dropped together.
const (
	recommendKeyPrefix = "recommend"
	featuredKeyPrefix  = "featured"
	similarKeyPrefix   = "similar"
)

// requestKey holds the request fields that determine the response.
type requestKey struct {
	Mode            Mode     `json:"mode"`
	Limit           int      `json:"limit"`
	PreferredGenres []string `json:"preferred_genres,omitempty"`
	MinSimilarity   *float64 `json:"min_similarity,omitempty"`
}

// userKeyPrefix returns the prefix shared by every cached response for userID.
func userKeyPrefix(userID int) string {
	return fmt.Sprintf("%s:u%d", recommendKeyPrefix, userID)
}

// cacheKey generates the cache key for a prepared request.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) cacheKey(req Request) string {
	return cache.GenerateKey(userKeyPrefix(req.UserID), requestKey{
		Mode:            req.Mode,
		Limit:           req.Limit,
		PreferredGenres: req.PreferredGenres,
		MinSimilarity:   req.MinSimilarity,
	})
}

// tryGetCachedResponse attempts to retrieve a cached response. The returned
// copy carries this request's ID and latency.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryGetCachedResponse(ctx context.Context, key string, req Request, start time.Time, logger zerolog.Logger) *Response {
	resp := e.checkCache(ctx, key, logger)
	if resp == nil {
		return nil
	}

	resp.Metadata.RequestID = req.RequestID
	resp.Metadata.CacheHit = true
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	logger.Debug().Msg("cache hit")
	return resp
}

// checkCache reads and decodes a cached response. Undecodable entries are
// treated as misses.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) checkCache(ctx context.Context, key string, logger zerolog.Logger) *Response {
	if e.cache == nil {
		return nil
	}

	data, ok := e.cache.Get(ctx, key)
	if !ok {
		metrics.RecordCacheLookup(false)
		return nil
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		metrics.RecordCacheLookup(false)
		logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return nil
	}
	metrics.RecordCacheLookup(true)
	return &resp
}

// cacheResponse stores the response if a cache is installed. Failures are
// logged and otherwise ignored.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) cacheResponse(ctx context.Context, key string, resp *Response, ttl time.Duration, logger zerolog.Logger) {
	if e.cache == nil {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to encode response for cache")
		return
	}
	if err := e.cache.Set(ctx, key, data, ttl); err != nil {
		collaboratorFailed(ctx, logger, collaboratorCache, "set", err)
	}
}

// InvalidateUser drops every cached response for userID. It is a no-op when
// the cache cannot delete by prefix.
func (e *Engine) InvalidateUser(ctx context.Context, userID int) error {
	inv, ok := e.cache.(cache.Invalidator)
	if !ok {
		return nil
	}
	if err := inv.DeletePrefix(ctx, userKeyPrefix(userID)+":"); err != nil {
		return fmt.Errorf("invalidate user %d: %w", userID, err)
	}
	e.logger.Debug().Int("user_id", userID).Msg("invalidated cached recommendations")
	return nil
}

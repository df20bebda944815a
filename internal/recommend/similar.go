// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/cinerec/internal/cache"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend/algorithms"
)

// ModeSimilar is the metadata mode of similar-movie responses.
const ModeSimilar = "similar"

type similarKey struct {
	MovieID int `json:"movie_id"`
	Limit   int `json:"limit"`
}

// Similar ranks popular movies by genre cosine against one movie. The movie
// itself is excluded. An unknown movie returns an error wrapping
// models.ErrMovieNotFound.
func (e *Engine) Similar(ctx context.Context, movieID, limit int) (*Response, error) {
	start := time.Now()
	if movieID <= 0 {
		return nil, fmt.Errorf("%w: movie id must be positive, got %d", ErrInvalidRequest, movieID)
	}
	limit, err := e.resolveLimit(limit)
	if err != nil {
		return nil, err
	}

	requestID := logging.GenerateRequestID()
	logger := e.logger.With().
		Str("request_id", requestID).
		Str("mode", ModeSimilar).
		Int("movie_id", movieID).
		Logger()
	req := Request{RequestID: requestID, Mode: ModeSimilar, Limit: limit}

	key := cache.GenerateKey(similarKeyPrefix, similarKey{MovieID: movieID, Limit: limit})
	if resp := e.checkCache(ctx, key, logger); resp != nil {
		resp.Metadata.RequestID = requestID
		resp.Metadata.CacheHit = true
		resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
		return resp, nil
	}

	ctx, degraded := withDegradation(ctx)
	callCtx, cancel := e.withTimeout(ctx)
	target, err := e.catalog.GetMovie(callCtx, movieID)
	cancel()
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("similar to %d: %w", movieID, err)
		}
		collaboratorFailed(ctx, logger, collaboratorCatalog, "get_movie", err)
		resp := e.buildResponse(req, nil, nil, "", start)
		resp.Metadata.Degraded = true
		return resp, nil
	}

	universe := e.genreUniverse(ctx, logger)
	pool := e.popular(ctx, e.config.Content.SimilarPool, logger)
	if len(universe) == 0 || len(pool) == 0 {
		resp := e.buildResponse(req, nil, nil, "", start)
		resp.Metadata.Degraded = degraded.Load()
		return resp, nil
	}

	space := algorithms.NewGenreSpace(universe)
	candidates := make([]models.MovieRecord, 0, len(pool))
	byID := make(map[int]models.MovieRecord, len(pool))
	for i := range pool {
		if pool[i].ID == movieID {
			continue
		}
		candidates = append(candidates, pool[i])
		byID[pool[i].ID] = pool[i]
	}

	scores, err := algorithms.ScoreAgainstSeeds(space.Vectorize([]models.MovieRecord{*target}), space.Vectorize(candidates))
	if err != nil {
		return nil, err
	}
	ranked := algorithms.RankContent(scores, e.config.Content.MinSimilarity, limit)

	items := make([]ScoredMovie, 0, len(ranked))
	for _, s := range ranked {
		items = append(items, ScoredMovie{Movie: byID[s.ID], Score: s.Score, Source: SourceSimilar})
	}

	resp := e.buildResponse(req, items, []string{algorithmContent}, "", start)
	resp.Metadata.Degraded = degraded.Load()
	if !resp.Metadata.Degraded {
		e.cacheResponse(ctx, key, resp, e.config.Cache.TTL, logger)
	}
	return resp, nil
}

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/cache"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend/algorithms"
)

// CatalogProvider supplies movie metadata. Implemented by internal/catalog.
type CatalogProvider interface {
	// GetMovie returns one movie, or an error wrapping models.ErrMovieNotFound.
	GetMovie(ctx context.Context, id int) (*models.MovieRecord, error)

	// GetPopular returns up to limit movies by descending popularity.
	GetPopular(ctx context.Context, limit int) ([]models.MovieRecord, error)

	// GetGenreUniverse returns the ordered genre labels.
	GetGenreUniverse(ctx context.Context) ([]string, error)
}

// InteractionStore supplies user history. Implemented by internal/store.
type InteractionStore interface {
	GetRatings(ctx context.Context, userID int) (map[int]int, error)
	GetAllRatings(ctx context.Context) ([]models.Rating, error)
	GetWatchlist(ctx context.Context, userID int) ([]models.WatchlistEntry, error)
	GetViews(ctx context.Context, userID int) ([]models.ViewRecord, error)
}

// EngagementSource is optionally implemented by an InteractionStore to feed
// the featured ranking.
type EngagementSource interface {
	GetEngagement(ctx context.Context, movieIDs []int) (map[int]models.Engagement, error)
}

// Collaborator names used in logs and metrics.
const (
	collaboratorCatalog = "catalog"
	collaboratorStore   = "store"
	collaboratorCache   = "cache"
)

// Engine orchestrates content and collaborative scoring with a popularity
// fallback. It is safe for concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	catalog CatalogProvider
	store   InteractionStore
	cache   cache.Cache

	itemCF *algorithms.ItemBasedCF
	userCF *algorithms.UserBasedCF
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, catalog CatalogProvider, store InteractionStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil {
		return nil, errors.New("catalog provider is required")
	}
	if store == nil {
		return nil, errors.New("interaction store is required")
	}

	return &Engine{
		config:  cfg.Clone(),
		logger:  logger.With().Str("component", "recommend").Logger(),
		catalog: catalog,
		store:   store,
		itemCF: algorithms.NewItemBasedCF(algorithms.ItemCFConfig{
			SeedThreshold: cfg.PositiveThreshold(),
			MaxRaters:     cfg.ItemCF.MaxRaters,
			MinSimilarity: cfg.ItemCF.MinSimilarity,
			NumWorkers:    cfg.Workers,
		}),
		userCF: algorithms.NewUserBasedCF(algorithms.UserCFConfig{
			MaxNeighbors: cfg.UserCF.MaxNeighbors,
			TopNeighbors: cfg.UserCF.TopNeighbors,
			NumWorkers:   cfg.Workers,
		}),
	}, nil
}

// SetCache installs the response cache. A nil cache disables caching.
// Call before serving requests.
func (e *Engine) SetCache(c cache.Cache) {
	e.cache = c
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Recommend generates recommendations for a user.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	req, err := e.prepareRequest(req)
	if err != nil {
		metrics.RecordRecommendRequest(string(req.Mode), metrics.OutcomeInvalid, time.Since(start))
		return nil, err
	}
	ctx = logging.ContextWithRequestID(ctx, req.RequestID)
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	key := e.cacheKey(req)
	if resp := e.tryGetCachedResponse(ctx, key, req, start, logger); resp != nil {
		metrics.RecordRecommendRequest(string(req.Mode), metrics.OutcomeCached, time.Since(start))
		return resp, nil
	}

	ctx, degraded := withDegradation(ctx)
	history, _ := e.loadHistory(ctx, req.UserID, logger)

	result, err := e.runMode(ctx, req, history, logger)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, ErrPrecondition) {
			outcome = metrics.OutcomeInvalid
		}
		metrics.RecordRecommendRequest(string(req.Mode), outcome, time.Since(start))
		return nil, fmt.Errorf("score %s: %w", req.Mode, err)
	}

	seen := history.Seen(e.config.ExcludeViewed)
	items := e.hydrate(ctx, result, seen, req.Limit, logger)
	computed := len(items)

	items, reason := e.applyFallback(ctx, items, seen, req.Limit, logger)

	used := result.algorithms
	if computed == 0 {
		used = nil
	}
	resp := e.buildResponse(req, items, used, reason, start)
	resp.Metadata.Degraded = degraded.Load()
	if resp.Metadata.Degraded {
		logger.Debug().Msg("collaborator failed during request, response not cached")
	} else {
		e.cacheResponse(ctx, key, resp, e.config.Cache.TTL, logger)
	}

	outcome := metrics.OutcomeSuccess
	if reason != "" {
		outcome = metrics.OutcomeFallback
		metrics.RecordFallback(string(req.Mode), reason)
	}
	metrics.RecordRecommendRequest(string(req.Mode), outcome, time.Since(start))

	logger.Debug().
		Int("computed", computed).
		Int("returned", len(items)).
		Str("fallback_reason", reason).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest validates the request, applies defaults and generates a
// request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) (Request, error) {
	if req.Mode == "" {
		req.Mode = e.config.DefaultMode
	}
	if !req.Mode.Valid() {
		return req, fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, req.Mode)
	}
	if req.UserID <= 0 {
		return req, fmt.Errorf("%w: user id must be positive, got %d", ErrInvalidRequest, req.UserID)
	}
	if req.Limit < 0 {
		return req, fmt.Errorf("%w: limit must be non-negative, got %d", ErrInvalidRequest, req.Limit)
	}
	if req.MinSimilarity != nil && (*req.MinSimilarity < 0 || *req.MinSimilarity > 1) {
		return req, fmt.Errorf("%w: min similarity must be in [0, 1], got %f", ErrInvalidRequest, *req.MinSimilarity)
	}

	if req.Limit == 0 {
		req.Limit = e.config.Limits.DefaultLimit
	}
	if req.Limit > e.config.Limits.MaxLimit {
		req.Limit = e.config.Limits.MaxLimit
	}

	req.PreferredGenres = normalizeGenres(req.PreferredGenres)

	if req.RequestID == "" {
		req.RequestID = logging.GenerateRequestID()
	}

	return req, nil
}

// normalizeGenres lowercases, trims, dedupes and sorts genre labels so that
// equivalent requests share a cache key.
func normalizeGenres(genres []string) []string {
	if len(genres) == 0 {
		return nil
	}
	set := make(map[string]bool, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g == "" || set[g] {
			continue
		}
		set[g] = true
		out = append(out, g)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Str("mode", req.Mode.String()).
		Logger()
}

// buildResponse constructs the final response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponse(req Request, items []ScoredMovie, algorithmsUsed []string, fallbackReason string, start time.Time) *Response {
	if items == nil {
		items = []ScoredMovie{}
	}
	if algorithmsUsed == nil {
		algorithmsUsed = []string{}
	}
	return &Response{
		Items: items,
		Metadata: ResponseMetadata{
			RequestID:      req.RequestID,
			UserID:         req.UserID,
			Mode:           req.Mode.String(),
			AlgorithmsUsed: algorithmsUsed,
			FallbackUsed:   fallbackReason != "",
			FallbackReason: fallbackReason,
			LatencyMS:      time.Since(start).Milliseconds(),
			Timestamp:      time.Now(),
		},
	}
}

// withTimeout bounds a single collaborator call.
func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.config.Limits.CollaboratorTimeout)
}

// collaboratorFailed logs and counts a collaborator error and marks the
// request degraded. The failing read contributes nothing to the result.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func collaboratorFailed(ctx context.Context, logger zerolog.Logger, collaborator, operation string, err error) {
	markDegraded(ctx)
	metrics.RecordCollaboratorError(collaborator, operation)
	logger.Warn().
		Err(err).
		Str("collaborator", collaborator).
		Str("operation", operation).
		Msg("collaborator call failed, continuing without it")
}

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend/algorithms"
)

// loadHistory reads ratings, watchlist and views concurrently. A failed read
// leaves its part of the history empty; complete is false when any read failed.
// When only the per-user ratings read fails, the user's row is taken from
// all ratings so rated movies are still excluded and still seed scoring.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) loadHistory(ctx context.Context, userID int, logger zerolog.Logger) (history *models.UserHistory, complete bool) {
	history = &models.UserHistory{UserID: userID, Ratings: map[int]int{}}
	var failed, ratingsFailed atomic.Bool

	var g errgroup.Group
	g.Go(func() error {
		callCtx, cancel := e.withTimeout(ctx)
		defer cancel()
		ratings, err := e.store.GetRatings(callCtx, userID)
		if err != nil {
			failed.Store(true)
			ratingsFailed.Store(true)
			collaboratorFailed(ctx, logger, collaboratorStore, "get_ratings", err)
			return nil
		}
		if ratings != nil {
			history.Ratings = ratings
		}
		return nil
	})
	g.Go(func() error {
		callCtx, cancel := e.withTimeout(ctx)
		defer cancel()
		watchlist, err := e.store.GetWatchlist(callCtx, userID)
		if err != nil {
			failed.Store(true)
			collaboratorFailed(ctx, logger, collaboratorStore, "get_watchlist", err)
			return nil
		}
		history.Watchlist = watchlist
		return nil
	})
	g.Go(func() error {
		callCtx, cancel := e.withTimeout(ctx)
		defer cancel()
		views, err := e.store.GetViews(callCtx, userID)
		if err != nil {
			failed.Store(true)
			collaboratorFailed(ctx, logger, collaboratorStore, "get_views", err)
			return nil
		}
		history.Views = views
		return nil
	})
	_ = g.Wait() //nolint:errcheck // every read absorbs its own error

	if ratingsFailed.Load() {
		history.Ratings = e.ratingsFromAll(ctx, userID, logger)
	}
	return history, !failed.Load()
}

// ratingsFromAll extracts one user's ratings from the full rating set. A
// failed read yields an empty map.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) ratingsFromAll(ctx context.Context, userID int, logger zerolog.Logger) map[int]int {
	callCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	all, err := e.store.GetAllRatings(callCtx)
	if err != nil {
		collaboratorFailed(ctx, logger, collaboratorStore, "get_all_ratings", err)
		return map[int]int{}
	}
	ratings := make(map[int]int)
	for _, r := range all {
		if r.UserID == userID {
			ratings[r.MovieID] = r.Value
		}
	}
	return ratings
}

// loadMatrix builds the rating matrix for collaborative filtering. The
// target's row comes from the per-user ratings read when it succeeded. A
// failed read of all ratings yields an empty matrix.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) loadMatrix(ctx context.Context, history *models.UserHistory, logger zerolog.Logger) *algorithms.RatingMatrix {
	callCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	all, err := e.store.GetAllRatings(callCtx)
	if err != nil {
		collaboratorFailed(ctx, logger, collaboratorStore, "get_all_ratings", err)
		return algorithms.NewRatingMatrix(nil)
	}
	matrix := algorithms.NewRatingMatrix(all)
	if len(history.Ratings) > 0 {
		matrix = matrix.WithUserRatings(history.UserID, history.Ratings)
	}
	return matrix
}

// IsNewUser reports whether the user has no ratings, watchlist entries or
// views. A store failure reports false so existing users are never sent to
// onboarding because of an outage.
func (e *Engine) IsNewUser(ctx context.Context, userID int) bool {
	if userID <= 0 {
		return false
	}
	logger := e.logger.With().Int("user_id", userID).Logger()
	history, complete := e.loadHistory(ctx, userID, logger)
	if !complete {
		return false
	}
	return !history.HasSignal()
}

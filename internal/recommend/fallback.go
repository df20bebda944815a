// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"

	"github.com/rs/zerolog"
)

// applyFallback appends popular movies, in provider order, until items holds
// limit entries. Back-filled entries score 0 and skip seen movies and movies
// already present. The returned reason is empty when nothing was appended.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) applyFallback(ctx context.Context, items []ScoredMovie, seen map[int]bool, limit int, logger zerolog.Logger) ([]ScoredMovie, string) {
	if len(items) >= limit {
		return items, ""
	}
	computed := len(items)

	// Fetch enough to survive dedup against the history.
	pool := e.config.Fallback.Pool
	if need := limit + len(seen) + computed; need > pool {
		pool = need
	}
	popular := e.popular(ctx, pool, logger)

	present := make(map[int]bool, len(items))
	for i := range items {
		present[items[i].Movie.ID] = true
	}
	for i := range popular {
		if len(items) >= limit {
			break
		}
		id := popular[i].ID
		if seen[id] || present[id] {
			continue
		}
		present[id] = true
		items = append(items, ScoredMovie{Movie: popular[i], Score: 0, Source: SourcePopularity})
	}

	if len(items) == computed {
		if computed == 0 {
			logger.Warn().Msg("popularity fallback is empty, returning no recommendations")
		}
		return items, ""
	}
	if computed == 0 {
		return items, FallbackNoSignal
	}
	return items, FallbackInsufficient
}

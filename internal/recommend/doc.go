// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package recommend turns a user's ratings, watchlist and views into a ranked
// list of movies.
//
// # Modes
//
//   - content_based: mean genre cosine against positively rated movies, or a
//     genre preference vector blended with popularity
//   - item_based: item-based collaborative filtering
//   - user_based: user-based collaborative filtering
//   - hybrid: 0.6*content + 0.4*collaborative, collaborative scores
//     max-normalized
//
// Every mode drops movies already in the user's history and is back-filled
// from catalog popularity, so a response is empty only when the catalog has
// nothing popular to offer.
//
// # Errors
//
// Bad requests return errors wrapping ErrPrecondition. A user without usable
// history and a failing catalog or store are not errors: they are logged,
// counted and resolved by the fallback.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), catalog, store, logger)
//	engine.SetCache(cache.NewMemory(10000, 10*time.Minute))
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    UserID: userID,
//	    Limit:  10,
//	    Mode:   recommend.ModeHybrid,
//	})
//
// # Determinism
//
// Equal scores are ordered by ascending movie ID and sums run in sorted key
// order, so identical inputs give identical responses and cached responses
// match computed ones.
//
// The engine is safe for concurrent use.
package recommend

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package cache provides the result cache used by the recommendation engine.

The engine depends only on the small Cache interface (Get, Set with a TTL).
Backends additionally implement Invalidator so that a user's cached
responses can be dropped when that user's interactions change.

# Backends

  - Memory: in-process LRU with per-entry TTL and a background sweep
  - Redis: shared cache via go-redis; errors degrade to misses
  - Badger: embedded persistent cache with native TTLs

Choose one with Config.Backend; BackendNone yields a nil Backend and the
engine then computes every request.

# Cache Keys

GenerateKey hashes the request parameters and keeps a readable prefix:

	key := cache.GenerateKey("recommend:u42", params)
	// recommend:u42:3f2a...

All of a user's keys share the "recommend:u<id>" prefix, so

	backend.DeletePrefix(ctx, "recommend:u42:")

invalidates them together.
*/
package cache

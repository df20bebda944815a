// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package store persists user interactions: ratings, watchlist entries and
// views.
//
// Two backends implement Store:
//   - MemoryStore: maps guarded by a mutex, for tests and demos
//   - DuckDBStore: DuckDB tables with ON CONFLICT upserts
//
// NotifyingStore decorates either backend and publishes an interaction
// event after each write so cached recommendations can be invalidated.
// Seed loads a YAML fixture of interactions.
//
// Ratings are validated against the configured RatingScale; an off-scale
// value is rejected with models.ErrInvalidRating.
package store

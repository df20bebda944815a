// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package catalog provides movie metadata to the recommendation engine.
//
// FileCatalog loads a YAML catalog once and serves it from memory.
// ResilientCatalog wraps any Provider with a circuit breaker and a rate
// limiter so that a failing metadata backend degrades recommendations to
// empty contributions instead of stalling requests.
//
// Catalog file format:
//
//	genres: [Action, Comedy, Drama]
//	movies:
//	  - id: 1
//	    title: Heat
//	    genres: [Action, Drama]
//	    popularity: 7.9
//	    release_date: 1995-12-15
package catalog

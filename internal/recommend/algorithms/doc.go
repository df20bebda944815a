// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package algorithms implements the scoring primitives of the recommendation
// engine.
//
// # Algorithms
//
//   - Genre vectors: GenreSpace one-hot encodes genre labels
//   - Content: Cosine, seed averaging and preference-vector scoring
//   - Item-based CF: ItemBasedCF over a RatingMatrix
//   - User-based CF: UserBasedCF over a RatingMatrix
//   - Popularity: BlendPopularity and FeaturedScore
//   - Hybrid: NormalizeByMax, MeanScores and Combine
//
// Every ranking is sorted by score descending with ties broken by ascending
// movie ID, and every floating-point sum runs in key order, so identical
// inputs give identical output.
//
// # Thread Safety
//
// Scorers hold only configuration and are safe for concurrent use. The CF
// scorers fan similarity computation out across NumWorkers goroutines.
package algorithms

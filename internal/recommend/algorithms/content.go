// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"fmt"
	"math"
)

// Cosine computes dot(a,b) / (|a| |b|). A zero-norm vector has no signal and
// yields 0. Vectors of different length are a precondition failure.
func Cosine(a, b GenreVector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// ScoreAgainstSeeds returns, for each candidate, the arithmetic mean of its
// cosine against every seed. Callers remove seeds from candidates first.
func ScoreAgainstSeeds(seeds, candidates []VectorizedMovie) (map[int]float64, error) {
	if len(seeds) == 0 {
		return nil, ErrEmptySeeds
	}

	scores := make(map[int]float64, len(candidates))
	for _, c := range candidates {
		var total float64
		for _, s := range seeds {
			sim, err := Cosine(s.Vector, c.Vector)
			if err != nil {
				return nil, fmt.Errorf("seed %d vs candidate %d: %w", s.ID, c.ID, err)
			}
			total += sim
		}
		scores[c.ID] = total / float64(len(seeds))
	}
	return scores, nil
}

// ScoreAgainstPreference scores each candidate by cosine against a single
// preference vector.
func ScoreAgainstPreference(pref GenreVector, candidates []VectorizedMovie) (map[int]float64, error) {
	scores := make(map[int]float64, len(candidates))
	for _, c := range candidates {
		sim, err := Cosine(pref, c.Vector)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", c.ID, err)
		}
		scores[c.ID] = sim
	}
	return scores, nil
}

// RankContent keeps scores >= minSimilarity, sorts them and truncates to limit.
func RankContent(scores map[int]float64, minSimilarity float64, limit int) []ScoredID {
	kept := make(map[int]float64, len(scores))
	for id, score := range scores {
		if score >= minSimilarity {
			kept[id] = score
		}
	}
	return RankScores(kept, limit)
}

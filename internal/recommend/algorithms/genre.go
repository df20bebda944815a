// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"sort"
	"strings"

	"github.com/tomtom215/cinerec/internal/models"
)

// GenreVector is a one-hot encoding of genre labels over a universe.
type GenreVector []float64

// VectorizedMovie pairs a movie ID with its genre vector.
type VectorizedMovie struct {
	ID     int
	Vector GenreVector
}

// normalizeGenre folds a label for comparison.
func normalizeGenre(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// BuildVector encodes genres over universe. Entry i is 1 iff universe[i] is
// one of genres; labels outside the universe are ignored.
func BuildVector(genres, universe []string) GenreVector {
	return NewGenreSpace(universe).Vector(genres)
}

// GenreSpace is a fixed genre ordering shared by every vector of one scoring
// batch. Vectors from different spaces are not comparable.
type GenreSpace struct {
	universe []string
	index    map[string]int
}

// NewGenreSpace creates a space over universe. Duplicate labels keep their
// first position.
func NewGenreSpace(universe []string) *GenreSpace {
	labels := make([]string, len(universe))
	copy(labels, universe)

	index := make(map[string]int, len(labels))
	for i, label := range labels {
		key := normalizeGenre(label)
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return &GenreSpace{universe: labels, index: index}
}

// Len returns the vector dimension.
func (s *GenreSpace) Len() int {
	return len(s.universe)
}

// Vector encodes one movie's genres.
func (s *GenreSpace) Vector(genres []string) GenreVector {
	v := make(GenreVector, len(s.universe))
	for _, g := range genres {
		if i, ok := s.index[normalizeGenre(g)]; ok {
			v[i] = 1
		}
	}
	return v
}

// PreferenceVector is the bitwise OR of the labels' one-hot vectors.
func (s *GenreSpace) PreferenceVector(labels []string) GenreVector {
	return s.Vector(labels)
}

// Vectorize encodes every movie in order.
//
//nolint:gocritic // rangeValCopy: MovieRecord passed by value in range, acceptable for clarity
func (s *GenreSpace) Vectorize(movies []models.MovieRecord) []VectorizedMovie {
	out := make([]VectorizedMovie, 0, len(movies))
	for _, m := range movies {
		out = append(out, VectorizedMovie{ID: m.ID, Vector: s.Vector(m.Genres)})
	}
	return out
}

// TopGenres returns up to n genre labels occurring most often across movies,
// using the universe's spelling. Ties keep universe order.
//
//nolint:gocritic // rangeValCopy: MovieRecord passed by value in range, acceptable for clarity
func (s *GenreSpace) TopGenres(movies []models.MovieRecord, n int) []string {
	counts := make([]int, len(s.universe))
	for _, m := range movies {
		seen := make(map[int]bool, len(m.Genres))
		for _, g := range m.Genres {
			if i, ok := s.index[normalizeGenre(g)]; ok && !seen[i] {
				seen[i] = true
				counts[i]++
			}
		}
	}

	positions := make([]int, 0, len(counts))
	for i, c := range counts {
		if c > 0 {
			positions = append(positions, i)
		}
	}
	sort.SliceStable(positions, func(a, b int) bool {
		return counts[positions[a]] > counts[positions[b]]
	})
	if n > 0 && len(positions) > n {
		positions = positions[:n]
	}

	labels := make([]string, len(positions))
	for i, p := range positions {
		labels[i] = s.universe[p]
	}
	return labels
}

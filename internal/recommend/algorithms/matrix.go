// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"sort"

	"github.com/tomtom215/cinerec/internal/models"
)

// RatingMatrix is a sparse user x movie rating matrix indexed both ways.
// It is built per invocation and never mutated afterwards.
type RatingMatrix struct {
	byUser map[int]map[int]float64 // user -> movie -> rating
	byItem map[int]map[int]float64 // movie -> user -> rating
}

// NewRatingMatrix indexes ratings. A later rating for the same pair replaces
// an earlier one.
//
//nolint:gocritic // rangeValCopy: Rating passed by value in range, acceptable for clarity
func NewRatingMatrix(ratings []models.Rating) *RatingMatrix {
	m := &RatingMatrix{
		byUser: make(map[int]map[int]float64),
		byItem: make(map[int]map[int]float64),
	}
	for _, r := range ratings {
		m.set(r.UserID, r.MovieID, float64(r.Value))
	}
	return m
}

func (m *RatingMatrix) set(userID, movieID int, value float64) {
	if m.byUser[userID] == nil {
		m.byUser[userID] = make(map[int]float64)
	}
	if m.byItem[movieID] == nil {
		m.byItem[movieID] = make(map[int]float64)
	}
	m.byUser[userID][movieID] = value
	m.byItem[movieID][userID] = value
}

// WithUserRatings returns a matrix whose row for userID is replaced by
// ratings. The receiver is not modified.
func (m *RatingMatrix) WithUserRatings(userID int, ratings map[int]int) *RatingMatrix {
	out := &RatingMatrix{
		byUser: make(map[int]map[int]float64, len(m.byUser)+1),
		byItem: make(map[int]map[int]float64, len(m.byItem)),
	}
	for uid, row := range m.byUser {
		if uid == userID {
			continue
		}
		for mid, v := range row {
			out.set(uid, mid, v)
		}
	}
	for mid, v := range ratings {
		out.set(userID, mid, float64(v))
	}
	return out
}

// UserRatings returns the user's row. The map must not be modified.
func (m *RatingMatrix) UserRatings(userID int) map[int]float64 {
	return m.byUser[userID]
}

// Raters returns the column for movieID. The map must not be modified.
func (m *RatingMatrix) Raters(movieID int) map[int]float64 {
	return m.byItem[movieID]
}

// NumUsers returns the number of users with at least one rating.
func (m *RatingMatrix) NumUsers() int {
	return len(m.byUser)
}

// NumItems returns the number of rated movies.
func (m *RatingMatrix) NumItems() int {
	return len(m.byItem)
}

// sortedMovieIDs returns the row keys ascending.
func sortedMovieIDs(row map[int]float64) []int {
	ids := make([]int, 0, len(row))
	for id := range row {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

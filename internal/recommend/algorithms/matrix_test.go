// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import "testing"

func TestNewRatingMatrix(t *testing.T) {
	m := NewRatingMatrix(ratings(
		[3]int{1, 10, 3},
		[3]int{1, 10, 5}, // last write wins
		[3]int{2, 10, 4},
		[3]int{2, 11, 1},
	))

	if m.NumUsers() != 2 || m.NumItems() != 2 {
		t.Errorf("dims = %dx%d, want 2x2", m.NumUsers(), m.NumItems())
	}
	if got := m.UserRatings(1)[10]; got != 5 {
		t.Errorf("rating(1, 10) = %v, want 5", got)
	}
	if got := m.Raters(10)[1]; got != 5 {
		t.Errorf("byItem(10)[1] = %v, want 5", got)
	}
	if len(m.Raters(10)) != 2 {
		t.Errorf("raters(10) = %v, want 2 users", m.Raters(10))
	}
	if m.UserRatings(99) != nil {
		t.Error("unknown user should have nil row")
	}
}

func TestRatingMatrix_WithUserRatings(t *testing.T) {
	m := NewRatingMatrix(ratings([3]int{1, 10, 3}, [3]int{2, 10, 4}))

	n := m.WithUserRatings(1, map[int]int{11: 5})

	if _, ok := n.UserRatings(1)[10]; ok {
		t.Error("replaced row should drop old ratings")
	}
	if n.UserRatings(1)[11] != 5 || n.Raters(11)[1] != 5 {
		t.Error("replaced row should index the new rating both ways")
	}
	if _, ok := n.Raters(10)[1]; ok {
		t.Error("byItem index should drop the old rating")
	}
	if m.UserRatings(1)[10] != 3 {
		t.Error("receiver must not be modified")
	}
}

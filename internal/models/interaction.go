// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package models

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Rating is one user's score for one movie. There is at most one rating per
// (UserID, MovieID); writes are last-write-wins.
type Rating struct {
	UserID    int       `json:"user_id" yaml:"user_id" validate:"gt=0"`
	MovieID   int       `json:"movie_id" yaml:"movie_id" validate:"gt=0"`
	Value     int       `json:"value" yaml:"value" validate:"gt=0"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// WatchlistEntry marks a movie bookmarked by a user.
type WatchlistEntry struct {
	UserID  int       `json:"user_id" yaml:"user_id" validate:"gt=0"`
	MovieID int       `json:"movie_id" yaml:"movie_id" validate:"gt=0"`
	AddedAt time.Time `json:"added_at" yaml:"added_at"`
}

// ViewRecord is the most recent view of a movie by a user. Re-viewing refreshes
// LastViewed rather than adding a record.
type ViewRecord struct {
	UserID     int       `json:"user_id" yaml:"user_id" validate:"gt=0"`
	MovieID    int       `json:"movie_id" yaml:"movie_id" validate:"gt=0"`
	LastViewed time.Time `json:"last_viewed" yaml:"last_viewed"`
}

// RatingScale is a closed integer interval of valid rating values.
type RatingScale struct {
	Min int `json:"min" koanf:"min"`
	Max int `json:"max" koanf:"max"`
}

// DefaultRatingScale returns the canonical 1-5 scale.
func DefaultRatingScale() RatingScale {
	return RatingScale{Min: 1, Max: 5}
}

// Validate checks that the scale is a usable interval.
func (s RatingScale) Validate() error {
	if s.Min < 1 {
		return fmt.Errorf("rating scale min must be at least 1, got %d", s.Min)
	}
	if s.Max <= s.Min {
		return fmt.Errorf("rating scale max (%d) must be greater than min (%d)", s.Max, s.Min)
	}
	return nil
}

// Contains reports whether v is a valid rating on this scale.
func (s RatingScale) Contains(v int) bool {
	return v >= s.Min && v <= s.Max
}

// Check returns ErrInvalidRating when v is outside the scale.
func (s RatingScale) Check(v int) error {
	if !s.Contains(v) {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidRating, v, s.Min, s.Max)
	}
	return nil
}

// PositiveThreshold returns the smallest rating counted as positive evidence.
// fraction is the position within the scale, so 0.75 yields 4 on 1-5 and 8 on 1-10.
func (s RatingScale) PositiveThreshold(fraction float64) int {
	if fraction <= 0 {
		return s.Min
	}
	if fraction >= 1 {
		return s.Max
	}
	// Round away float noise before ceiling (1 + 0.75*4 must stay 4).
	raw := float64(s.Min) + fraction*float64(s.Max-s.Min)
	return int(math.Ceil(math.Round(raw*1e9) / 1e9))
}

// UserHistory bundles the interaction reads for a single user.
type UserHistory struct {
	UserID    int
	Ratings   map[int]int
	Watchlist []WatchlistEntry
	Views     []ViewRecord
}

// HasSignal reports whether the user has any interaction at all.
func (h *UserHistory) HasSignal() bool {
	return len(h.Ratings) > 0 || len(h.Watchlist) > 0 || len(h.Views) > 0
}

// RatedSet returns the IDs of every movie the user rated.
func (h *UserHistory) RatedSet() map[int]bool {
	rated := make(map[int]bool, len(h.Ratings))
	for id := range h.Ratings {
		rated[id] = true
	}
	return rated
}

// Seen returns the movie IDs the user already knows about: rated, watchlisted,
// and (when includeViews) viewed.
func (h *UserHistory) Seen(includeViews bool) map[int]bool {
	seen := h.RatedSet()
	for _, w := range h.Watchlist {
		seen[w.MovieID] = true
	}
	if includeViews {
		for _, v := range h.Views {
			seen[v.MovieID] = true
		}
	}
	return seen
}

// MovieIDs returns every distinct movie ID in the history, rated first, then
// watchlist order, then views, without duplicates.
func (h *UserHistory) MovieIDs() []int {
	seen := make(map[int]bool)
	var ids []int
	add := func(id int) {
		if id > 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range sortedKeys(h.Ratings) {
		add(id)
	}
	for _, w := range h.Watchlist {
		add(w.MovieID)
	}
	for _, v := range h.Views {
		add(v.MovieID)
	}
	return ids
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

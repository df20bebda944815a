// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/cinerec/internal/models"
)

// MemoryStore keeps interactions in maps keyed by user then movie.
// It is safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	scale     models.RatingScale
	ratings   map[int]map[int]models.Rating
	watchlist map[int]map[int]models.WatchlistEntry
	views     map[int]map[int]models.ViewRecord
	now       func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store validating ratings against scale.
func NewMemoryStore(scale models.RatingScale) *MemoryStore {
	return &MemoryStore{
		scale:     scale,
		ratings:   make(map[int]map[int]models.Rating),
		watchlist: make(map[int]map[int]models.WatchlistEntry),
		views:     make(map[int]map[int]models.ViewRecord),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GetRatings returns the user's ratings keyed by movie ID.
func (s *MemoryStore) GetRatings(_ context.Context, userID int) (map[int]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int]int, len(s.ratings[userID]))
	for movieID, r := range s.ratings[userID] {
		out[movieID] = r.Value
	}
	return out, nil
}

// GetAllRatings returns every rating ordered by user then movie.
func (s *MemoryStore) GetAllRatings(_ context.Context) ([]models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Rating
	for _, byMovie := range s.ratings {
		for _, r := range byMovie {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].MovieID < out[j].MovieID
	})
	return out, nil
}

// GetWatchlist returns the user's watchlist ordered by movie ID.
func (s *MemoryStore) GetWatchlist(_ context.Context, userID int) ([]models.WatchlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.WatchlistEntry, 0, len(s.watchlist[userID]))
	for _, w := range s.watchlist[userID] {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovieID < out[j].MovieID })
	return out, nil
}

// GetViews returns the user's views ordered by movie ID.
func (s *MemoryStore) GetViews(_ context.Context, userID int) ([]models.ViewRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ViewRecord, 0, len(s.views[userID]))
	for _, v := range s.views[userID] {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovieID < out[j].MovieID })
	return out, nil
}

// UpsertRating inserts or replaces a rating.
func (s *MemoryStore) UpsertRating(_ context.Context, userID, movieID, value int) error {
	if err := checkIDs(userID, movieID); err != nil {
		return err
	}
	if err := s.scale.Check(value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ratings[userID] == nil {
		s.ratings[userID] = make(map[int]models.Rating)
	}
	s.ratings[userID][movieID] = models.Rating{
		UserID:    userID,
		MovieID:   movieID,
		Value:     value,
		UpdatedAt: s.now(),
	}
	return nil
}

// DeleteRating removes a rating.
func (s *MemoryStore) DeleteRating(_ context.Context, userID, movieID int) error {
	if err := checkIDs(userID, movieID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ratings[userID], movieID)
	return nil
}

// UpsertWatchlist adds a movie to the watchlist. Re-adding keeps the
// original AddedAt.
func (s *MemoryStore) UpsertWatchlist(_ context.Context, userID, movieID int) error {
	if err := checkIDs(userID, movieID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watchlist[userID] == nil {
		s.watchlist[userID] = make(map[int]models.WatchlistEntry)
	}
	if _, ok := s.watchlist[userID][movieID]; ok {
		return nil
	}
	s.watchlist[userID][movieID] = models.WatchlistEntry{UserID: userID, MovieID: movieID, AddedAt: s.now()}
	return nil
}

// DeleteWatchlist removes a movie from the watchlist.
func (s *MemoryStore) DeleteWatchlist(_ context.Context, userID, movieID int) error {
	if err := checkIDs(userID, movieID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchlist[userID], movieID)
	return nil
}

// RecordView records a view, refreshing LastViewed on re-views.
func (s *MemoryStore) RecordView(_ context.Context, userID, movieID int) error {
	if err := checkIDs(userID, movieID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.views[userID] == nil {
		s.views[userID] = make(map[int]models.ViewRecord)
	}
	s.views[userID][movieID] = models.ViewRecord{UserID: userID, MovieID: movieID, LastViewed: s.now()}
	return nil
}

// DeleteUser removes all interactions of a user.
func (s *MemoryStore) DeleteUser(_ context.Context, userID int) error {
	if err := checkUser(userID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ratings, userID)
	delete(s.watchlist, userID)
	delete(s.views, userID)
	return nil
}

// GetEngagement aggregates interaction counts for the given movies.
func (s *MemoryStore) GetEngagement(_ context.Context, movieIDs []int) (map[int]models.Engagement, error) {
	want := make(map[int]bool, len(movieIDs))
	for _, id := range movieIDs {
		want[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int]models.Engagement)
	for _, byMovie := range s.ratings {
		for movieID, r := range byMovie {
			if !want[movieID] {
				continue
			}
			e := out[movieID]
			e.Ratings++
			e.RatingSum += r.Value
			out[movieID] = e
		}
	}
	for _, byMovie := range s.watchlist {
		for movieID := range byMovie {
			if !want[movieID] {
				continue
			}
			e := out[movieID]
			e.Watchlisted++
			out[movieID] = e
		}
	}
	for _, byMovie := range s.views {
		for movieID := range byMovie {
			if !want[movieID] {
				continue
			}
			e := out[movieID]
			e.Views++
			out[movieID] = e
		}
	}
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

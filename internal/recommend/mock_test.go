// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/models"
)

// mockCatalog implements CatalogProvider for testing.
type mockCatalog struct {
	movies      map[int]models.MovieRecord
	universe    []string
	movieErr    error
	popularErr  error
	universeErr error

	getMovieCalls   atomic.Int32
	getPopularCalls atomic.Int32
}

func (m *mockCatalog) GetMovie(_ context.Context, id int) (*models.MovieRecord, error) {
	m.getMovieCalls.Add(1)
	if m.movieErr != nil {
		return nil, m.movieErr
	}
	movie, ok := m.movies[id]
	if !ok {
		return nil, fmt.Errorf("movie %d: %w", id, models.ErrMovieNotFound)
	}
	return &movie, nil
}

func (m *mockCatalog) GetPopular(_ context.Context, limit int) ([]models.MovieRecord, error) {
	m.getPopularCalls.Add(1)
	if m.popularErr != nil {
		return nil, m.popularErr
	}
	out := make([]models.MovieRecord, 0, len(m.movies))
	for _, movie := range m.movies {
		out = append(out, movie)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockCatalog) GetGenreUniverse(_ context.Context) ([]string, error) {
	if m.universeErr != nil {
		return nil, m.universeErr
	}
	return m.universe, nil
}

// mockStore implements InteractionStore for testing.
type mockStore struct {
	ratings   []models.Rating
	watchlist map[int][]models.WatchlistEntry
	views     map[int][]models.ViewRecord

	ratingsErr    error
	allRatingsErr error
	watchlistErr  error
	viewsErr      error

	getRatingsCalls atomic.Int32
}

func (m *mockStore) GetRatings(_ context.Context, userID int) (map[int]int, error) {
	m.getRatingsCalls.Add(1)
	if m.ratingsErr != nil {
		return nil, m.ratingsErr
	}
	out := make(map[int]int)
	for _, r := range m.ratings {
		if r.UserID == userID {
			out[r.MovieID] = r.Value
		}
	}
	return out, nil
}

func (m *mockStore) GetAllRatings(_ context.Context) ([]models.Rating, error) {
	if m.allRatingsErr != nil {
		return nil, m.allRatingsErr
	}
	return m.ratings, nil
}

func (m *mockStore) GetWatchlist(_ context.Context, userID int) ([]models.WatchlistEntry, error) {
	if m.watchlistErr != nil {
		return nil, m.watchlistErr
	}
	return m.watchlist[userID], nil
}

func (m *mockStore) GetViews(_ context.Context, userID int) ([]models.ViewRecord, error) {
	if m.viewsErr != nil {
		return nil, m.viewsErr
	}
	return m.views[userID], nil
}

// mockEngagementStore adds EngagementSource to mockStore.
type mockEngagementStore struct {
	*mockStore
	engagement    map[int]models.Engagement
	engagementErr error
}

func (m *mockEngagementStore) GetEngagement(_ context.Context, movieIDs []int) (map[int]models.Engagement, error) {
	if m.engagementErr != nil {
		return nil, m.engagementErr
	}
	out := make(map[int]models.Engagement, len(movieIDs))
	for _, id := range movieIDs {
		if e, ok := m.engagement[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

// testCatalog returns eight movies over five genres. Popularity order is
// 1, 2, ..., 8.
func testCatalog() *mockCatalog {
	movies := []models.MovieRecord{
		{ID: 1, Title: "Heat", Genres: []string{"Action", "Drama"}, Popularity: 9.0},
		{ID: 2, Title: "Airplane!", Genres: []string{"Comedy"}, Popularity: 8.5},
		{ID: 3, Title: "Alien", Genres: []string{"Horror", "Sci-Fi"}, Popularity: 8.0},
		{ID: 4, Title: "Aliens", Genres: []string{"Action", "Sci-Fi"}, Popularity: 7.5},
		{ID: 5, Title: "Se7en", Genres: []string{"Drama", "Horror"}, Popularity: 7.0},
		{ID: 6, Title: "Hot Fuzz", Genres: []string{"Action", "Comedy"}, Popularity: 6.5},
		{ID: 7, Title: "Arrival", Genres: []string{"Drama", "Sci-Fi"}, Popularity: 6.0},
		{ID: 8, Title: "Shaun of the Dead", Genres: []string{"Comedy", "Horror"}, Popularity: 5.5},
	}
	c := &mockCatalog{
		movies:   make(map[int]models.MovieRecord, len(movies)),
		universe: []string{"Action", "Comedy", "Drama", "Horror", "Sci-Fi"},
	}
	for _, m := range movies {
		c.movies[m.ID] = m
	}
	return c
}

// testStore returns ratings where user 1 loves movie 1 and users 2 and 3
// also rated movies 3 and 5.
func testStore() *mockStore {
	return &mockStore{
		ratings: []models.Rating{
			{UserID: 1, MovieID: 1, Value: 5},
			{UserID: 2, MovieID: 1, Value: 5},
			{UserID: 2, MovieID: 3, Value: 4},
			{UserID: 3, MovieID: 1, Value: 4},
			{UserID: 3, MovieID: 3, Value: 5},
			{UserID: 3, MovieID: 5, Value: 2},
		},
		watchlist: map[int][]models.WatchlistEntry{},
		views:     map[int][]models.ViewRecord{},
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestEngine(t *testing.T, catalog CatalogProvider, store InteractionStore, modify func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if modify != nil {
		modify(cfg)
	}
	engine, err := NewEngine(cfg, catalog, store, testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func ids(resp *Response) []int {
	return resp.MovieIDs()
}

func assertIDs(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func assertNonIncreasing(t *testing.T, items []ScoredMovie) {
	t.Helper()
	for i := 1; i < len(items); i++ {
		if items[i].Score > items[i-1].Score {
			t.Errorf("score at %d (%v) > score at %d (%v)", i, items[i].Score, i-1, items[i-1].Score)
		}
	}
}

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/validation"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "interactions.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestSeed(t *testing.T) {
	path := writeFixture(t, `
ratings:
  - {user_id: 1, movie_id: 1, value: 5}
  - {user_id: 2, movie_id: 1, value: 4}
watchlist:
  - {user_id: 1, movie_id: 3}
views:
  - {user_id: 1, movie_id: 2}
  - {user_id: 2, movie_id: 2}
`)
	s := NewMemoryStore(models.DefaultRatingScale())
	ctx := context.Background()

	stats, err := Seed(ctx, s, path)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if stats != (SeedStats{Ratings: 2, Watchlist: 1, Views: 2}) {
		t.Errorf("Seed() stats = %+v", stats)
	}

	all, _ := s.GetAllRatings(ctx)
	if len(all) != 2 {
		t.Errorf("GetAllRatings() = %d ratings, want 2", len(all))
	}
	watchlist, _ := s.GetWatchlist(ctx, 1)
	if len(watchlist) != 1 || watchlist[0].MovieID != 3 {
		t.Errorf("GetWatchlist(1) = %+v", watchlist)
	}
}

func TestSeed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"malformed", "ratings: [", nil},
		{"invalid record", "ratings:\n  - {user_id: 0, movie_id: 1, value: 3}\n", validation.ErrInvalidRecord},
		{"off scale", "ratings:\n  - {user_id: 1, movie_id: 1, value: 9}\n", models.ErrInvalidRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStore(models.DefaultRatingScale())
			_, err := Seed(context.Background(), s, writeFixture(t, tt.content))
			if err == nil {
				t.Fatal("Seed() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Seed() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("invalid record leaves store untouched", func(t *testing.T) {
		s := NewMemoryStore(models.DefaultRatingScale())
		_, _ = Seed(context.Background(), s, writeFixture(t, `
ratings:
  - {user_id: 1, movie_id: 1, value: 3}
views:
  - {user_id: 0, movie_id: 1}
`))
		all, _ := s.GetAllRatings(context.Background())
		if len(all) != 0 {
			t.Errorf("store has %d ratings after rejected fixture", len(all))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Seed(context.Background(), NewMemoryStore(models.DefaultRatingScale()), "/nonexistent/x.yaml"); err == nil {
			t.Error("Seed() expected error for missing file")
		}
	})
}

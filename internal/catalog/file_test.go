// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/validation"
)

const testCatalogYAML = `
genres: [Action, Comedy, Drama]
movies:
  - id: 3
    title: Superbad
    genres: [Comedy]
    popularity: 6.5
  - id: 1
    title: Heat
    genres: [Action, Drama]
    popularity: 7.9
    release_date: 1995-12-15
  - id: 2
    title: Airplane
    genres: [Comedy]
    popularity: 6.5
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	c, err := LoadFile(writeCatalog(t, testCatalogYAML))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	ctx := context.Background()

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	universe, err := c.GetGenreUniverse(ctx)
	if err != nil {
		t.Fatalf("GetGenreUniverse() error = %v", err)
	}
	if want := []string{"Action", "Comedy", "Drama"}; !reflect.DeepEqual(universe, want) {
		t.Errorf("GetGenreUniverse() = %v, want %v", universe, want)
	}

	movie, err := c.GetMovie(ctx, 1)
	if err != nil {
		t.Fatalf("GetMovie(1) error = %v", err)
	}
	if movie.Title != "Heat" {
		t.Errorf("GetMovie(1).Title = %q, want Heat", movie.Title)
	}
	if movie.ReleaseDate == nil || movie.ReleaseDate.Year() != 1995 {
		t.Errorf("GetMovie(1).ReleaseDate = %v, want 1995-12-15", movie.ReleaseDate)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "malformed yaml",
			content: "movies: [",
		},
		{
			name: "duplicate id",
			content: `
movies:
  - {id: 1, title: A, genres: [Drama], popularity: 1}
  - {id: 1, title: B, genres: [Drama], popularity: 2}
`,
			wantErr: ErrDuplicateMovie,
		},
		{
			name: "invalid record",
			content: `
movies:
  - {id: 0, title: "", genres: [Drama], popularity: 1}
`,
			wantErr: validation.ErrInvalidRecord,
		},
		{
			name: "blank genre in universe",
			content: `
genres: [Action, " "]
movies: []
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeCatalog(t, tt.content))
			if err == nil {
				t.Fatal("LoadFile() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatal("LoadFile() expected error for missing file")
		}
	})
}

func TestFileCatalog_GetMovieNotFound(t *testing.T) {
	c, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = c.GetMovie(context.Background(), 42)
	if !errors.Is(err, models.ErrMovieNotFound) {
		t.Errorf("GetMovie() error = %v, want ErrMovieNotFound", err)
	}
}

func TestFileCatalog_GetPopular(t *testing.T) {
	c, err := LoadFile(writeCatalog(t, testCatalogYAML))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	tests := []struct {
		name  string
		limit int
		want  []int
	}{
		{"ties broken by id", 3, []int{1, 2, 3}},
		{"truncated", 2, []int{1, 2}},
		{"zero returns all", 0, []int{1, 2, 3}},
		{"larger than catalog", 10, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movies, err := c.GetPopular(context.Background(), tt.limit)
			if err != nil {
				t.Fatalf("GetPopular() error = %v", err)
			}
			got := make([]int, len(movies))
			for i := range movies {
				got[i] = movies[i].ID
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GetPopular(%d) = %v, want %v", tt.limit, got, tt.want)
			}
		})
	}
}

func TestDeriveUniverse(t *testing.T) {
	movies := []models.MovieRecord{
		{ID: 1, Title: "A", Genres: []string{"drama", "Action"}},
		{ID: 2, Title: "B", Genres: []string{"ACTION", "Comedy"}},
	}
	c, err := New(nil, movies)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, _ := c.GetGenreUniverse(context.Background())
	want := []string{"Action", "Comedy", "drama"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("derived universe = %v, want %v", got, want)
	}
}

func TestFileCatalog_UniverseIsCopied(t *testing.T) {
	c, err := New([]string{"Action"}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	u, _ := c.GetGenreUniverse(context.Background())
	u[0] = "Mutated"
	again, _ := c.GetGenreUniverse(context.Background())
	if again[0] != "Action" {
		t.Errorf("universe mutated through returned slice: %v", again)
	}
}

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/validation"
)

// Provider is the read interface of a movie catalog.
type Provider interface {
	GetMovie(ctx context.Context, id int) (*models.MovieRecord, error)
	GetPopular(ctx context.Context, limit int) ([]models.MovieRecord, error)
	GetGenreUniverse(ctx context.Context) ([]string, error)
}

// ErrDuplicateMovie is returned when a catalog lists the same ID twice.
var ErrDuplicateMovie = errors.New("duplicate movie id")

// fileFormat is the on-disk YAML layout.
type fileFormat struct {
	Genres []string             `yaml:"genres"`
	Movies []models.MovieRecord `yaml:"movies"`
}

// FileCatalog is an immutable in-memory catalog.
type FileCatalog struct {
	movies   map[int]models.MovieRecord
	popular  []models.MovieRecord
	universe []string
}

var _ Provider = (*FileCatalog)(nil)

// LoadFile reads and validates a YAML catalog.
func LoadFile(path string) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	c, err := New(f.Genres, f.Movies)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// New builds a catalog from records. Every record is validated and IDs must
// be unique. An empty universe is derived from the movies' genres.
func New(universe []string, movies []models.MovieRecord) (*FileCatalog, error) {
	c := &FileCatalog{
		movies:  make(map[int]models.MovieRecord, len(movies)),
		popular: make([]models.MovieRecord, 0, len(movies)),
	}

	for i := range movies {
		m := movies[i]
		if err := validation.ValidateRecord(&m); err != nil {
			return nil, fmt.Errorf("movie at index %d: %w", i, err)
		}
		if _, dup := c.movies[m.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateMovie, m.ID)
		}
		c.movies[m.ID] = m
		c.popular = append(c.popular, m)
	}

	sort.Slice(c.popular, func(i, j int) bool {
		if c.popular[i].Popularity != c.popular[j].Popularity {
			return c.popular[i].Popularity > c.popular[j].Popularity
		}
		return c.popular[i].ID < c.popular[j].ID
	})

	if len(universe) > 0 {
		for i, g := range universe {
			if strings.TrimSpace(g) == "" {
				return nil, fmt.Errorf("genre at index %d is blank", i)
			}
		}
		c.universe = append([]string(nil), universe...)
	} else {
		c.universe = deriveUniverse(movies)
	}

	return c, nil
}

// deriveUniverse returns the sorted union of movie genres, keeping the first
// spelling seen for each case-insensitive label.
func deriveUniverse(movies []models.MovieRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range movies {
		for _, g := range movies[i].Genres {
			key := strings.ToLower(strings.TrimSpace(g))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, strings.TrimSpace(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// GetMovie returns one movie or an error wrapping models.ErrMovieNotFound.
func (c *FileCatalog) GetMovie(_ context.Context, id int) (*models.MovieRecord, error) {
	m, ok := c.movies[id]
	if !ok {
		return nil, fmt.Errorf("movie %d: %w", id, models.ErrMovieNotFound)
	}
	return &m, nil
}

// GetPopular returns up to limit movies by descending popularity, ties by
// ascending ID. A limit <= 0 returns every movie.
func (c *FileCatalog) GetPopular(_ context.Context, limit int) ([]models.MovieRecord, error) {
	n := len(c.popular)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.MovieRecord, n)
	copy(out, c.popular[:n])
	return out, nil
}

// GetGenreUniverse returns a copy of the ordered genre labels.
func (c *FileCatalog) GetGenreUniverse(_ context.Context) ([]string, error) {
	return append([]string(nil), c.universe...), nil
}

// Len returns the number of movies.
func (c *FileCatalog) Len() int {
	return len(c.movies)
}

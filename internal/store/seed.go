// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/validation"
)

// Fixture is the YAML layout of an interaction seed file.
type Fixture struct {
	Ratings   []models.Rating         `yaml:"ratings"`
	Watchlist []models.WatchlistEntry `yaml:"watchlist"`
	Views     []models.ViewRecord     `yaml:"views"`
}

// SeedStats counts the records written by Seed.
type SeedStats struct {
	Ratings   int
	Watchlist int
	Views     int
}

// Seed loads a YAML fixture into w. Every record is validated before any
// write, so a bad fixture leaves the store untouched.
func Seed(ctx context.Context, w Writer, path string) (SeedStats, error) {
	var stats SeedStats

	data, err := os.ReadFile(path)
	if err != nil {
		return stats, fmt.Errorf("read fixture %s: %w", path, err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return stats, fmt.Errorf("parse fixture %s: %w", path, err)
	}

	if err := f.validate(); err != nil {
		return stats, fmt.Errorf("fixture %s: %w", path, err)
	}

	for _, r := range f.Ratings {
		if err := w.UpsertRating(ctx, r.UserID, r.MovieID, r.Value); err != nil {
			return stats, fmt.Errorf("seed rating %d/%d: %w", r.UserID, r.MovieID, err)
		}
		stats.Ratings++
	}
	for _, e := range f.Watchlist {
		if err := w.UpsertWatchlist(ctx, e.UserID, e.MovieID); err != nil {
			return stats, fmt.Errorf("seed watchlist %d/%d: %w", e.UserID, e.MovieID, err)
		}
		stats.Watchlist++
	}
	for _, v := range f.Views {
		if err := w.RecordView(ctx, v.UserID, v.MovieID); err != nil {
			return stats, fmt.Errorf("seed view %d/%d: %w", v.UserID, v.MovieID, err)
		}
		stats.Views++
	}

	return stats, nil
}

func (f *Fixture) validate() error {
	for i := range f.Ratings {
		if err := validation.ValidateRecord(&f.Ratings[i]); err != nil {
			return fmt.Errorf("rating at index %d: %w", i, err)
		}
	}
	for i := range f.Watchlist {
		if err := validation.ValidateRecord(&f.Watchlist[i]); err != nil {
			return fmt.Errorf("watchlist entry at index %d: %w", i, err)
		}
	}
	for i := range f.Views {
		if err := validation.ValidateRecord(&f.Views[i]); err != nil {
			return fmt.Errorf("view at index %d: %w", i, err)
		}
	}
	return nil
}

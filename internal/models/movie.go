// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared across collaborators.
var (
	// ErrPrecondition marks caller bugs: the request itself is invalid and no
	// fallback applies. Every other precondition sentinel wraps it.
	ErrPrecondition = errors.New("precondition violation")

	// ErrMovieNotFound is returned by a catalog when a movie ID is unknown.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrInvalidRating is returned when a rating value is outside the scale.
	ErrInvalidRating = fmt.Errorf("%w: rating outside scale", ErrPrecondition)

	// ErrInvalidID is returned for non-positive user or movie IDs.
	ErrInvalidID = fmt.Errorf("%w: invalid id", ErrPrecondition)
)

// MaxPopularity is the upper bound of MovieRecord.Popularity.
const MaxPopularity = 10.0

// MovieRecord is a catalog entry. It is immutable for the duration of a scoring pass.
type MovieRecord struct {
	ID          int        `json:"id" yaml:"id" validate:"gt=0"`
	Title       string     `json:"title" yaml:"title" validate:"required"`
	Genres      []string   `json:"genres" yaml:"genres" validate:"dive,required"`
	Popularity  float64    `json:"popularity" yaml:"popularity" validate:"gte=0,lte=10"` // vote average, 0-10
	ReleaseDate *time.Time `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	PosterPath  string     `json:"poster_path,omitempty" yaml:"poster_path,omitempty"`
	Overview    string     `json:"overview,omitempty" yaml:"overview,omitempty"`
}

// Engagement aggregates interaction counts for one movie.
type Engagement struct {
	Views       int `json:"views"`
	Watchlisted int `json:"watchlisted"`
	Ratings     int `json:"ratings"`
	RatingSum   int `json:"rating_sum"`
}

// AverageRating returns the mean rating value, or 0 when unrated.
func (e Engagement) AverageRating() float64 {
	if e.Ratings == 0 {
		return 0
	}
	return float64(e.RatingSum) / float64(e.Ratings)
}

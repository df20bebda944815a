// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"errors"
	"fmt"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend/algorithms"
)

// Error taxonomy.
//
// Precondition violations are returned to the caller. No-signal results and
// collaborator failures are absorbed: they are logged, counted, and resolved
// by the popularity fallback.
var (
	// ErrPrecondition is wrapped by every caller-bug error.
	ErrPrecondition = models.ErrPrecondition

	// ErrInvalidRequest covers bad user IDs, negative limits and unknown modes.
	ErrInvalidRequest = fmt.Errorf("%w: invalid request", ErrPrecondition)

	// ErrDimensionMismatch is returned when genre vectors of different length meet.
	ErrDimensionMismatch = algorithms.ErrDimensionMismatch

	// ErrEmptySeeds is returned when seed scoring runs without seeds.
	ErrEmptySeeds = algorithms.ErrEmptySeeds
)

// isNotFound reports whether a catalog error means the movie does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, models.ErrMovieNotFound)
}

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package validation checks records loaded from catalog files and store
// fixtures against their go-playground/validator tags.
//
// Errors name fields by their yaml key so a bad fixture line is easy to find:
//
//	err := validation.ValidateRecord(&models.MovieRecord{})
//	// MovieRecord: id must be greater than 0; title is required
//	errors.Is(err, validation.ErrInvalidRecord) // true
//
// The underlying validator is built once and is safe for concurrent use.
package validation

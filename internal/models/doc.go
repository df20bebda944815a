// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package models defines the record types exchanged with the catalog and the
interaction store.

Every record crossing a collaborator boundary is an explicit struct with
validate tags; the validation package checks them on load and before writes.

Key Components:

  - MovieRecord: catalog entry (id, title, genre labels, popularity 0-10)
  - Rating, WatchlistEntry, ViewRecord: per-user interaction records
  - RatingScale: the bounded integer rating scale and the thresholds derived from it
  - UserHistory: the three interaction reads for one user, with dedup helpers
  - Engagement: per-movie interaction counts used by featured ranking

Rating Scale:

The canonical scale is 1-5 (DefaultRatingScale). Thresholds such as the
"positive" seed cutoff are computed from the scale, never hard-coded:

	scale := models.DefaultRatingScale()
	threshold := scale.PositiveThreshold(0.75) // 4 on 1-5, 8 on 1-10
*/
package models

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"github.com/tomtom215/cinerec/internal/models"
)

// BlendPopularity mixes a similarity with catalog popularity:
//
//	score = (1-w)*similarity + w*popularity/MaxPopularity
//
// w is clamped to [0, 1].
func BlendPopularity(similarity, popularity, w float64) float64 {
	if w <= 0 {
		return similarity
	}
	if w > 1 {
		w = 1
	}
	return (1-w)*similarity + w*popularity/models.MaxPopularity
}

// FeaturedWeights weights the terms of the global featured score.
type FeaturedWeights struct {
	Popularity  float64 `json:"popularity"`
	Views       float64 `json:"views"`
	Watchlisted float64 `json:"watchlisted"`
	RatingCount float64 `json:"rating_count"`
	AvgRating   float64 `json:"avg_rating"`
}

// DefaultFeaturedWeights returns the default featured weights.
func DefaultFeaturedWeights() FeaturedWeights {
	return FeaturedWeights{
		Popularity:  1.0,
		Views:       0.05,
		Watchlisted: 0.1,
		RatingCount: 0.1,
		AvgRating:   0.2,
	}
}

// FeaturedScore ranks a movie for the global featured list. The average
// rating is rescaled to a 10-point scale before weighting.
func FeaturedScore(popularity float64, e models.Engagement, scale models.RatingScale, w FeaturedWeights) float64 {
	avg10 := 0.0
	if scale.Max > 0 {
		avg10 = e.AverageRating() / float64(scale.Max) * 10
	}
	return popularity*w.Popularity +
		float64(e.Views)*w.Views +
		float64(e.Watchlisted)*w.Watchlisted +
		float64(e.Ratings)*w.RatingCount +
		avg10*w.AvgRating
}

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinerec/internal/models"
)

// Mode selects the scoring algorithm for a personalized request.
type Mode string

const (
	// ModeContentBased ranks by genre similarity to the user's history.
	ModeContentBased Mode = "content_based"
	// ModeItemBased ranks by item-based collaborative filtering.
	ModeItemBased Mode = "item_based"
	// ModeUserBased ranks by user-based collaborative filtering.
	ModeUserBased Mode = "user_based"
	// ModeHybrid blends content and collaborative scores.
	ModeHybrid Mode = "hybrid"
)

// Modes lists every valid mode.
func Modes() []Mode {
	return []Mode{ModeContentBased, ModeItemBased, ModeUserBased, ModeHybrid}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeContentBased, ModeItemBased, ModeUserBased, ModeHybrid:
		return true
	default:
		return false
	}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, s)
	}
	return m, nil
}

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}

// Source names the signal that produced a recommendation.
type Source string

const (
	SourceContent    Source = "content"
	SourcePreference Source = "preference"
	SourceItemCF     Source = "item_cf"
	SourceUserCF     Source = "user_cf"
	SourceHybrid     Source = "hybrid"
	SourcePopularity Source = "popularity"
	SourceFeatured   Source = "featured"
	SourceSimilar    Source = "similar"
)

// Fallback reasons recorded in ResponseMetadata.FallbackReason.
const (
	FallbackNoSignal     = "no_signal"
	FallbackInsufficient = "insufficient"
)

// CollaborativeSource selects which collaborative filters feed hybrid mode.
type CollaborativeSource string

const (
	CollaborativeItem CollaborativeSource = "item"
	CollaborativeUser CollaborativeSource = "user"
	CollaborativeBoth CollaborativeSource = "both"
)

// Request represents a recommendation request.
type Request struct {
	// UserID is the user to generate recommendations for. Must be positive.
	UserID int `json:"user_id"`

	// Limit is the number of recommendations to return.
	// Zero uses Config.Limits.DefaultLimit; values above MaxLimit are clamped.
	Limit int `json:"limit,omitempty"`

	// Mode specifies the algorithm. Empty uses Config.DefaultMode.
	Mode Mode `json:"mode,omitempty"`

	// PreferredGenres switches content scoring to a preference vector built
	// from these labels (onboarding and genre pickers).
	PreferredGenres []string `json:"preferred_genres,omitempty"`

	// MinSimilarity overrides the content threshold for this request.
	MinSimilarity *float64 `json:"min_similarity,omitempty"`

	// RequestID is a unique identifier for tracing. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// ScoredMovie is one ranked recommendation.
type ScoredMovie struct {
	Movie  models.MovieRecord `json:"movie"`
	Score  float64            `json:"score"`
	Source Source             `json:"source"`
}

// Response represents a recommendation response.
type Response struct {
	// Items is ordered by descending score. Popularity back-fill entries
	// score 0 and follow every computed entry.
	Items []ScoredMovie `json:"items"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID string `json:"request_id"`
	UserID    int    `json:"user_id,omitempty"`
	Mode      string `json:"mode"`

	// AlgorithmsUsed lists the algorithms that produced at least one entry.
	AlgorithmsUsed []string `json:"algorithms_used"`

	// FallbackUsed is true when popularity entries were appended.
	FallbackUsed bool `json:"fallback_used"`

	// FallbackReason is FallbackNoSignal or FallbackInsufficient.
	FallbackReason string `json:"fallback_reason,omitempty"`

	// Degraded is true when a collaborator read failed while building the
	// response. Degraded responses are never cached.
	Degraded bool `json:"degraded,omitempty"`

	CacheHit  bool      `json:"cache_hit"`
	LatencyMS int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// MovieIDs returns the IDs of the response items in order.
func (r *Response) MovieIDs() []int {
	ids := make([]int, len(r.Items))
	for i := range r.Items {
		ids[i] = r.Items[i].Movie.ID
	}
	return ids
}

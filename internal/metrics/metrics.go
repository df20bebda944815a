// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for RecommendRequests.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeCached   = "cached"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

var (
	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_recommend_requests_total",
			Help: "Total number of recommendation requests by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinerec_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	RecommendFallback = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_recommend_fallback_total",
			Help: "Total number of responses back-filled from the popularity fallback",
		},
		[]string{"mode", "reason"}, // "no_signal", "insufficient"
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinerec_recommend_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinerec_recommend_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// Collaborator Metrics
	CollaboratorErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_collaborator_errors_total",
			Help: "Total number of failed catalog or interaction store calls absorbed by the engine",
		},
		[]string{"collaborator", "operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinerec_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinerec_store_query_duration_seconds",
			Help:    "Duration of interaction store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_store_query_errors_total",
			Help: "Total number of interaction store query errors",
		},
		[]string{"operation", "table"},
	)

	// Event Metrics
	InteractionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_interaction_events_total",
			Help: "Total number of interaction events by type and result",
		},
		[]string{"type", "result"}, // result: "published", "publish_failed", "handled", "handle_failed"
	)

	FeaturedRefresh = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_featured_refresh_total",
			Help: "Total number of featured ranking refreshes",
		},
		[]string{"result"},
	)
)

// RecordRecommendRequest records one recommendation request.
func RecordRecommendRequest(mode, outcome string, duration time.Duration) {
	RecommendRequests.WithLabelValues(mode, outcome).Inc()
	RecommendDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordFallback records a popularity back-fill.
func RecordFallback(mode, reason string) {
	RecommendFallback.WithLabelValues(mode, reason).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		RecommendCacheHits.Inc()
	} else {
		RecommendCacheMisses.Inc()
	}
}

// RecordCollaboratorError records an absorbed collaborator failure.
func RecordCollaboratorError(collaborator, operation string) {
	CollaboratorErrors.WithLabelValues(collaborator, operation).Inc()
}

// SetCircuitBreakerState exports a breaker state as 0 (closed), 1 (half-open) or 2 (open).
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordStoreQuery records an interaction store query.
func RecordStoreQuery(operation, table string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordInteractionEvent records a published or handled interaction event.
func RecordInteractionEvent(eventType, result string) {
	InteractionEvents.WithLabelValues(eventType, result).Inc()
}

// RecordFeaturedRefresh records a featured refresh attempt.
func RecordFeaturedRefresh(err error) {
	if err != nil {
		FeaturedRefresh.WithLabelValues("error").Inc()
		return
	}
	FeaturedRefresh.WithLabelValues("success").Inc()
}

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package metrics defines the Prometheus metrics exported by Cinerec.

All metrics are registered on the default registry through promauto and are
served at /metrics by cmd/server. Callers use the Record* helpers rather than
the vectors directly:

	start := time.Now()
	resp, err := engine.Recommend(ctx, req)
	metrics.RecordRecommendRequest(string(req.Mode), metrics.OutcomeSuccess, time.Since(start))

# Metric Families

  - cinerec_recommend_*: request counts, latency, fallback and cache use
  - cinerec_collaborator_errors_total: catalog and store failures that the
    engine absorbed as zero contribution
  - cinerec_circuit_breaker_state: catalog breaker state
  - cinerec_store_*: interaction store query latency and errors
  - cinerec_interaction_events_total: published and handled events
  - cinerec_featured_refresh_total: background featured ranking refreshes
*/
package metrics

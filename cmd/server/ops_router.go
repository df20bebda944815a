// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is implemented by stores that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// healthChecks are the inputs of /healthz. Nil fields are skipped.
type healthChecks struct {
	// BreakerState reports the catalog circuit breaker state.
	BreakerState func() string

	// Store is pinged on every request.
	Store Pinger

	// Timeout bounds the store ping. Default: 2s
	Timeout time.Duration
}

// healthResponse is the /healthz body.
type healthResponse struct {
	Status         string `json:"status"`
	CatalogBreaker string `json:"catalog_breaker,omitempty"`
	Store          string `json:"store,omitempty"`
}

// newOpsRouter serves /metrics and /healthz.
func newOpsRouter(checks healthChecks) http.Handler {
	if checks.Timeout <= 0 {
		checks.Timeout = 2 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", checks.serve)

	return r
}

func (c healthChecks) serve(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	code := http.StatusOK

	if c.BreakerState != nil {
		resp.CatalogBreaker = c.BreakerState()
		if resp.CatalogBreaker == "open" {
			resp.Status = "degraded"
		}
	}

	if c.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), c.Timeout)
		defer cancel()
		if err := c.Store.Ping(ctx); err != nil {
			resp.Store = err.Error()
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
		} else {
			resp.Store = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp) //nolint:errcheck // client went away
}

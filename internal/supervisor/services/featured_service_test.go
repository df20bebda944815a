// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/metrics"
)

// mockRefresher counts refreshes and signals each one.
type mockRefresher struct {
	calls atomic.Int32
	err   error
	done  chan struct{}
}

func newMockRefresher(err error) *mockRefresher {
	return &mockRefresher{err: err, done: make(chan struct{}, 16)}
}

func (m *mockRefresher) RefreshFeatured(context.Context) error {
	m.calls.Add(1)
	select {
	case m.done <- struct{}{}:
	default:
	}
	return m.err
}

func (m *mockRefresher) wait(t *testing.T) {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not happen")
	}
}

func TestNewFeaturedService_Defaults(t *testing.T) {
	svc := NewFeaturedService(newMockRefresher(nil), FeaturedServiceConfig{}, zerolog.Nop())

	if svc.config.Interval != 15*time.Minute {
		t.Errorf("Interval = %v, want 15m", svc.config.Interval)
	}
	if svc.config.Timeout != time.Minute {
		t.Errorf("Timeout = %v, want 1m", svc.config.Timeout)
	}
	if svc.String() != "featured-service" {
		t.Errorf("String() = %q, want featured-service", svc.String())
	}
}

func TestFeaturedService_Serve(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantResult string
	}{
		{"success", nil, "success"},
		{"failure keeps looping", errors.New("catalog down"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refresher := newMockRefresher(tt.err)
			svc := NewFeaturedService(refresher, FeaturedServiceConfig{
				Interval:         20 * time.Millisecond,
				RefreshOnStartup: true,
			}, zerolog.Nop())

			counter := metrics.FeaturedRefresh.WithLabelValues(tt.wantResult)
			before := testutil.ToFloat64(counter)

			ctx, cancel := context.WithCancel(context.Background())
			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			refresher.wait(t) // startup
			refresher.wait(t) // first tick
			cancel()

			if err := <-errCh; !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
			if got := testutil.ToFloat64(counter) - before; got < 2 {
				t.Errorf("featured refresh %s delta = %v, want >= 2", tt.wantResult, got)
			}
		})
	}
}

func TestFeaturedService_NoStartupRefresh(t *testing.T) {
	refresher := newMockRefresher(nil)
	svc := NewFeaturedService(refresher, FeaturedServiceConfig{Interval: time.Hour}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if got := refresher.calls.Load(); got != 0 {
		t.Errorf("refresh calls = %d, want 0", got)
	}
}

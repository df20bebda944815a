// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package eventprocessor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/metrics"
)

type mockInvalidator struct {
	mu    sync.Mutex
	users []int
	err   error
	calls chan int
}

func newMockInvalidator() *mockInvalidator {
	return &mockInvalidator{calls: make(chan int, 16)}
}

func (m *mockInvalidator) InvalidateUser(_ context.Context, userID int) error {
	m.mu.Lock()
	m.users = append(m.users, userID)
	err := m.err
	m.mu.Unlock()
	m.calls <- userID
	return err
}

func eventMessage(t *testing.T, e *InteractionEvent) *message.Message {
	t.Helper()
	msg, err := EncodeMessage(e)
	if err != nil {
		t.Fatalf("EncodeMessage() error = %v", err)
	}
	return msg
}

func TestNewCacheInvalidationHandler_RequiresInvalidator(t *testing.T) {
	if _, err := NewCacheInvalidationHandler(nil, zerolog.Nop()); err == nil {
		t.Fatal("expected error for nil invalidator")
	}
}

func TestCacheInvalidationHandler_Handle(t *testing.T) {
	inv := newMockInvalidator()
	h, err := NewCacheInvalidationHandler(inv, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCacheInvalidationHandler() error = %v", err)
	}

	before := testutil.ToFloat64(metrics.InteractionEvents.WithLabelValues(string(EventWatchlistAdded), "handled"))

	if err := h.Handle(eventMessage(t, NewInteractionEvent(EventWatchlistAdded, 9, 3))); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := <-inv.calls; got != 9 {
		t.Errorf("invalidated user = %d, want 9", got)
	}

	after := testutil.ToFloat64(metrics.InteractionEvents.WithLabelValues(string(EventWatchlistAdded), "handled"))
	if after-before != 1 {
		t.Errorf("handled metric delta = %v, want 1", after-before)
	}
	if s := h.Stats(); s.Handled != 1 || s.Failed != 0 {
		t.Errorf("Stats() = %+v, want 1 handled", s)
	}
}

func TestCacheInvalidationHandler_Errors(t *testing.T) {
	t.Run("malformed payload is permanent", func(t *testing.T) {
		inv := newMockInvalidator()
		h, _ := NewCacheInvalidationHandler(inv, zerolog.Nop())
		err := h.Handle(message.NewMessage("bad", []byte("{")))
		if !IsPermanentError(err) {
			t.Errorf("Handle() error = %v, want PermanentError", err)
		}
		if len(inv.users) != 0 {
			t.Errorf("invalidator called %d times, want 0", len(inv.users))
		}
	})

	t.Run("invalidation failure is retryable", func(t *testing.T) {
		inv := newMockInvalidator()
		inv.err = errors.New("cache down")
		h, _ := NewCacheInvalidationHandler(inv, zerolog.Nop())
		err := h.Handle(eventMessage(t, NewInteractionEvent(EventRatingDeleted, 2, 1)))
		if err == nil || IsPermanentError(err) {
			t.Errorf("Handle() error = %v, want retryable error", err)
		}
		if s := h.Stats(); s.Failed != 1 {
			t.Errorf("Stats().Failed = %d, want 1", s.Failed)
		}
	})
}

func TestPublisher(t *testing.T) {
	t.Run("nil publisher", func(t *testing.T) {
		if _, err := NewPublisher(nil, "", zerolog.Nop()); !errors.Is(err, ErrNilPublisher) {
			t.Errorf("NewPublisher(nil) error = %v, want ErrNilPublisher", err)
		}
	})

	t.Run("closed publisher", func(t *testing.T) {
		bus := NewBus(DefaultConfig(), nil)
		defer bus.Close()
		p, err := NewPublisher(bus, "", zerolog.Nop())
		if err != nil {
			t.Fatalf("NewPublisher() error = %v", err)
		}
		_ = p.Close()
		err = p.PublishInteraction(context.Background(), NewInteractionEvent(EventViewRecorded, 1, 1))
		if !errors.Is(err, ErrPublisherClosed) {
			t.Errorf("PublishInteraction() error = %v, want ErrPublisherClosed", err)
		}
	})

	t.Run("invalid event", func(t *testing.T) {
		bus := NewBus(DefaultConfig(), nil)
		defer bus.Close()
		p, _ := NewPublisher(bus, "", zerolog.Nop())
		err := p.PublishInteraction(context.Background(), &InteractionEvent{EventID: "x", Type: EventViewRecorded})
		if !errors.Is(err, ErrInvalidEvent) {
			t.Errorf("PublishInteraction() error = %v, want ErrInvalidEvent", err)
		}
	})
}

func TestRouter_DeliversToHandler(t *testing.T) {
	cfg := DefaultConfig()
	logger := NewZerologAdapter(zerolog.Nop())
	bus := NewBus(cfg, logger)
	defer bus.Close()

	router, err := NewRouter(&cfg.Router, logger)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	inv := newMockInvalidator()
	h, _ := NewCacheInvalidationHandler(inv, zerolog.Nop())
	router.AddConsumerHandler("cache-invalidation", cfg.Topic, bus, h.Handle)
	if got := router.Handlers(); len(got) != 1 || got[0] != "cache-invalidation" {
		t.Errorf("Handlers() = %v, want [cache-invalidation]", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- router.Run(ctx) }()

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	pub, _ := NewPublisher(bus, cfg.Topic, zerolog.Nop())
	if err := pub.PublishInteraction(ctx, NewInteractionEvent(EventRatingUpserted, 11, 4)); err != nil {
		t.Fatalf("PublishInteraction() error = %v", err)
	}

	select {
	case got := <-inv.calls:
		if got != 11 {
			t.Errorf("invalidated user = %d, want 11", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler never received event")
	}

	if err := router.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	<-done
}

func TestDropPermanent(t *testing.T) {
	drop := dropPermanent(watermill.NopLogger{})
	dropped := metrics.InteractionEvents.WithLabelValues("rating_deleted", "dropped")
	before := testutil.ToFloat64(dropped)

	permanent := drop(func(*message.Message) ([]*message.Message, error) {
		return nil, NewPermanentError("bad", nil)
	})
	msg := message.NewMessage("1", nil)
	msg.Metadata.Set(MetadataType, "rating_deleted")
	if _, err := permanent(msg); err != nil {
		t.Errorf("permanent error not acked: %v", err)
	}
	if got := testutil.ToFloat64(dropped) - before; got != 1 {
		t.Errorf("dropped counter delta = %v, want 1", got)
	}

	transient := drop(func(*message.Message) ([]*message.Message, error) {
		return nil, errors.New("transient")
	})
	if _, err := transient(message.NewMessage("2", nil)); err == nil {
		t.Error("transient error swallowed")
	}
}

func TestMiddlewares_Chain(t *testing.T) {
	tests := []struct {
		name string
		cfg  RouterConfig
		want int
	}{
		{"recoverer and drop only", RouterConfig{}, 2},
		{"with retry", RouterConfig{RetryMaxRetries: 2, RetryMultiplier: 2}, 3},
		{"with retry and throttle", RouterConfig{RetryMaxRetries: 2, RetryMultiplier: 2, ThrottlePerSecond: 10}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(middlewares(&tt.cfg, watermill.NopLogger{})); got != tt.want {
				t.Errorf("len(middlewares) = %d, want %d", got, tt.want)
			}
		})
	}
}

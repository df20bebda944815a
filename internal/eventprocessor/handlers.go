// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/metrics"
)

// UserInvalidator drops cached results for one user. Implemented by
// recommend.Engine.
type UserInvalidator interface {
	InvalidateUser(ctx context.Context, userID int) error
}

// CacheInvalidationHandler invalidates a user's cached recommendations
// whenever their interaction history changes.
type CacheInvalidationHandler struct {
	invalidator UserInvalidator
	logger      zerolog.Logger

	handled atomic.Int64
	failed  atomic.Int64
}

// HandlerStats holds handler counters.
type HandlerStats struct {
	Handled int64
	Failed  int64
}

// NewCacheInvalidationHandler creates the handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheInvalidationHandler(invalidator UserInvalidator, logger zerolog.Logger) (*CacheInvalidationHandler, error) {
	if invalidator == nil {
		return nil, errors.New("invalidator is required")
	}
	return &CacheInvalidationHandler{
		invalidator: invalidator,
		logger:      logger.With().Str("component", "cache_invalidation").Logger(),
	}, nil
}

// Handle processes one interaction event message.
//
// Error handling:
//   - Parse errors return PermanentError (acked, never retried)
//   - Invalidation errors are returned and retried by the router
func (h *CacheInvalidationHandler) Handle(msg *message.Message) error {
	event, err := DecodeMessage(msg)
	if err != nil {
		h.failed.Add(1)
		metrics.RecordInteractionEvent("unknown", "handle_failed")
		return NewPermanentError("parse interaction event", err)
	}

	ctx := msg.Context()
	if err := h.invalidator.InvalidateUser(ctx, event.UserID); err != nil {
		h.failed.Add(1)
		metrics.RecordInteractionEvent(string(event.Type), "handle_failed")
		return fmt.Errorf("invalidate user %d: %w", event.UserID, err)
	}

	h.handled.Add(1)
	metrics.RecordInteractionEvent(string(event.Type), "handled")
	h.logger.Debug().
		Str("event_id", event.EventID).
		Str("type", string(event.Type)).
		Int("user_id", event.UserID).
		Msg("invalidated cached recommendations")
	return nil
}

// Stats returns handler counters.
func (h *CacheInvalidationHandler) Stats() HandlerStats {
	return HandlerStats{
		Handled: h.handled.Load(),
		Failed:  h.failed.Load(),
	}
}

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/eventprocessor"
	"github.com/tomtom215/cinerec/internal/logging"
)

// EventPublisher publishes interaction events.
type EventPublisher interface {
	PublishInteraction(ctx context.Context, event *eventprocessor.InteractionEvent) error
}

// NotifyingStore publishes an interaction event after every successful write.
// A publish failure is logged and does not fail the write.
type NotifyingStore struct {
	Store
	publisher EventPublisher
	logger    zerolog.Logger
}

// NewNotifyingStore wraps inner.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewNotifyingStore(inner Store, publisher EventPublisher, logger zerolog.Logger) *NotifyingStore {
	return &NotifyingStore{
		Store:     inner,
		publisher: publisher,
		logger:    logger.With().Str("component", "store").Logger(),
	}
}

// UpsertRating implements Writer.
func (s *NotifyingStore) UpsertRating(ctx context.Context, userID, movieID, value int) error {
	if err := s.Store.UpsertRating(ctx, userID, movieID, value); err != nil {
		return err
	}
	event := eventprocessor.NewInteractionEvent(eventprocessor.EventRatingUpserted, userID, movieID)
	event.Value = value
	s.publish(ctx, event)
	return nil
}

// DeleteRating implements Writer.
func (s *NotifyingStore) DeleteRating(ctx context.Context, userID, movieID int) error {
	if err := s.Store.DeleteRating(ctx, userID, movieID); err != nil {
		return err
	}
	s.publish(ctx, eventprocessor.NewInteractionEvent(eventprocessor.EventRatingDeleted, userID, movieID))
	return nil
}

// UpsertWatchlist implements Writer.
func (s *NotifyingStore) UpsertWatchlist(ctx context.Context, userID, movieID int) error {
	if err := s.Store.UpsertWatchlist(ctx, userID, movieID); err != nil {
		return err
	}
	s.publish(ctx, eventprocessor.NewInteractionEvent(eventprocessor.EventWatchlistAdded, userID, movieID))
	return nil
}

// DeleteWatchlist implements Writer.
func (s *NotifyingStore) DeleteWatchlist(ctx context.Context, userID, movieID int) error {
	if err := s.Store.DeleteWatchlist(ctx, userID, movieID); err != nil {
		return err
	}
	s.publish(ctx, eventprocessor.NewInteractionEvent(eventprocessor.EventWatchlistRemoved, userID, movieID))
	return nil
}

// RecordView implements Writer.
func (s *NotifyingStore) RecordView(ctx context.Context, userID, movieID int) error {
	if err := s.Store.RecordView(ctx, userID, movieID); err != nil {
		return err
	}
	s.publish(ctx, eventprocessor.NewInteractionEvent(eventprocessor.EventViewRecorded, userID, movieID))
	return nil
}

// DeleteUser implements Writer.
func (s *NotifyingStore) DeleteUser(ctx context.Context, userID int) error {
	if err := s.Store.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.publish(ctx, eventprocessor.NewInteractionEvent(eventprocessor.EventUserDeleted, userID, 0))
	return nil
}

func (s *NotifyingStore) publish(ctx context.Context, event *eventprocessor.InteractionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishInteraction(ctx, event); err != nil {
		s.logger.Warn().Err(err).
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Str("type", string(event.Type)).
			Int("user_id", event.UserID).
			Msg("interaction saved but event not published")
	}
}

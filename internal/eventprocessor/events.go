// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current event schema version.
const SchemaVersion = 1

// DefaultTopic is the topic interaction events are published on.
const DefaultTopic = "interactions"

// EventType names the interaction that changed.
type EventType string

// Interaction event types.
const (
	EventRatingUpserted   EventType = "rating_upserted"
	EventRatingDeleted    EventType = "rating_deleted"
	EventWatchlistAdded   EventType = "watchlist_added"
	EventWatchlistRemoved EventType = "watchlist_removed"
	EventViewRecorded     EventType = "view_recorded"
	EventUserDeleted      EventType = "user_deleted"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventRatingUpserted, EventRatingDeleted, EventWatchlistAdded,
		EventWatchlistRemoved, EventViewRecorded, EventUserDeleted:
		return true
	}
	return false
}

// InteractionEvent records one change to a user's interaction history.
// MovieID is 0 for user-wide events.
type InteractionEvent struct {
	SchemaVersion int       `json:"schema_version,omitempty"`
	EventID       string    `json:"event_id"`
	Type          EventType `json:"type"`
	UserID        int       `json:"user_id"`
	MovieID       int       `json:"movie_id,omitempty"`
	Value         int       `json:"value,omitempty"`
	At            time.Time `json:"at"`
}

// NewInteractionEvent creates an event with a fresh ID and the current time.
func NewInteractionEvent(eventType EventType, userID, movieID int) *InteractionEvent {
	return &InteractionEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Type:          eventType,
		UserID:        userID,
		MovieID:       movieID,
		At:            time.Now().UTC(),
	}
}

// Validate checks required fields.
func (e *InteractionEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	}
	if e.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive, got %d", ErrInvalidEvent, e.UserID)
	}
	if e.MovieID < 0 {
		return fmt.Errorf("%w: movie_id must be non-negative, got %d", ErrInvalidEvent, e.MovieID)
	}
	return nil
}

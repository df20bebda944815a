// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package services

import (
	"context"
	"errors"
	"fmt"
)

// EventRouter is the Run/Close lifecycle of *eventprocessor.Router.
type EventRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// RouterFactory builds a router with its handlers registered. A stopped
// watermill router cannot run again, so every Serve builds a new one.
type RouterFactory func() (EventRouter, error)

// EventRouterService runs the interaction event router under supervision.
// A router that stops on its own is reported as a failure so suture
// restarts it.
type EventRouterService struct {
	newRouter RouterFactory
	name      string
}

// NewEventRouterService creates the service.
func NewEventRouterService(newRouter RouterFactory) *EventRouterService {
	return &EventRouterService{newRouter: newRouter, name: "event-router"}
}

// errRouterStopped reports a router that returned without cancellation.
var errRouterStopped = errors.New("event router stopped unexpectedly")

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.newRouter()
	if err != nil {
		return fmt.Errorf("build event router: %w", err)
	}

	err = router.Run(ctx)
	if ctx.Err() != nil {
		if closeErr := router.Close(); closeErr != nil {
			return fmt.Errorf("event router close failed: %w", closeErr)
		}
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("event router failed: %w", err)
	}
	return errRouterStopped
}

// String implements fmt.Stringer for supervisor logs.
func (s *EventRouterService) String() string {
	return s.name
}

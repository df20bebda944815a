// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/cinerec/internal/metrics"
)

// Router delivers interaction events to consumer handlers. A Router runs
// once; after Close it cannot be started again.
type Router struct {
	router *message.Router

	mu       sync.Mutex
	handlers []string
}

// NewRouter creates a Router. A nil cfg uses DefaultRouterConfig.
func NewRouter(cfg *RouterConfig, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if cfg == nil {
		def := DefaultRouterConfig()
		cfg = &def
	}

	wm, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}
	wm.AddMiddleware(middlewares(cfg, logger)...)
	return &Router{router: wm}, nil
}

// middlewares returns the handler chain, outermost first.
func middlewares(cfg *RouterConfig, logger watermill.LoggerAdapter) []message.HandlerMiddleware {
	chain := []message.HandlerMiddleware{middleware.Recoverer}
	if cfg.RetryMaxRetries > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryMaxRetries,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
			Multiplier:      cfg.RetryMultiplier,
			Logger:          logger,
		}
		chain = append(chain, retry.Middleware)
	}
	if cfg.ThrottlePerSecond > 0 {
		chain = append(chain, middleware.NewThrottle(cfg.ThrottlePerSecond, time.Second).Middleware)
	}
	return append(chain, dropPermanent(logger))
}

// dropPermanent acks messages whose handler failed with a PermanentError
// so the retry layer above never sees them.
func dropPermanent(logger watermill.LoggerAdapter) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			out, err := h(msg)
			if err == nil || !IsPermanentError(err) {
				return out, err
			}
			eventType := msg.Metadata.Get(MetadataType)
			if eventType == "" {
				eventType = "unknown"
			}
			metrics.RecordInteractionEvent(eventType, "dropped")
			logger.Error("Dropping interaction event", err, watermill.LogFields{
				"message_uuid": msg.UUID,
				"type":         eventType,
			})
			return nil, nil
		}
	}
}

// AddConsumerHandler subscribes handler to topic on subscriber.
func (r *Router) AddConsumerHandler(name, topic string, subscriber message.Subscriber, handler message.NoPublishHandlerFunc) {
	r.router.AddConsumerHandler(name, topic, subscriber, handler)
	r.mu.Lock()
	r.handlers = append(r.handlers, name)
	r.mu.Unlock()
}

// Handlers returns the registered handler names in registration order.
func (r *Router) Handlers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.handlers...)
}

// Run blocks until ctx is done or Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once every handler is subscribed.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close stops the router, waiting up to CloseTimeout for in-flight handlers.
func (r *Router) Close() error {
	return r.router.Close()
}

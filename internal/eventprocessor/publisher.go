// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package eventprocessor

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/metrics"
)

// NewBus creates the in-process pub/sub used for interaction events. The
// returned GoChannel is both the publisher and the subscriber side.
//
//nolint:gocritic // cfg passed by value for immutability
func NewBus(cfg Config, logger watermill.LoggerAdapter) *gochannel.GoChannel {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            cfg.BufferSize,
		BlockPublishUntilSubscriberAck: cfg.BlockPublishUntilSubscriberAck,
	}, logger)
}

// Publisher serializes interaction events onto a Watermill topic.
type Publisher struct {
	publisher message.Publisher
	topic     string
	logger    zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps a Watermill publisher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPublisher(pub message.Publisher, topic string, logger zerolog.Logger) (*Publisher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		publisher: pub,
		topic:     topic,
		logger:    logger.With().Str("component", "event_publisher").Str("topic", topic).Logger(),
	}, nil
}

// PublishInteraction encodes and publishes an event.
func (p *Publisher) PublishInteraction(ctx context.Context, event *InteractionEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg, err := EncodeMessage(event)
	if err != nil {
		metrics.RecordInteractionEvent(string(event.Type), "publish_failed")
		return err
	}
	msg.SetContext(context.WithoutCancel(ctx))

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		metrics.RecordInteractionEvent(string(event.Type), "publish_failed")
		p.logger.Warn().Err(err).
			Str("event_id", event.EventID).
			Str("type", string(event.Type)).
			Msg("failed to publish interaction event")
		return err
	}

	metrics.RecordInteractionEvent(string(event.Type), "published")
	p.logger.Debug().
		Str("event_id", event.EventID).
		Str("type", string(event.Type)).
		Int("user_id", event.UserID).
		Msg("interaction event published")
	return nil
}

// Close marks the publisher closed. The underlying bus is closed by its owner.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

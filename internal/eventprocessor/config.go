// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package eventprocessor

import (
	"fmt"
	"time"
)

// Config holds the interaction event bus configuration.
type Config struct {
	// Topic interaction events are published on.
	Topic string

	// BufferSize is the gochannel output buffer per subscriber.
	BufferSize int64

	// BlockPublishUntilSubscriberAck makes Publish wait for handler acks.
	BlockPublishUntilSubscriberAck bool

	// Router configures handler delivery.
	Router RouterConfig
}

// RouterConfig holds configuration for the Watermill Router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// Throttle configuration (messages per second, 0 = disabled)
	ThrottlePerSecond int64
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Topic:      DefaultTopic,
		BufferSize: 256,
		Router:     DefaultRouterConfig(),
	}
}

// DefaultRouterConfig returns production defaults for the Router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		RetryMultiplier:      2.0,
		ThrottlePerSecond:    0,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Topic == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidConfig)
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("%w: buffer size must be non-negative", ErrInvalidConfig)
	}
	if c.Router.RetryMaxRetries < 0 {
		return fmt.Errorf("%w: retry max retries must be non-negative", ErrInvalidConfig)
	}
	if c.Router.RetryMultiplier < 1 && c.Router.RetryMaxRetries > 0 {
		return fmt.Errorf("%w: retry multiplier must be at least 1", ErrInvalidConfig)
	}
	if c.Router.ThrottlePerSecond < 0 {
		return fmt.Errorf("%w: throttle must be non-negative", ErrInvalidConfig)
	}
	return nil
}

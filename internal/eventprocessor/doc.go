// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package eventprocessor carries user interaction events between the
// interaction store and the recommendation engine.
//
// # Architecture
//
// Writes to the interaction store publish an InteractionEvent on the
// "interactions" topic of an in-process Watermill gochannel bus. A Router
// with recoverer and retry middleware delivers each event to the
// CacheInvalidationHandler, which drops the cached recommendations of the
// affected user.
//
//	store write -> NotifyingStore -> Publisher -> gochannel
//	                                                  |
//	                            Router -> CacheInvalidationHandler -> Engine.InvalidateUser
//
// # Usage
//
//	bus := eventprocessor.NewBus(cfg, logger)
//	publisher, err := eventprocessor.NewPublisher(bus, cfg.Topic, zlog)
//	router, err := eventprocessor.NewRouter(&cfg.Router, logger)
//	handler, err := eventprocessor.NewCacheInvalidationHandler(engine, zlog)
//	router.AddConsumerHandler("cache-invalidation", cfg.Topic, bus, handler.Handle)
//	go router.Run(ctx)
//
// Events travel as JSON with their type and user ID copied into message
// metadata. Handlers that fail with a PermanentError are acked and dropped.
//
// # Delivery
//
// Delivery is at-most-once across restarts because the bus is in memory.
// A lost event only leaves a cached response in place until its TTL expires.
package eventprocessor

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package main

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/cache"
	"github.com/tomtom215/cinerec/internal/catalog"
	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/eventprocessor"
	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/store"
	"github.com/tomtom215/cinerec/internal/supervisor/services"
)

// initCatalog loads the catalog file and wraps it with the circuit breaker
// and rate limiter.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initCatalog(cfg *config.Config, logger zerolog.Logger) (*catalog.ResilientCatalog, error) {
	fileCatalog, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	res := cfg.Resilience
	resilient, err := catalog.NewResilient(fileCatalog, catalog.ResilientConfig{
		Name:             "catalog",
		MaxRequests:      res.BreakerMaxRequests,
		Interval:         res.BreakerInterval,
		Timeout:          res.BreakerTimeout,
		FailureThreshold: res.BreakerFailureThreshold,
		RatePerSecond:    res.CatalogRatePerSecond,
		Burst:            res.CatalogBurst,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("wrap catalog: %w", err)
	}

	logger.Info().
		Str("path", cfg.Catalog.Path).
		Int("movies", fileCatalog.Len()).
		Msg("catalog loaded")
	return resilient, nil
}

// storeComponents holds the opened store and its notifying wrapper.
type storeComponents struct {
	// Base is the backend as opened, used for health checks and Close.
	Base store.Store

	// Store publishes interaction events after each write.
	Store *store.NotifyingStore
}

// initStore opens the interaction store, applies the seed fixture and wraps
// the store so writes publish interaction events.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initStore(ctx context.Context, cfg *config.Config, publisher store.EventPublisher, logger zerolog.Logger) (*storeComponents, error) {
	scale := models.RatingScale{Min: cfg.Recommend.RatingMin, Max: cfg.Recommend.RatingMax}

	base, err := store.Open(ctx, store.Config{
		Backend: cfg.Store.Backend,
		DuckDB: store.DuckDBConfig{
			Path:         cfg.Store.DuckDB.Path,
			Threads:      cfg.Store.DuckDB.Threads,
			MaxMemory:    cfg.Store.DuckDB.MaxMemory,
			QueryTimeout: cfg.Store.DuckDB.QueryTimeout,
		},
	}, scale, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if cfg.Store.SeedPath != "" {
		stats, err := store.Seed(ctx, base, cfg.Store.SeedPath)
		if err != nil {
			closeWithLog(base, "store", logger)
			return nil, fmt.Errorf("seed store: %w", err)
		}
		logger.Info().
			Str("path", cfg.Store.SeedPath).
			Int("ratings", stats.Ratings).
			Int("watchlist", stats.Watchlist).
			Int("views", stats.Views).
			Msg("store seeded")
	}

	logger.Info().Str("backend", cfg.Store.Backend).Msg("interaction store opened")
	return &storeComponents{
		Base:  base,
		Store: store.NewNotifyingStore(base, publisher, logger),
	}, nil
}

// initCache opens the configured result cache. Returns nil for backend none.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initCache(cfg *config.Config, logger zerolog.Logger) (cache.Backend, error) {
	backend, err := cache.New(cache.Config{
		Backend:  cache.BackendType(cfg.Cache.Backend),
		TTL:      cfg.Cache.TTL,
		Capacity: cfg.Cache.Capacity,
		Redis: cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		},
		BadgerPath: cfg.Cache.BadgerPath,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if backend == nil {
		logger.Info().Msg("result cache disabled")
		return nil, nil
	}
	logger.Info().Str("backend", backend.Name()).Dur("ttl", cfg.Cache.TTL).Msg("result cache opened")
	return backend, nil
}

// eventComponents holds the in-process bus and the handlers every router
// built from it subscribes.
type eventComponents struct {
	Bus       *gochannel.GoChannel
	Publisher *eventprocessor.Publisher

	topic     string
	routerCfg eventprocessor.RouterConfig
	wmLogger  watermill.LoggerAdapter
	consumers []consumer
}

type consumer struct {
	name    string
	handler message.NoPublishHandlerFunc
}

// initEvents creates the interaction event bus. Returns nil when events are
// disabled.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEvents(cfg *config.Config, logger zerolog.Logger) (*eventComponents, error) {
	if !cfg.Events.Enabled {
		logger.Info().Msg("interaction events disabled (EVENTS_ENABLED=false)")
		return nil, nil
	}

	epCfg := eventprocessor.DefaultConfig()
	epCfg.Topic = cfg.Events.Topic
	epCfg.BufferSize = cfg.Events.BufferSize
	epCfg.Router.RetryMaxRetries = cfg.Events.RetryMaxRetries
	epCfg.Router.RetryInitialInterval = cfg.Events.RetryInitialInterval
	epCfg.Router.ThrottlePerSecond = cfg.Events.ThrottlePerSecond
	epCfg.Router.CloseTimeout = cfg.Events.CloseTimeout
	if err := epCfg.Validate(); err != nil {
		return nil, err
	}

	wmLogger := eventprocessor.NewZerologAdapter(logger)
	bus := eventprocessor.NewBus(epCfg, wmLogger)

	publisher, err := eventprocessor.NewPublisher(bus, epCfg.Topic, logger)
	if err != nil {
		closeWithLog(bus, "event bus", logger)
		return nil, err
	}

	return &eventComponents{
		Bus:       bus,
		Publisher: publisher,
		topic:     epCfg.Topic,
		routerCfg: epCfg.Router,
		wmLogger:  wmLogger,
	}, nil
}

// subscribeInvalidation routes interaction events to cache invalidation.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func (e *eventComponents) subscribeInvalidation(invalidator eventprocessor.UserInvalidator, logger zerolog.Logger) error {
	handler, err := eventprocessor.NewCacheInvalidationHandler(invalidator, logger)
	if err != nil {
		return err
	}
	e.consumers = append(e.consumers, consumer{name: "cache_invalidation", handler: handler.Handle})
	return nil
}

// newRouter builds a router subscribed to every registered consumer.
func (e *eventComponents) newRouter() (*eventprocessor.Router, error) {
	cfg := e.routerCfg
	router, err := eventprocessor.NewRouter(&cfg, e.wmLogger)
	if err != nil {
		return nil, err
	}
	for _, c := range e.consumers {
		router.AddConsumerHandler(c.name, e.topic, e.Bus, c.handler)
	}
	return router, nil
}

func (e *eventComponents) routerFactory() services.RouterFactory {
	return func() (services.EventRouter, error) {
		router, err := e.newRouter()
		if err != nil {
			return nil, err
		}
		return router, nil
	}
}

// publisher returns the store-facing publisher, nil when events are off.
func (e *eventComponents) publisher() store.EventPublisher {
	if e == nil {
		return nil
	}
	return e.Publisher
}

type closer interface {
	Close() error
}

//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func closeWithLog(c closer, name string, logger zerolog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error().Err(err).Str("component", name).Msg("close failed")
	}
}

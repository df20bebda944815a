// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/supervisor"
	"github.com/tomtom215/cinerec/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "cinerec",
	})

	logging.Info().
		Str("catalog", cfg.Catalog.Path).
		Str("store", cfg.Store.Backend).
		Str("cache", cfg.Cache.Backend).
		Bool("events", cfg.Events.Enabled).
		Msg("Starting Cinerec with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("Cinerec stopped with error")
		cancel()
		os.Exit(1) //nolint:gocritic // exitAfterDefer: cancel called above
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires every component, serves the supervisor tree until ctx is
// canceled and closes resources in reverse order.
//
//nolint:gocyclo // sequential setup steps
func run(ctx context.Context, cfg *config.Config) error {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	catalog, err := initCatalog(cfg, logging.WithComponent("catalog"))
	if err != nil {
		return err
	}

	events, err := initEvents(cfg, logging.WithComponent("events"))
	if err != nil {
		return err
	}
	if events != nil {
		defer closeWithLog(events.Bus, "event bus", logging.Logger())
		defer closeWithLog(events.Publisher, "event publisher", logging.Logger())
	}

	stores, err := initStore(ctx, cfg, events.publisher(), logging.WithComponent("store"))
	if err != nil {
		return err
	}
	defer closeWithLog(stores.Base, "store", logging.Logger())

	resultCache, err := initCache(cfg, logging.WithComponent("cache"))
	if err != nil {
		return err
	}
	if resultCache != nil {
		defer closeWithLog(resultCache, "cache", logging.Logger())
	}

	engine, err := initRecommend(cfg, catalog, stores.Store, resultCache, tree, logging.WithComponent("recommend"))
	if err != nil {
		return err
	}

	if events != nil {
		if err := events.subscribeInvalidation(engine, logging.WithComponent("events")); err != nil {
			return fmt.Errorf("subscribe cache invalidation: %w", err)
		}
		tree.AddMessagingService(services.NewEventRouterService(events.routerFactory()))
		logging.Info().Str("topic", cfg.Events.Topic).Msg("Event router added to supervisor tree")
	}

	checks := healthChecks{
		BreakerState: func() string { return catalog.State().String() },
	}
	if pinger, ok := stores.Base.(Pinger); ok {
		checks.Store = pinger
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           newOpsRouter(checks),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		serveErr = err
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport() //nolint:errcheck // tree has terminated
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	return serveErr
}

// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package supervisor provides process supervision for Cinerec using suture v4.

The tree organizes long-running services into three layers:

	RootSupervisor ("cinerec")
	├── DataSupervisor ("data-layer")
	│   └── FeaturedService (if RECOMMEND_FEATURED_REFRESH_INTERVAL > 0)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventRouterService (if EVENTS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (metrics and health)

Each layer restarts its own services. A crashing event router does not stop
the metrics endpoint.

# Usage

	logger := logging.NewSlogLogger("supervisor")
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewFeaturedService(engine, services.FeaturedServiceConfig{Interval: 15 * time.Minute}, zlog))
	tree.AddMessagingService(services.NewEventRouterService(newRouter))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)

# Failure Handling

suture keeps a failure counter that decays over FailureDecay seconds. Once it
exceeds FailureThreshold the supervisor waits FailureBackoff before the next
restart.

A service that returns nil is not restarted. A service that returns an error
is restarted. On context cancellation a service must return promptly.

# What Is NOT Supervised

The catalog, the interaction store and the cache are libraries opened in
main and closed on shutdown. They have no loop of their own.

# Debugging Shutdown Issues

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logging.Warn().Str("service", svc.Name).Msg("service did not stop")
	}
*/
package supervisor

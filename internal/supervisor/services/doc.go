// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package services provides suture.Service wrappers for Cinerec components.

Each wrapper translates a component lifecycle (ListenAndServe, Run/Close, a
ticker loop) into suture's context-aware Serve and names itself through
fmt.Stringer for supervisor logs.

  - HTTPServerService: *http.Server with graceful shutdown.
  - FeaturedService: periodic featured ranking refresh into the cache.
  - EventRouterService: the Watermill router carrying interaction events.
*/
package services

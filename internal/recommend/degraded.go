// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"sync/atomic"
)

type degradedKey struct{}

// withDegradation returns a context that records collaborator failures of
// one request. collaboratorFailed sets the flag; a response built while it
// is set is not cached.
func withDegradation(ctx context.Context) (context.Context, *atomic.Bool) {
	flag := new(atomic.Bool)
	return context.WithValue(ctx, degradedKey{}, flag), flag
}

func markDegraded(ctx context.Context) {
	if flag, ok := ctx.Value(degradedKey{}).(*atomic.Bool); ok {
		flag.Store(true)
	}
}

// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package analytics

import "context"

// PopulationIndex supplies the sampler with the user population and each
// user's ordered event log. Implementations are external collaborators
// (in-memory maps, Redis, document stores); the analytics core performs no
// I/O of its own beyond these two calls.
type PopulationIndex interface {
	// UserIDs returns the identifiers of every user in the population.
	UserIDs(ctx context.Context) ([]string, error)
	// Events returns the user's browsing events ordered by time.
	Events(ctx context.Context, userID string) ([]Event, error)
}

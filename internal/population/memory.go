// Package population provides population index implementations backing the
// analytics sampler: an in-memory index for tests and single-process runs,
// and a Redis-backed index for shared deployments.
package population

import (
	"context"
	"errors"
	"sync"

	"github.com/luxfi/paillier/analytics"
)

// ErrUserNotFound is returned when a user ID has no event log.
var ErrUserNotFound = errors.New("user not found in population")

// MemoryIndex is an in-memory population index. Safe for concurrent use;
// the sampler's workers read from it in parallel.
type MemoryIndex struct {
	mu     sync.RWMutex
	ids    []string
	events map[string][]analytics.Event
}

// NewMemoryIndex creates an empty in-memory population index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{events: make(map[string][]analytics.Event)}
}

// Add registers a user's event log, replacing any previous log for the
// same user.
func (idx *MemoryIndex) Add(userID string, events []analytics.Event) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.events[userID]; !exists {
		idx.ids = append(idx.ids, userID)
	}
	idx.events[userID] = append([]analytics.Event(nil), events...)
}

// UserIDs returns the registered user IDs in insertion order.
func (idx *MemoryIndex) UserIDs(ctx context.Context) ([]string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return append([]string(nil), idx.ids...), nil
}

// Events returns a copy of the user's event log.
func (idx *MemoryIndex) Events(ctx context.Context, userID string) ([]analytics.Event, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	events, exists := idx.events[userID]
	if !exists {
		return nil, ErrUserNotFound
	}
	return append([]analytics.Event(nil), events...), nil
}

// Len returns the population size.
func (idx *MemoryIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.ids)
}

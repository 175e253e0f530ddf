package population

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/paillier/analytics"
)

// The sampler consumes indexes through this interface.
var _ analytics.PopulationIndex = (*MemoryIndex)(nil)
var _ analytics.PopulationIndex = (*RedisIndex)(nil)

func TestMemoryIndex(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	events := []analytics.Event{{Site: "tiktok.com"}, {Site: "amazon.com"}}
	idx.Add("alice", events)
	idx.Add("bob", []analytics.Event{{Site: "news.example"}})

	ids, err := idx.UserIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob"}, ids)
	require.Equal(t, 2, idx.Len())

	got, err := idx.Events(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, events, got)

	// Mutating the returned slice must not affect the stored log.
	got[0].Site = "mutated"
	again, err := idx.Events(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "tiktok.com", again[0].Site)

	_, err = idx.Events(ctx, "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryIndexReplace(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	idx.Add("alice", []analytics.Event{{Site: "old.example"}})
	idx.Add("alice", []analytics.Event{{Site: "new.example"}})

	ids, err := idx.UserIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alice"}, ids, "re-adding a user must not duplicate the ID")

	got, err := idx.Events(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "new.example", got[0].Site)
}

package datagen

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/paillier/analytics"
)

func testGen(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed+1)))
}

func TestProfileRanges(t *testing.T) {
	gen := testGen(1)
	for i := 0; i < 100; i++ {
		p := gen.Profile(i)
		require.NotEmpty(t, p.UserID)
		require.GreaterOrEqual(t, p.VideoPreference, 0.0)
		require.LessOrEqual(t, p.VideoPreference, 1.0)
		require.GreaterOrEqual(t, p.CommerceAfterVideo, 0.0)
		require.LessOrEqual(t, p.CommerceAfterVideo, 1.0)
	}
}

func TestSessionOrderedByTime(t *testing.T) {
	gen := testGen(2)
	events := gen.Session(gen.Profile(0), 50)

	require.Len(t, events, 50)
	for i := 1; i < len(events); i++ {
		require.False(t, events[i].Time.Before(events[i-1].Time), "events must be ordered by time")
	}

	require.Equal(t, "direct", events[0].Referrer)
	for i := 1; i < len(events); i++ {
		require.Equal(t, events[i-1].Site, events[i].Referrer)
	}
}

func TestSessionReflectsVideoPreference(t *testing.T) {
	gen := testGen(3)

	heavy := Profile{UserID: "heavy", VideoPreference: 0.95}
	light := Profile{UserID: "light", VideoPreference: 0.0}
	cats := analytics.DefaultCategories()

	heavyFeatures := analytics.ExtractFeatures(gen.Session(heavy, 200), cats)
	lightFeatures := analytics.ExtractFeatures(gen.Session(light, 200), cats)

	require.Greater(t, heavyFeatures.ShortVideoVisits, lightFeatures.ShortVideoVisits)
	require.True(t, heavyFeatures.PrimarilyVideo())
}

func TestDeterministicWithSameSeed(t *testing.T) {
	a := testGen(7).Session(Profile{UserID: "u", VideoPreference: 0.5, CommerceAfterVideo: 0.3}, 30)
	b := testGen(7).Session(Profile{UserID: "u", VideoPreference: 0.5, CommerceAfterVideo: 0.3}, 30)
	require.Equal(t, a, b)
}

// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package analytics

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubIndex is a fixed in-memory population for sampler tests.
type stubIndex struct {
	ids    []string
	events map[string][]Event
}

func newStubIndex() *stubIndex {
	return &stubIndex{events: make(map[string][]Event)}
}

func (s *stubIndex) add(userID string, events []Event) {
	s.ids = append(s.ids, userID)
	s.events[userID] = events
}

func (s *stubIndex) UserIDs(ctx context.Context) ([]string, error) {
	return s.ids, nil
}

func (s *stubIndex) Events(ctx context.Context, userID string) ([]Event, error) {
	events, ok := s.events[userID]
	if !ok {
		return nil, fmt.Errorf("unknown user %q", userID)
	}
	return events, nil
}

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func fixedPopulation() *stubIndex {
	idx := newStubIndex()
	// Heavy video user with a video-to-commerce transition.
	idx.add("heavy-video", sites(
		"a.example/shorts", "b.example/shorts", "shop.example/cart", "c.example/shorts",
	))
	// Commerce-only user.
	idx.add("shopper", sites("shop.example/cart", "other.example/cart"))
	// Neither category.
	idx.add("reader", sites("news.example", "blog.example"))
	// One video visit, no transition.
	idx.add("casual", sites("a.example/shorts", "news.example", "shop.example/cart"))
	return idx
}

func TestSamplerFullPopulation(t *testing.T) {
	idx := fixedPopulation()
	sampler := NewSampler(idx,
		WithCategories(testCategories),
		WithKeyBits(testKeyBits),
		WithWorkers(1),
		WithRand(testRand(1)),
	)

	report, err := sampler.Run(context.Background(), 4)
	require.NoError(t, err)

	require.Equal(t, 4, report.UsersSampled)
	require.Equal(t, 4, report.PopulationSize)

	// Every user counted exactly once.
	require.Equal(t, uint64(11), report.TotalVisits)
	require.Equal(t, uint64(4), report.ShortVideoVisits)
	require.Equal(t, uint64(4), report.EcommerceVisits)
	require.Equal(t, uint64(1), report.EcommerceAfterVideo)

	// Cohorts: heavy-video is the only primarily-video user (3/4 visits);
	// heavy-video is also the only user with a transition.
	require.Equal(t, 1, report.UsersPrimarilyVideo)
	require.InDelta(t, 25.0, report.UsersPrimarilyVideoPercentage, 1e-9)
	require.Equal(t, 1, report.UsersWithPattern)
	require.InDelta(t, 25.0, report.UsersWithPatternPercentage, 1e-9)
}

func TestSamplerClampsOversizedRequest(t *testing.T) {
	idx := fixedPopulation()
	sampler := NewSampler(idx,
		WithCategories(testCategories),
		WithKeyBits(testKeyBits),
		WithRand(testRand(2)),
	)

	report, err := sampler.Run(context.Background(), 1000)
	require.NoError(t, err)

	require.Equal(t, 4, report.UsersSampled, "request beyond population clamps to population size")
	require.Equal(t, uint64(11), report.TotalVisits, "clamped sample still counts each user exactly once")
}

func TestSamplerParallelMatchesSequential(t *testing.T) {
	idx := newStubIndex()
	for i := 0; i < 16; i++ {
		user := fmt.Sprintf("user-%02d", i)
		events := sites("a.example/shorts", "shop.example/cart", "news.example")
		if i%2 == 0 {
			events = append(events, sites("b.example/shorts", "c.example/shorts")...)
		}
		idx.add(user, events)
	}

	run := func(workers int) *Report {
		sampler := NewSampler(idx,
			WithCategories(testCategories),
			WithKeyBits(testKeyBits),
			WithWorkers(workers),
			WithRand(testRand(7)), // same seed, same drawn sample
		)
		report, err := sampler.Run(context.Background(), 10)
		require.NoError(t, err)
		return report
	}

	sequential := run(1)
	parallel := run(4)

	// Key pairs differ between runs, but the decrypted statistics must not.
	require.Equal(t, sequential.AggregateStats, parallel.AggregateStats)
	require.Equal(t, sequential.UsersPrimarilyVideo, parallel.UsersPrimarilyVideo)
	require.Equal(t, sequential.UsersWithPattern, parallel.UsersWithPattern)
}

func TestSamplerSubsample(t *testing.T) {
	idx := fixedPopulation()
	sampler := NewSampler(idx,
		WithCategories(testCategories),
		WithKeyBits(testKeyBits),
		WithRand(testRand(3)),
	)

	report, err := sampler.Run(context.Background(), 2)
	require.NoError(t, err)

	require.Equal(t, 2, report.UsersSampled)
	require.Equal(t, 4, report.PopulationSize)
}

func TestSamplerEmptyPopulation(t *testing.T) {
	sampler := NewSampler(newStubIndex(), WithKeyBits(testKeyBits))

	_, err := sampler.Run(context.Background(), 5)
	require.ErrorIs(t, err, ErrEmptyPopulation)
}

func TestSamplerRejectsNonPositiveSize(t *testing.T) {
	sampler := NewSampler(fixedPopulation(), WithKeyBits(testKeyBits))

	_, err := sampler.Run(context.Background(), 0)
	require.Error(t, err)
	_, err = sampler.Run(context.Background(), -3)
	require.Error(t, err)
}

func TestDrawSampleWithoutReplacement(t *testing.T) {
	sampler := NewSampler(newStubIndex(), WithRand(testRand(11)))

	ids := make([]string, 20)
	for i := range ids {
		ids[i] = fmt.Sprintf("u%d", i)
	}

	sample := sampler.drawSample(ids, 12)
	require.Len(t, sample, 12)

	seen := make(map[string]bool, len(sample))
	for _, id := range sample {
		require.False(t, seen[id], "user %s drawn twice", id)
		seen[id] = true
	}
}

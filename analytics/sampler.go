// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package analytics

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/paillier"
)

// ErrEmptyPopulation is returned when the population index holds no users.
var ErrEmptyPopulation = errors.New("population index is empty")

// Report is the final output of a sampled analysis: the decrypted aggregate
// statistics, the plaintext cohort percentages and the sampling metadata.
type Report struct {
	AggregateStats

	// Cohort statistics. These are computed from per-user plaintext feature
	// vectors, outside the homomorphic pipeline; see Sampler.Run.
	UsersPrimarilyVideo           int     `json:"users_primarily_video"`
	UsersPrimarilyVideoPercentage float64 `json:"users_primarily_video_percentage"`
	UsersWithPattern              int     `json:"users_with_pattern"`
	UsersWithPatternPercentage    float64 `json:"users_with_pattern_percentage"`

	UsersSampled   int `json:"users_sampled"`
	PopulationSize int `json:"population_size"`
}

// Sampler draws a uniform sample of users from a population index and
// drives the extract -> encrypt -> aggregate -> decrypt pipeline over it.
// Each Run generates a fresh session key pair; no key material outlives the
// call.
type Sampler struct {
	pop     PopulationIndex
	cats    Categories
	keyBits int
	workers int
	logger  *slog.Logger
	rnd     *rand.Rand
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithCategories substitutes the site marker lists.
func WithCategories(cats Categories) Option {
	return func(s *Sampler) { s.cats = cats }
}

// WithKeyBits sets the session key modulus size. The default is
// paillier.DefaultKeyBits.
func WithKeyBits(bits int) Option {
	return func(s *Sampler) { s.keyBits = bits }
}

// WithWorkers sets the number of parallel extraction/encryption workers.
// The default is runtime.GOMAXPROCS(0). One worker gives a fully
// sequential fold; any worker count produces identical statistics because
// the ciphertext group operation is commutative and associative.
func WithWorkers(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger attaches a structured logger. Per-user data is never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sampler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRand substitutes the sampling source, making the drawn sample
// deterministic. Key generation and encryption blinding still use
// crypto/rand regardless.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Sampler) { s.rnd = rnd }
}

// NewSampler creates a sampler over the given population index.
func NewSampler(pop PopulationIndex, opts ...Option) *Sampler {
	s := &Sampler{
		pop:     pop,
		cats:    DefaultCategories(),
		keyBits: paillier.DefaultKeyBits,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
		rnd:     rand.New(rand.NewPCG(seed(), seed())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// seed draws a PCG seed word from the OS entropy pool. Sampling itself is
// not secrecy-critical, but seeding from entropy keeps independent runs
// independent.
func seed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("read sampler seed: %v", err))
	}
	return binary.LittleEndian.Uint64(b[:])
}

// partial is one worker's share of the fold: a local accumulator plus local
// cohort counters, merged exactly once at the join point.
type partial struct {
	agg            *Aggregate
	primarilyVideo int
	withPattern    int
}

// Run draws a uniform sample without replacement of up to sampleSize users,
// generates a session key pair, folds the sample's encrypted feature
// vectors and decrypts only the aggregate. A requested size larger than the
// population is clamped to the population size.
//
// Alongside the encrypted pipeline, Run evaluates two plaintext threshold
// flags per sampled user on the extracted features: "primarily watches
// short video" and "exhibits the video-to-ecommerce pattern". This cohort
// path inspects individual plaintext vectors and therefore sits outside the
// never-decrypt-individual-records guarantee; it is preserved deliberately
// because the cohort percentages are part of the reference report.
func (s *Sampler) Run(ctx context.Context, sampleSize int) (*Report, error) {
	if sampleSize < 1 {
		return nil, fmt.Errorf("sample size must be positive, got %d", sampleSize)
	}

	ids, err := s.pop.UserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list population: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrEmptyPopulation
	}

	sample := s.drawSample(ids, sampleSize)

	s.logger.Info("starting sampled analysis",
		"population", len(ids),
		"sample", len(sample),
		"key_bits", s.keyBits,
		"workers", s.workers,
	)

	pub, priv, err := paillier.GenerateKeys(s.keyBits)
	if err != nil {
		return nil, fmt.Errorf("generate session keys: %w", err)
	}
	engine := New(pub)

	partials, err := s.foldSample(ctx, engine, sample)
	if err != nil {
		return nil, err
	}

	agg := engine.NewAggregate()
	primarilyVideo, withPattern := 0, 0
	for _, p := range partials {
		if err := engine.Merge(agg, p.agg); err != nil {
			return nil, fmt.Errorf("merge partial aggregate: %w", err)
		}
		primarilyVideo += p.primarilyVideo
		withPattern += p.withPattern
	}

	stats, err := engine.DecryptAndAnalyze(agg, paillier.NewDecryptor(pub, priv))
	if err != nil {
		return nil, fmt.Errorf("decrypt aggregate: %w", err)
	}

	sampled := len(sample)
	report := &Report{
		AggregateStats:                *stats,
		UsersPrimarilyVideo:           primarilyVideo,
		UsersPrimarilyVideoPercentage: percentage(uint64(primarilyVideo), uint64(sampled)),
		UsersWithPattern:              withPattern,
		UsersWithPatternPercentage:    percentage(uint64(withPattern), uint64(sampled)),
		UsersSampled:                  sampled,
		PopulationSize:                len(ids),
	}

	s.logger.Info("sampled analysis complete",
		"users_sampled", report.UsersSampled,
		"total_visits", report.TotalVisits,
	)

	return report, nil
}

// drawSample selects up to k user IDs uniformly without replacement.
func (s *Sampler) drawSample(ids []string, k int) []string {
	if k > len(ids) {
		k = len(ids)
	}
	shuffled := make([]string, len(ids))
	copy(shuffled, ids)
	s.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:k]
}

// foldSample runs the per-user extract/encrypt/accumulate pipeline across
// the worker pool. Users are independent, so the sample is split into
// contiguous chunks and each worker folds its chunk into a local partial
// accumulator; the caller merges the partials at the join point.
func (s *Sampler) foldSample(ctx context.Context, engine *Analytics, sample []string) ([]*partial, error) {
	workers := s.workers
	if workers > len(sample) {
		workers = len(sample)
	}

	partials := make([]*partial, workers)
	g, ctx := errgroup.WithContext(ctx)

	chunk := (len(sample) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(sample))
		g.Go(func() error {
			p := &partial{agg: engine.NewAggregate()}
			for _, userID := range sample[lo:hi] {
				if err := ctx.Err(); err != nil {
					return err
				}

				events, err := s.pop.Events(ctx, userID)
				if err != nil {
					return fmt.Errorf("fetch events for sampled user: %w", err)
				}

				v := ExtractFeatures(events, s.cats)

				ev, err := engine.EncryptVector(v)
				if err != nil {
					return fmt.Errorf("encrypt feature vector: %w", err)
				}
				if err := engine.Add(p.agg, ev); err != nil {
					return fmt.Errorf("fold feature vector: %w", err)
				}

				// Plaintext cohort path; see the Run doc comment.
				if v.PrimarilyVideo() {
					p.primarilyVideo++
				}
				if v.HasVideoToCommerce() {
					p.withPattern++
				}
			}
			partials[w] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return partials, nil
}

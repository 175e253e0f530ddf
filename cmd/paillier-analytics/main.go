// Paillier Analytics - privacy-preserving browsing analysis runner
//
// Generates a synthetic browsing-history population, runs the sampled
// homomorphic analysis over it and prints the aggregate report. Only the
// population aggregate is ever decrypted.
//
// Run against the in-memory index:
//
//	paillier-analytics -users 1000 -sample 200 -bits 1024
//
// Or back the population with Redis:
//
//	paillier-analytics -redis localhost:6379 -users 1000 -sample 200
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/luxfi/paillier/analytics"
	"github.com/luxfi/paillier/internal/datagen"
	"github.com/luxfi/paillier/internal/population"
)

func main() {
	var (
		users     = flag.Int("users", 1000, "Synthetic population size")
		minEvents = flag.Int("min-events", 5, "Minimum events per user")
		maxEvents = flag.Int("max-events", 200, "Maximum events per user")
		sample    = flag.Int("sample", 100, "Number of users to sample")
		bits      = flag.Int("bits", 1024, "Session key modulus size in bits")
		workers   = flag.Int("workers", 0, "Parallel workers (0 = GOMAXPROCS)")
		seed      = flag.Uint64("seed", 0, "Data generation seed (0 = random)")
		out       = flag.String("out", "", "Write the report as JSON to this file")
		redisAddr = flag.String("redis", "", "Redis address for the population index (empty = in-memory)")
		verbose   = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*users, *minEvents, *maxEvents, *sample, *bits, *workers, *seed, *out, *redisAddr, logger); err != nil {
		logger.Error("analysis failed", "err", err)
		os.Exit(1)
	}
}

func run(users, minEvents, maxEvents, sampleSize, bits, workers int, seed uint64, out, redisAddr string, logger *slog.Logger) error {
	ctx := context.Background()

	if seed == 0 {
		seed = rand.Uint64()
	}
	gen := datagen.New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))

	logger.Info("generating synthetic population", "users", users, "seed", seed)
	start := time.Now()

	var (
		index analytics.PopulationIndex
		add   func(userID string, events []analytics.Event) error
	)
	if redisAddr != "" {
		idx, err := population.NewRedisIndex(population.RedisConfig{Addr: redisAddr})
		if err != nil {
			return fmt.Errorf("connect population index: %w", err)
		}
		defer idx.Close()
		index = idx
		add = func(userID string, events []analytics.Event) error {
			return idx.Add(ctx, userID, events)
		}
	} else {
		idx := population.NewMemoryIndex()
		index = idx
		add = func(userID string, events []analytics.Event) error {
			idx.Add(userID, events)
			return nil
		}
	}

	eventRand := rand.New(rand.NewPCG(seed^0xda942042e4dd58b5, seed))
	for i := 0; i < users; i++ {
		profile := gen.Profile(i)
		numEvents := minEvents + eventRand.IntN(maxEvents-minEvents+1)
		if err := add(profile.UserID, gen.Session(profile, numEvents)); err != nil {
			return fmt.Errorf("store user events: %w", err)
		}
	}
	logger.Info("population ready", "elapsed", time.Since(start))

	sampler := analytics.NewSampler(index,
		analytics.WithKeyBits(bits),
		analytics.WithWorkers(workers),
		analytics.WithLogger(logger),
	)

	report, err := sampler.Run(ctx, sampleSize)
	if err != nil {
		return err
	}

	printReport(report)

	if out != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("report written", "path", out)
	}

	return nil
}

func printReport(r *analytics.Report) {
	fmt.Println("Privacy-Preserving Browsing Analysis")
	fmt.Println("====================================")
	fmt.Printf("Population: %d users, sampled %d\n\n", r.PopulationSize, r.UsersSampled)

	fmt.Println("Short Video Analysis:")
	fmt.Printf("  Total visits:       %d\n", r.TotalVisits)
	fmt.Printf("  Short video visits: %d (%.2f%%)\n", r.ShortVideoVisits, r.ShortVideoPercentage)
	fmt.Printf("  Users primarily viewing short videos: %d (%.2f%%)\n\n",
		r.UsersPrimarilyVideo, r.UsersPrimarilyVideoPercentage)

	fmt.Println("E-commerce After Video Analysis:")
	fmt.Printf("  E-commerce visits:              %d\n", r.EcommerceVisits)
	fmt.Printf("  E-commerce visits after videos: %d (%.2f%%)\n", r.EcommerceAfterVideo, r.EcommerceAfterVideoPercentage)
	fmt.Printf("  Users with video-to-ecommerce pattern: %d (%.2f%%)\n",
		r.UsersWithPattern, r.UsersWithPatternPercentage)
}

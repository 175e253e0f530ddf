package population

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/luxfi/paillier/analytics"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Namespace prefixes every key so multiple populations can share one
	// Redis instance. Defaults to "population".
	Namespace string
}

// RedisIndex is a Redis-backed population index. User IDs live in a set and
// each event log is a JSON value keyed by user ID.
type RedisIndex struct {
	client      *redis.Client
	idsKey      string
	eventPrefix string
}

// NewRedisIndex connects to Redis and verifies the connection.
func NewRedisIndex(cfg RedisConfig) (*RedisIndex, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ns := cfg.Namespace
	if ns == "" {
		ns = "population"
	}

	return &RedisIndex{
		client:      client,
		idsKey:      ns + ":ids",
		eventPrefix: ns + ":events:",
	}, nil
}

// Add registers a user's event log.
func (idx *RedisIndex) Add(ctx context.Context, userID string, events []analytics.Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}

	pipe := idx.client.Pipeline()
	pipe.SAdd(ctx, idx.idsKey, userID)
	pipe.Set(ctx, idx.eventPrefix+userID, data, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

// UserIDs returns every registered user ID. Set order is unspecified, which
// is harmless: the sampler shuffles before drawing.
func (idx *RedisIndex) UserIDs(ctx context.Context) ([]string, error) {
	ids, err := idx.client.SMembers(ctx, idx.idsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return ids, nil
}

// Events returns the user's event log.
func (idx *RedisIndex) Events(ctx context.Context, userID string) ([]analytics.Event, error) {
	data, err := idx.client.Get(ctx, idx.eventPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get events: %w", err)
	}

	var events []analytics.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("unmarshal events: %w", err)
	}
	return events, nil
}

// Close closes the Redis connection.
func (idx *RedisIndex) Close() error {
	return idx.client.Close()
}

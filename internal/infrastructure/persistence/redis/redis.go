// Package redis implements the snapshot backend over Redis (one key holding
// the whole team document) plus a derived-statistics cache whose invalidation
// is tied to store mutations, so cached aggregates can never outlive the
// snapshot they were computed from.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/step-hub/team-step-hub/internal/infrastructure/persistence"
	"github.com/step-hub/team-step-hub/pkg/circuitbreaker"
	"github.com/step-hub/team-step-hub/pkg/retry"
)

// snapshotKey is the single key the whole team document lives under.
const snapshotKey = "stephub:snapshot"

// ErrCacheMiss is returned when a requested cache entry is not present.
var ErrCacheMiss = errors.New("redis: cache miss")

// Backend persists the snapshot document under one Redis key.
type Backend struct {
	client *redis.Client
}

// New creates a redis backend from a Redis URL and verifies connectivity.
func New(ctx context.Context, redisURL string) (*Backend, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: failed to parse URL: %w", err)
	}

	client := redis.NewClient(opts)
	// The server may still be coming up when we are; retry the first ping.
	err = retry.BackendRetrier().Do(ctx, func(ctx context.Context) error {
		return retry.Retryable(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: failed to ping server: %w", err)
	}

	return &Backend{client: client}, nil
}

// Client exposes the underlying client so a StatsCache can share the
// connection.
func (b *Backend) Client() *redis.Client { return b.client }

// Load implements persistence.Backend.
func (b *Backend) Load(ctx context.Context) (*persistence.RawSnapshot, error) {
	data, err := b.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persistence.ErrNoSnapshot
		}
		return nil, fmt.Errorf("redis: load snapshot: %w", err)
	}
	return &persistence.RawSnapshot{Data: data}, nil
}

// Save implements persistence.Backend. The document is durable only as far
// as the server's persistence configuration; deployments relying on the redis
// backend should run with AOF enabled.
func (b *Backend) Save(ctx context.Context, doc *persistence.RawSnapshot) error {
	if err := b.client.Set(ctx, snapshotKey, doc.Data, 0).Err(); err != nil {
		return fmt.Errorf("redis: save snapshot: %w", err)
	}
	return nil
}

// Close implements persistence.Backend.
func (b *Backend) Close() error {
	return b.client.Close()
}

// ══════════════════════════════════════════════════════════════════════════════
// DERIVED-STATS CACHE
// ══════════════════════════════════════════════════════════════════════════════

// StatsCache caches serialized derived aggregates (team statistics,
// leaderboards) keyed within a generation. Bumping the generation on any
// store mutation orphans every cached entry at once; orphaned generations
// age out via TTL. Aggregates must never be cached without invalidation tied
// to store content - the generation bump is that tie.
//
// All operations run behind a circuit breaker. When Redis is down the breaker
// opens and Get returns ErrCacheMiss immediately, so callers fall back to
// recomputing from the snapshot without waiting on connection timeouts.
type StatsCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

const (
	statsGenKey    = "stephub:stats:gen"
	statsKeyPrefix = "stephub:stats"
)

// NewStatsCache creates a stats cache over an existing client. Entries live
// at most ttl even within a current generation.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatsCache{
		client:  client,
		ttl:     ttl,
		breaker: circuitbreaker.StatsCacheBreaker(nil),
	}
}

// generation returns the current cache generation, 0 when never bumped.
func (c *StatsCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, statsGenKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return gen, nil
}

// entryKey namespaces a cache entry inside the current generation.
func entryKey(gen int64, name string) string {
	return fmt.Sprintf("%s:%d:%s", statsKeyPrefix, gen, name)
}

// Get returns the cached bytes for name, or ErrCacheMiss. An open circuit is
// reported as a miss so callers fall back to recomputing.
func (c *StatsCache) Get(ctx context.Context, name string) ([]byte, error) {
	var (
		data  []byte
		found bool
	)
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		gen, err := c.generation(ctx)
		if err != nil {
			return fmt.Errorf("redis: stats cache generation: %w", err)
		}
		b, err := c.client.Get(ctx, entryKey(gen, name)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// A miss is a healthy answer, not a backend failure.
				return nil
			}
			return fmt.Errorf("redis: stats cache get: %w", err)
		}
		data, found = b, true
		return nil
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	if !found {
		return nil, ErrCacheMiss
	}
	return data, nil
}

// Set stores bytes for name in the current generation.
func (c *StatsCache) Set(ctx context.Context, name string, value []byte) error {
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		gen, err := c.generation(ctx)
		if err != nil {
			return fmt.Errorf("redis: stats cache generation: %w", err)
		}
		if err := c.client.Set(ctx, entryKey(gen, name), value, c.ttl).Err(); err != nil {
			return fmt.Errorf("redis: stats cache set: %w", err)
		}
		return nil
	})
}

// Invalidate bumps the generation, orphaning every cached entry.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		if err := c.client.Incr(ctx, statsGenKey).Err(); err != nil {
			return fmt.Errorf("redis: stats cache invalidate: %w", err)
		}
		return nil
	})
}

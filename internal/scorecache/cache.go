// Package scorecache caches computed score breakdowns in Redis, keyed by
// profile and date so that any write for that day drops every variant at once.
package scorecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fdg312/fuel-score/internal/config"
	"github.com/fdg312/fuel-score/internal/scoring"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache stores breakdowns per (profile, date, variant).
type Cache interface {
	Get(ctx context.Context, profileID uuid.UUID, date, variant string) (*scoring.Breakdown, bool, error)
	Set(ctx context.Context, profileID uuid.UUID, date, variant string, b scoring.Breakdown) error
	Invalidate(ctx context.Context, profileID uuid.UUID, date string) error
	InvalidateProfile(ctx context.Context, profileID uuid.UUID) error
}

// Key returns the hash key holding every variant for one day.
func Key(profileID uuid.UUID, date string) string {
	return fmt.Sprintf("score:%s:%s", profileID, date)
}

// Variant names the scoring options a breakdown was computed with.
func Variant(strategy scoring.Strategy, penaltyProfile string) string {
	return string(strategy) + "|" + penaltyProfile
}

// RedisCache implements Cache with one hash per day.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, profileID uuid.UUID, date, variant string) (*scoring.Breakdown, bool, error) {
	raw, err := c.client.HGet(ctx, Key(profileID, date), variant).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis hget: %w", err)
	}

	var b scoring.Breakdown
	if err := json.Unmarshal(raw, &b); err != nil {
		// битая запись не должна ломать расчёт
		return nil, false, nil
	}
	return &b, true, nil
}

func (c *RedisCache) Set(ctx context.Context, profileID uuid.UUID, date, variant string, b scoring.Breakdown) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	key := Key(profileID, date)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, variant, raw)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, profileID uuid.UUID, date string) error {
	if err := c.client.Del(ctx, Key(profileID, date)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// InvalidateProfile drops every cached day of a profile. Body metrics, goal
// and race date feed all days, so a profile edit stales them together.
func (c *RedisCache) InvalidateProfile(ctx context.Context, profileID uuid.UUID) error {
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("score:%s:*", profileID), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, uuid.UUID, string, string) (*scoring.Breakdown, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, uuid.UUID, string, string, scoring.Breakdown) error { return nil }

func (Noop) Invalidate(context.Context, uuid.UUID, string) error { return nil }

func (Noop) InvalidateProfile(context.Context, uuid.UUID) error { return nil }

// New connects to cfg.RedisURL. Without a URL, or when Redis is unreachable,
// it logs and returns Noop so scoring keeps working uncached.
func New(ctx context.Context, cfg config.CacheConfig) Cache {
	if !cfg.Enabled() {
		log.Println("INFO scorecache: REDIS_URL not set, cache disabled")
		return Noop{}
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARN scorecache: invalid REDIS_URL: %v, cache disabled", err)
		return Noop{}
	}
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("WARN scorecache: redis ping failed: %v, cache disabled", err)
		client.Close()
		return Noop{}
	}

	log.Printf("INFO scorecache: connected to redis at %s ttl=%ds", opts.Addr, cfg.ScoreTTLSeconds)
	return NewRedisCache(client, time.Duration(cfg.ScoreTTLSeconds)*time.Second)
}

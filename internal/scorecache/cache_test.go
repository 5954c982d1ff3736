package scorecache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdg312/fuel-score/internal/config"
	"github.com/fdg312/fuel-score/internal/scoring"
	"github.com/fdg312/fuel-score/internal/targets"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, 15*time.Minute), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	profileID := uuid.New()
	variant := Variant(scoring.StrategyRunnerFocused, "reduced")

	_, ok, err := c.Get(ctx, profileID, "2026-10-16", variant)
	require.NoError(t, err)
	assert.False(t, ok)

	b := scoring.Breakdown{Date: "2026-10-16", Total: 87, Load: targets.LoadModerate, PenaltyProfile: "reduced"}
	require.NoError(t, c.Set(ctx, profileID, "2026-10-16", variant, b))

	got, ok, err := c.Get(ctx, profileID, "2026-10-16", variant)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 87, got.Total)
	assert.Equal(t, targets.LoadModerate, got.Load)

	ttl := mr.TTL(Key(profileID, "2026-10-16"))
	assert.Equal(t, 15*time.Minute, ttl)
}

func TestRedisCacheInvalidateDropsAllVariants(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	profileID := uuid.New()

	reduced := Variant(scoring.StrategyGeneral, "reduced")
	strict := Variant(scoring.StrategyGeneral, "strict")
	require.NoError(t, c.Set(ctx, profileID, "2026-10-16", reduced, scoring.Breakdown{Total: 80}))
	require.NoError(t, c.Set(ctx, profileID, "2026-10-16", strict, scoring.Breakdown{Total: 70}))
	require.NoError(t, c.Set(ctx, profileID, "2026-10-17", strict, scoring.Breakdown{Total: 60}))

	require.NoError(t, c.Invalidate(ctx, profileID, "2026-10-16"))

	for _, v := range []string{reduced, strict} {
		_, ok, err := c.Get(ctx, profileID, "2026-10-16", v)
		require.NoError(t, err)
		assert.False(t, ok, "variant %s should be gone", v)
	}
	_, ok, err := c.Get(ctx, profileID, "2026-10-17", strict)
	require.NoError(t, err)
	assert.True(t, ok, "other days must survive")
}

func TestRedisCacheInvalidateProfileDropsEveryDay(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	profileID, other := uuid.New(), uuid.New()

	variant := Variant(scoring.StrategyRunnerFocused, "reduced")
	for _, d := range []string{"2026-10-14", "2026-10-15", "2026-10-16"} {
		require.NoError(t, c.Set(ctx, profileID, d, variant, scoring.Breakdown{Total: 90}))
	}
	require.NoError(t, c.Set(ctx, other, "2026-10-16", variant, scoring.Breakdown{Total: 50}))

	require.NoError(t, c.InvalidateProfile(ctx, profileID))

	for _, d := range []string{"2026-10-14", "2026-10-15", "2026-10-16"} {
		assert.False(t, mr.Exists(Key(profileID, d)), "day %s should be gone", d)
	}
	assert.True(t, mr.Exists(Key(other, "2026-10-16")), "other profiles must survive")

	require.NoError(t, c.InvalidateProfile(ctx, profileID))
}

func TestRedisCacheIgnoresCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	profileID := uuid.New()

	mr.HSet(Key(profileID, "2026-10-16"), "general|reduced", "{not json")

	_, ok, err := c.Get(ctx, profileID, "2026-10-16", "general|reduced")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewFallsBackToNoop(t *testing.T) {
	ctx := context.Background()

	assert.IsType(t, Noop{}, New(ctx, config.CacheConfig{}))
	assert.IsType(t, Noop{}, New(ctx, config.CacheConfig{RedisURL: "://bad"}))
}

func TestNewConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	c := New(context.Background(), config.CacheConfig{RedisURL: "redis://" + mr.Addr(), ScoreTTLSeconds: 60})
	rc, ok := c.(*RedisCache)
	require.True(t, ok, "expected redis cache, got %T", c)
	t.Cleanup(func() { rc.Close() })
	assert.Equal(t, time.Minute, rc.ttl)
}

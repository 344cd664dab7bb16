package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEntryCache(t *testing.T) (*RedisEntryCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	entryCache := NewRedisEntryCacheFromClient(client, zap.NewNop())
	t.Cleanup(func() { entryCache.Close() })

	return entryCache, mr
}

func TestRedisEntryCache_SetGetRoundTrip(t *testing.T) {
	entryCache, _ := newTestEntryCache(t)
	ctx := context.Background()

	want := sampleEntry("a@example.com")
	entryCache.Set(ctx, "a@example.com", want, time.Hour)

	got, ok := entryCache.Get(ctx, "a@example.com")
	require.True(t, ok)
	assert.Equal(t, want, *got)
}

func TestRedisEntryCache_MissingKeyIsAMiss(t *testing.T) {
	entryCache, _ := newTestEntryCache(t)

	_, ok := entryCache.Get(context.Background(), "absent@example.com")
	assert.False(t, ok)
}

func TestRedisEntryCache_ExpiredEntryIsAMiss(t *testing.T) {
	entryCache, mr := newTestEntryCache(t)
	ctx := context.Background()

	entryCache.Set(ctx, "a@example.com", sampleEntry("a@example.com"), time.Minute)
	mr.FastForward(2 * time.Minute)

	_, ok := entryCache.Get(ctx, "a@example.com")
	assert.False(t, ok)
}

func TestRedisEntryCache_MalformedPayloadIsAMiss(t *testing.T) {
	entryCache, mr := newTestEntryCache(t)

	require.NoError(t, mr.Set(entryKeyPrefix+"a@example.com", "{not json"))

	_, ok := entryCache.Get(context.Background(), "a@example.com")
	assert.False(t, ok)
}

func TestRedisEntryCache_UnreachableServerIsBestEffort(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	entryCache := NewRedisEntryCacheFromClient(client, zap.NewNop())
	defer entryCache.Close()

	mr.Close()

	entryCache.Set(context.Background(), "a@example.com", sampleEntry("a@example.com"), time.Hour)
	_, ok := entryCache.Get(context.Background(), "a@example.com")
	assert.False(t, ok)
}

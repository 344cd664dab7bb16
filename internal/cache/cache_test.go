package cache

import (
	"context"
	"testing"
	"time"

	"github.com/skip405/kickbox-verifier/internal/adapters/store"
	"github.com/skip405/kickbox-verifier/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cacheFixture struct {
	cache    *Cache
	store    *store.MemoryStore
	settings *Settings
}

func newFixture(settings Settings) *cacheFixture {
	memStore := store.NewMemoryStore()
	fixture := &cacheFixture{store: memStore, settings: &settings}
	fixture.cache = New(
		memStore,
		nil,
		core.NewHooks(),
		zap.NewNop(),
		func() Settings { return *fixture.settings },
		time.Hour,
	)
	return fixture
}

func deliverableEnvelope(email string) core.VerificationEnvelope {
	return core.VerificationEnvelope{
		Success: true,
		Data: core.VerificationData{
			Code: 200,
			Body: &core.VerificationBody{
				Success: true,
				Result:  core.ResultDeliverable,
				Sendex:  0.9,
				Email:   email,
			},
		},
	}
}

func seedEntry(t *testing.T, fixture *cacheFixture, key string, timestamp int64) {
	t.Helper()

	ctx := context.Background()
	stored, err := fixture.store.Load(ctx)
	require.NoError(t, err)

	stored[key] = core.CacheEntry{
		Key:          key,
		Verification: deliverableEnvelope(key),
		Timestamp:    timestamp,
	}
	require.NoError(t, fixture.store.Save(ctx, stored))
}

func TestKeyFor(t *testing.T) {
	fixture := newFixture(Settings{Enabled: true})

	assert.Equal(t, "user@example.com", fixture.cache.KeyFor("user@example.com"))

	fixture.settings.DomainCaching = true
	assert.Equal(t, "example.com", fixture.cache.KeyFor("user@example.com"))

	// No "@" with domain caching on is a caller precondition violation;
	// the key is unusable, not an error.
	assert.Equal(t, "", fixture.cache.KeyFor("not-an-email"))
}

func TestKeyFor_Hook(t *testing.T) {
	fixture := newFixture(Settings{Enabled: true})

	hooks := core.NewHooks()
	hooks.OnCacheKey(func(email, key string) string {
		return "prefix:" + key
	})
	fixture.cache.hooks = hooks

	assert.Equal(t, "prefix:user@example.com", fixture.cache.KeyFor("user@example.com"))
}

func TestStoreAndGetRoundTrip(t *testing.T) {
	fixture := newFixture(Settings{Enabled: true, DurationDays: 7})
	ctx := context.Background()

	env := deliverableEnvelope("user@example.com")
	before := time.Now().Unix()
	fixture.cache.Store(ctx, env)

	entry, ok := fixture.cache.Get(ctx, "user@example.com")
	require.True(t, ok)
	assert.Equal(t, env, entry.Verification)
	assert.GreaterOrEqual(t, entry.Timestamp, before)
	assert.LessOrEqual(t, entry.Timestamp, time.Now().Unix())
}

func TestStore_KeyComesFromProviderEchoedEmail(t *testing.T) {
	fixture := newFixture(Settings{Enabled: true, DurationDays: 7})
	ctx := context.Background()

	// The provider normalized the address; the cache key must follow it.
	env := deliverableEnvelope("normalized@example.com")
	fixture.cache.Store(ctx, env)

	_, ok := fixture.cache.Get(ctx, "normalized@example.com")
	assert.True(t, ok)
}

func TestStore_DisabledCachingIsANoOp(t *testing.T) {
	fixture := newFixture(Settings{Enabled: false, DurationDays: 7})
	ctx := context.Background()

	fixture.cache.Store(ctx, deliverableEnvelope("user@example.com"))

	stored, err := fixture.store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestStore_SkipsEnvelopesWithoutBody(t *testing.T) {
	fixture := newFixture(Settings{Enabled: true, DurationDays: 7})
	ctx := context.Background()

	fixture.cache.Store(ctx, core.VerificationEnvelope{
		Success: false,
		Data:    core.VerificationData{Error: "connection refused"},
	})

	stored, err := fixture.store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestStore_OverwritesExistingEntry(t *testing.T) {
	fixture := newFixture(Settings{Enabled: true, DurationDays: 7})
	ctx := context.Background()

	seedEntry(t, fixture, "user@example.com", 1)
	fixture.cache.Store(ctx, deliverableEnvelope("user@example.com"))

	entry, ok := fixture.cache.Get(ctx, "user@example.com")
	require.True(t, ok)
	assert.Greater(t, entry.Timestamp, int64(1))
}

func TestIsFresh(t *testing.T) {
	const durationSeconds = 7 * 86400
	now := time.Now().Unix()

	tests := []struct {
		name      string
		timestamp int64
		want      bool
	}{
		{"recent entry is fresh", now - 60, true},
		{"exactly at the boundary is fresh", now - durationSeconds, true},
		{"one second past the boundary is stale", now - durationSeconds - 1, false},
		{"missing timestamp is a miss", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newFixture(Settings{Enabled: true, DurationDays: 7})
			seedEntry(t, fixture, "user@example.com", tt.timestamp)

			assert.Equal(t, tt.want, fixture.cache.IsFresh(context.Background(), "user@example.com"))
		})
	}

	t.Run("absent entry is not fresh", func(t *testing.T) {
		fixture := newFixture(Settings{Enabled: true, DurationDays: 7})
		assert.False(t, fixture.cache.IsFresh(context.Background(), "user@example.com"))
	})

	t.Run("duration defaults to seven days when unset", func(t *testing.T) {
		fixture := newFixture(Settings{Enabled: true})
		seedEntry(t, fixture, "user@example.com", now-6*86400)

		assert.True(t, fixture.cache.IsFresh(context.Background(), "user@example.com"))
	})
}

func TestLookup_TagsEnvelopeAsCached(t *testing.T) {
	fixture := newFixture(Settings{Enabled: true, DurationDays: 7})
	seedEntry(t, fixture, "user@example.com", time.Now().Unix())

	env, ok := fixture.cache.Lookup(context.Background(), "user@example.com")
	require.True(t, ok)
	assert.True(t, env.FromCache)

	// The stored entry itself stays untagged.
	entry, ok := fixture.cache.Get(context.Background(), "user@example.com")
	require.True(t, ok)
	assert.False(t, entry.Verification.FromCache)
}

func TestPrune(t *testing.T) {
	fixture := newFixture(Settings{Enabled: true, DurationDays: 7})
	ctx := context.Background()
	now := time.Now().Unix()

	seedEntry(t, fixture, "fresh@example.com", now-60)
	seedEntry(t, fixture, "stale@example.com", now-8*86400)
	seedEntry(t, fixture, "malformed@example.com", 0)

	require.NoError(t, fixture.cache.Prune(ctx))

	stored, err := fixture.store.Load(ctx)
	require.NoError(t, err)

	assert.Contains(t, stored, "fresh@example.com")
	assert.NotContains(t, stored, "stale@example.com")
	// Entries without a timestamp are skipped, not pruned.
	assert.Contains(t, stored, "malformed@example.com")
}

func TestPrune_Idempotent(t *testing.T) {
	fixture := newFixture(Settings{Enabled: true, DurationDays: 7})
	ctx := context.Background()
	now := time.Now().Unix()

	seedEntry(t, fixture, "fresh@example.com", now-60)
	seedEntry(t, fixture, "stale@example.com", now-8*86400)

	require.NoError(t, fixture.cache.Prune(ctx))
	first, err := fixture.store.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, fixture.cache.Prune(ctx))
	second, err := fixture.store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPrune_DisabledLeavesDataAndDeregisters(t *testing.T) {
	fixture := newFixture(Settings{Enabled: true, DurationDays: 7})
	ctx := context.Background()

	seedEntry(t, fixture, "stale@example.com", time.Now().Unix()-30*86400)

	fixture.cache.EnsureScheduled()
	fixture.settings.Enabled = false

	// Deregistration is idempotent: repeated prunes with caching off are
	// no-ops.
	require.NoError(t, fixture.cache.Prune(ctx))
	require.NoError(t, fixture.cache.Prune(ctx))

	stored, err := fixture.store.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, stored, "stale@example.com")
}

func TestEnsureScheduled_NoOpWhenDisabled(t *testing.T) {
	fixture := newFixture(Settings{Enabled: false})

	fixture.cache.EnsureScheduled()
	fixture.cache.Stop() // must not panic on an unscheduled cache
}

func TestPurge(t *testing.T) {
	fixture := newFixture(Settings{Enabled: true, DurationDays: 7})
	ctx := context.Background()

	seedEntry(t, fixture, "user@example.com", time.Now().Unix())
	fixture.cache.EnsureScheduled()

	require.NoError(t, fixture.cache.Purge(ctx))

	stored, err := fixture.store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestDomainCachingSharesVerdictAcrossMailboxes(t *testing.T) {
	fixture := newFixture(Settings{Enabled: true, DurationDays: 7, DomainCaching: true})
	ctx := context.Background()

	fixture.cache.Store(ctx, deliverableEnvelope("john.doe@example.com"))

	// A different mailbox on the same domain hits the cached verdict.
	assert.True(t, fixture.cache.IsFresh(ctx, "jane.doe@example.com"))

	env, ok := fixture.cache.Lookup(ctx, "jane.doe@example.com")
	require.True(t, ok)
	assert.True(t, env.FromCache)
}

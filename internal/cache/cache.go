// Package cache implements the verification result cache: a keyed store of
// verdicts with a day-granular lifetime, persisted wholesale in a single
// state-store slot and pruned on a schedule.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/skip405/kickbox-verifier/internal/core"
	"go.uber.org/zap"
)

const defaultDurationDays = 7

const secondsPerDay = 86400

// Settings control caching behaviour. They are re-read through a provider
// function so a configuration change takes effect without a restart.
type Settings struct {
	Enabled       bool
	DurationDays  int
	DomainCaching bool
}

// Cache maps a cache key derived from an email (or its domain) to a cached
// verdict with a creation timestamp.
type Cache struct {
	store     core.StateStore
	entries   core.EntryCache
	hooks     *core.Hooks
	logger    *zap.Logger
	settings  func() Settings
	pruneFreq time.Duration

	mu      sync.Mutex
	stopCh  chan struct{}
	running bool
}

// New creates a verification cache over the given state store. entries may
// be nil when no read-through layer is configured.
func New(
	store core.StateStore,
	entries core.EntryCache,
	hooks *core.Hooks,
	logger *zap.Logger,
	settings func() Settings,
	pruneFreq time.Duration,
) *Cache {
	return &Cache{
		store:     store,
		entries:   entries,
		hooks:     hooks,
		logger:    logger,
		settings:  settings,
		pruneFreq: pruneFreq,
	}
}

// KeyFor derives the cache key for an email address: the address itself, or
// just its domain when domain caching is enabled. Callers must pass an
// address containing "@" when domain caching is on; anything else yields an
// unusable empty key.
func (c *Cache) KeyFor(email string) string {
	key := email

	if c.settings().DomainCaching {
		parts := strings.Split(key, "@")
		if len(parts) < 2 {
			key = ""
		} else {
			key = parts[1]
		}
	}

	return c.hooks.FireCacheKey(email, key)
}

// Get retrieves the entry for a cache key. An empty result is a miss, not
// an error.
func (c *Cache) Get(ctx context.Context, key string) (*core.CacheEntry, bool) {
	if c.entries != nil {
		if entry, ok := c.entries.Get(ctx, key); ok {
			return entry, true
		}
	}

	stored, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Error("Failed to load verification cache", zap.Error(err))
		return nil, false
	}

	entry, ok := stored[key]
	if !ok {
		return nil, false
	}

	if c.entries != nil {
		c.entries.Set(ctx, key, entry, c.duration())
	}

	return &entry, true
}

// IsFresh reports whether a usable cached verdict exists for the submitted
// email. The boundary is inclusive: an entry exactly durationDays old is
// still fresh.
func (c *Cache) IsFresh(ctx context.Context, email string) bool {
	entry, ok := c.Get(ctx, c.KeyFor(email))
	if !ok || entry.Timestamp == 0 {
		return false
	}

	return time.Now().Unix()-entry.Timestamp <= c.durationSeconds()
}

// Lookup returns the cached envelope for the submitted email, tagged as
// coming from the cache.
func (c *Cache) Lookup(ctx context.Context, email string) (*core.VerificationEnvelope, bool) {
	entry, ok := c.Get(ctx, c.KeyFor(email))
	if !ok {
		return nil, false
	}

	env := entry.Verification
	env.FromCache = true

	return &env, true
}

// Store caches a fresh verification result. The key is derived from the
// provider-echoed address in the envelope body, not the submitted value, so
// provider-side normalization sticks. Existing entries are overwritten.
func (c *Cache) Store(ctx context.Context, env core.VerificationEnvelope) {
	if !c.settings().Enabled {
		return
	}
	if !env.Success || env.Data.Body == nil {
		return
	}

	key := c.KeyFor(env.Data.Body.Email)
	entry := core.CacheEntry{
		Key:          key,
		Verification: env,
		Timestamp:    time.Now().Unix(),
	}
	c.hooks.FireCacheItem(key, &entry)

	if c.entries != nil {
		c.entries.Set(ctx, key, entry, c.duration())
	}

	stored, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Error("Failed to load verification cache", zap.Error(err))
		return
	}
	if stored == nil {
		stored = make(map[string]core.CacheEntry)
	}

	stored[key] = entry

	if err := c.store.Save(ctx, stored); err != nil {
		c.logger.Error("Failed to store verification", zap.Error(err), zap.String("key", key))
	}
}

// Prune removes entries older than the caching duration. When caching is
// disabled it deregisters the prune schedule instead and leaves the stored
// data untouched. Entries without a timestamp are skipped rather than
// failing the sweep.
func (c *Cache) Prune(ctx context.Context) error {
	if !c.settings().Enabled {
		c.Deregister()
		return nil
	}

	stored, err := c.store.Load(ctx)
	if err != nil {
		return err
	}

	c.hooks.FireBeforePrune(stored)

	if len(stored) == 0 {
		return nil
	}

	now := time.Now().Unix()
	maxAge := c.durationSeconds()
	pruned := 0

	for key, entry := range stored {
		if entry.Timestamp == 0 {
			continue
		}
		if now-entry.Timestamp > maxAge {
			delete(stored, key)
			pruned++
		}
	}

	if err := c.store.Save(ctx, stored); err != nil {
		return err
	}

	c.logger.Debug("Pruned stale verifications", zap.Int("pruned", pruned))
	c.hooks.FireAfterPrune(stored)

	return nil
}

// Purge clears the stored verifications entirely and stops the prune
// schedule. Used on teardown.
func (c *Cache) Purge(ctx context.Context) error {
	c.Deregister()
	return c.store.Clear(ctx)
}

// EnsureScheduled starts the periodic prune loop if caching is enabled and
// no loop is running. Safe to call repeatedly.
func (c *Cache) EnsureScheduled() {
	if !c.settings().Enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}

	c.stopCh = make(chan struct{})
	c.running = true
	go c.pruneLoop(c.stopCh)

	c.logger.Info("Scheduled verification cache pruning", zap.Duration("frequency", c.pruneFreq))
}

// Deregister stops the periodic prune loop. A no-op if none is running.
func (c *Cache) Deregister() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}

	close(c.stopCh)
	c.running = false

	c.logger.Info("Deregistered verification cache pruning")
}

// Stop stops the prune schedule.
func (c *Cache) Stop() {
	c.Deregister()
}

func (c *Cache) pruneLoop(stopCh chan struct{}) {
	ticker := time.NewTicker(c.pruneFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Prune re-checks the enabled flag and deregisters this
			// loop when caching has been switched off.
			if err := c.Prune(context.Background()); err != nil {
				c.logger.Error("Failed to prune verification cache", zap.Error(err))
			}
		case <-stopCh:
			return
		}
	}
}

func (c *Cache) durationDays() int {
	days := c.settings().DurationDays
	if days <= 0 {
		days = defaultDurationDays
	}
	return days
}

func (c *Cache) durationSeconds() int64 {
	return int64(c.durationDays()) * secondsPerDay
}

func (c *Cache) duration() time.Duration {
	return time.Duration(c.durationDays()) * 24 * time.Hour
}

package factory

import (
	"fmt"

	"github.com/skip405/kickbox-verifier/internal/cache"
	"github.com/skip405/kickbox-verifier/internal/config"
	"github.com/skip405/kickbox-verifier/internal/core"
	"go.uber.org/zap"
)

// CacheFactory assembles the verification cache from its store, its
// optional read-through layer and the caching settings.
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCache creates the verification cache. The settings are read through
// a closure so flag changes in the configuration are picked up by the
// pruner without a restart.
func (f *CacheFactory) CreateCache(
	stateStore core.StateStore,
	entryCache core.EntryCache,
	hooks *core.Hooks,
) (*cache.Cache, error) {
	pruneFreq, err := f.cfg.GetDuration("cache.prune_frequency")
	if err != nil {
		return nil, fmt.Errorf("invalid cache prune frequency: %w", err)
	}

	cfg := f.cfg
	settings := func() cache.Settings {
		cacheCfg := cfg.GetCache()
		return cache.Settings{
			Enabled:       cacheCfg.Enabled,
			DurationDays:  cacheCfg.DurationDays,
			DomainCaching: cacheCfg.DomainCaching,
		}
	}

	return cache.New(stateStore, entryCache, hooks, f.logger, settings, pruneFreq), nil
}

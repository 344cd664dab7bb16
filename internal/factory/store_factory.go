package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skip405/kickbox-verifier/internal/adapters/store"
	"github.com/skip405/kickbox-verifier/internal/config"
	"github.com/skip405/kickbox-verifier/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates state stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStateStore creates a state store based on the configuration
func (f *StoreFactory) CreateStateStore() (core.StateStore, error) {
	cacheCfg := f.cfg.GetCache()

	switch cacheCfg.Store {
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cacheCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(cacheCfg.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(cacheCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported state store: %s", cacheCfg.Store)
	}
}

// CreateEntryCache creates the optional read-through entry cache. Returns
// nil when no redis address is configured.
func (f *StoreFactory) CreateEntryCache() core.EntryCache {
	addr := f.cfg.GetCache().RedisAddr
	if addr == "" {
		return nil
	}

	f.logger.Info("Using redis read-through entry cache", zap.String("addr", addr))
	return store.NewRedisEntryCache(addr, f.logger)
}

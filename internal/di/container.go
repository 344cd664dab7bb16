package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/skip405/kickbox-verifier/internal/adapters/httpapi"
	"github.com/skip405/kickbox-verifier/internal/adapters/kickbox"
	"github.com/skip405/kickbox-verifier/internal/cache"
	"github.com/skip405/kickbox-verifier/internal/config"
	"github.com/skip405/kickbox-verifier/internal/core"
	"github.com/skip405/kickbox-verifier/internal/factory"
	"github.com/skip405/kickbox-verifier/internal/logging"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register hooks registry
	if err := container.Provide(core.NewHooks); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}

	// Register state store and entry cache
	if err := container.Provide(func(f *factory.StoreFactory) (core.StateStore, error) {
		return f.CreateStateStore()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.StoreFactory) core.EntryCache {
		return f.CreateEntryCache()
	}); err != nil {
		return nil, err
	}

	// Register verification cache
	if err := container.Provide(func(
		f *factory.CacheFactory,
		stateStore core.StateStore,
		entryCache core.EntryCache,
		hooks *core.Hooks,
	) (*cache.Cache, error) {
		return f.CreateCache(stateStore, entryCache, hooks)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *cache.Cache) core.VerificationCache {
		return c
	}); err != nil {
		return nil, err
	}

	// Register Kickbox client
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.VerificationClient {
		kb := cfg.GetKickbox()
		return kickbox.NewClient(kb.APIKey, kb.BaseURL, logger)
	}); err != nil {
		return nil, err
	}

	// Register global settings, message resolver and interpreter
	if err := container.Provide(func(cfg *config.Config) core.GlobalSettings {
		return cfg.GetGlobalSettings()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(settings core.GlobalSettings, hooks *core.Hooks) *core.MessageResolver {
		return core.NewMessageResolver(settings.Messages, hooks)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewInterpreter); err != nil {
		return nil, err
	}

	// Register validator service
	if err := container.Provide(func(
		client core.VerificationClient,
		verificationCache core.VerificationCache,
		interpreter *core.Interpreter,
		hooks *core.Hooks,
		logger *zap.Logger,
		settings core.GlobalSettings,
		cfg *config.Config,
	) *core.ValidatorService {
		kb := cfg.GetKickbox()
		return core.NewValidatorService(
			client,
			verificationCache,
			interpreter,
			hooks,
			logger,
			settings,
			kb.APIKey,
			kb.TimeoutSeconds,
		)
	}); err != nil {
		return nil, err
	}

	// Register submission source
	if err := container.Provide(func(
		service *core.ValidatorService,
		logger *zap.Logger,
		cfg *config.Config,
	) core.SubmissionSource {
		return httpapi.NewServer(service, logger, cfg.GetServer().ListenAddress)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/skip405/kickbox-verifier/internal/cache"
	"github.com/skip405/kickbox-verifier/internal/core"
	"github.com/skip405/kickbox-verifier/internal/di"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	source core.SubmissionSource,
	verificationCache *cache.Cache,
	stateStore core.StateStore,
) error {
	defer logger.Sync()

	// Start the periodic cache pruning
	verificationCache.EnsureScheduled()

	// Start the submission source
	if err := source.Start(); err != nil {
		logger.Fatal("Failed to start submission source", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if err := source.Stop(); err != nil {
		logger.Error("Failed to stop submission source", zap.Error(err))
	}

	verificationCache.Stop()

	if err := stateStore.Close(); err != nil {
		logger.Error("Failed to close state store", zap.Error(err))
	}

	logger.Info("Shutdown complete")
	return nil
}

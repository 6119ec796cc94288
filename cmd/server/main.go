package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dementia-probability-mcp/internal/api"
	"github.com/dementia-probability-mcp/internal/config"
	"github.com/dementia-probability-mcp/internal/logging"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := logging.New(cfg.Logging, os.Stderr)
	logger.WithField("port", cfg.Server.Port).Info("Starting dementia probability API server")

	server := api.NewServer(configManager, logger)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

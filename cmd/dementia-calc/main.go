package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dementia-probability-mcp/internal/command"
	"github.com/dementia-probability-mcp/internal/config"
	"github.com/dementia-probability-mcp/internal/logging"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout carries only the result.
	logger := logging.New(*configManager.GetLoggingConfig(), os.Stderr)

	if err := command.NewCommand(os.Stdout, logger).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"expenselog/internal/backend"
	"expenselog/internal/cli"
	"expenselog/internal/core"
)

func main() {
	// Setup environment and logging
	cli.LoadEnvFile()
	logger := cli.SetupLogger("info")
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	ctx := context.Background()

	result, err := backend.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize persistence backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	// Load prior state. A failed load is reported, not fatal: the session
	// continues with whatever partial state was read.
	res, err := result.Store.Load(ctx)
	if err != nil {
		fmt.Printf("Error loading expenses: %v\n", err)
		logger.Error("Load failed", "error", err, "location", result.Location)
	}

	ledger := core.NewLedger(res.Expenses, res.Budget)
	session := cli.NewSession(ledger, result.Store, result.Location, os.Stdin, os.Stdout, logger)
	session.AnnounceLoad(res)
	session.Run(ctx)
}

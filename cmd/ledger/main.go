package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledger/internal/cli"
	"ledger/internal/core"
)

func main() {
	// Load .env file for local development (missing file is fine)
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	store, cleanup, err := cli.OpenLedger(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open ledger", "error", err, "backend", cfg.Backend)
		stop()
		os.Exit(1)
	}

	a := &app{
		store:   store,
		catalog: core.DefaultCatalog(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		now:     time.Now,
	}
	code := a.run(ctx, os.Args[1:])

	if err := cleanup(); err != nil {
		logger.Error("Failed to close backend", "error", err)
	}
	stop()
	os.Exit(code)
}

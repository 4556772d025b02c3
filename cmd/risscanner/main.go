package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"RISScanner/internal/app"
	"RISScanner/internal/config"
	"RISScanner/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	if len(cfg.Municipalities) == 0 {
		logger.Error("no municipalities configured, nothing to do")
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	application.Run(ctx)
}

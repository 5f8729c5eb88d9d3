package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"ludex/internal/catalog"
	"ludex/internal/config"
	"ludex/internal/daemon"
	"ludex/internal/logging"
	"ludex/internal/reconcile"
	"ludex/internal/scanner"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := catalog.Open(cfg)
	if err != nil {
		logger.Error("open catalog store", slog.Any("error", err))
		return
	}

	engine := reconcile.NewEngine(cfg, store, scanner.NewFromConfig(cfg), logger)

	d, err := daemon.New(cfg, store, engine, logger)
	if err != nil {
		logger.Error("create daemon", slog.Any("error", err))
		_ = store.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", slog.Any("error", err))
		return
	}

	<-ctx.Done()
	logger.Info("ludexd shutting down")
}

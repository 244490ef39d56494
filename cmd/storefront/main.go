package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/safar/go-storefront/internal/api"
	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/console"
	"github.com/safar/go-storefront/internal/coordinator"
	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/logging"
	"github.com/safar/go-storefront/internal/state"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	logger, err := logging.New(cfg.Log, "storefront")
	if err != nil {
		log.Fatalf("Build logger: %v", err)
	}
	defer logger.Sync()

	client, err := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	if err != nil {
		logger.Fatal("create api client", zap.Error(err))
	}

	bus := events.NewBus()
	if logger.Core().Enabled(zap.DebugLevel) {
		bus.SubscribeAll(events.DebugLogger(logger))
	}

	store := state.New(bus)
	c, err := coordinator.New(bus, store, coordinator.Options{
		API:       client,
		Out:       os.Stdout,
		Logger:    logger,
		AssetHost: cfg.API.CDNURL,
	})
	if err != nil {
		logger.Fatal("create coordinator", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c.Start(ctx)

	if err := console.NewShell(c, os.Stdout).Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		logger.Error("shell", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"tally/internal/cli"
	"tally/internal/services"
	"tally/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting recompute-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg.DBPath)
	defer store.Close()

	amqpClient := cli.InitAMQP(logger, cfg)
	var alerts services.AlertPublisher
	if amqpClient != nil {
		defer amqpClient.Close()
		alerts = amqpClient
	}

	engine := services.NewEngine(store, alerts)
	recomputer := worker.NewRecomputer(store, engine.Challenges, cfg.RecomputeInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Challenge recomputer configured",
		"interval", cfg.RecomputeInterval,
		"db_path", cfg.DBPath)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return recomputer.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Recompute-worker stopped with error", "error", err)
		return
	}
	logger.Info("Recompute-worker shutdown complete")
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"tally/internal/amqp"
	"tally/internal/cli"
	"tally/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting alert-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alert-worker")
		os.Exit(1)
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Consuming threshold alerts",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeAlertsWithRetry(ctx, worker.HandleAlert)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Alert-worker stopped with error", "error", err)
		return
	}
	logger.Info("Alert-worker shutdown complete")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"tally/internal/cli"
	"tally/internal/core"
	"tally/internal/services"
)

func main() {
	username := flag.String("username", "", "account to record against (required)")
	amount := flag.String("amount", "", "decimal amount, e.g. 12.34; negative records a credit (required)")
	category := flag.String("category", "", "category name (required)")
	date := flag.String("date", "", "date as YYYY-MM-DD (default today)")
	description := flag.String("description", "", "free-form description")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	if *username == "" || *amount == "" || *category == "" {
		fmt.Fprintln(os.Stderr, "usage: record -username NAME -amount 12.34 -category NAME [-date YYYY-MM-DD] [-description TEXT]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cents, err := core.ParseCents(*amount)
	if err != nil {
		logger.Error("Invalid amount", "error", err, "amount", *amount)
		os.Exit(2)
	}
	when := core.Today()
	if *date != "" {
		if when, err = core.ParseDate(*date); err != nil {
			logger.Error("Invalid date", "error", err, "date", *date)
			os.Exit(2)
		}
	}

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

	ctx := context.Background()
	session, err := engine.Users.Lookup(ctx, *username)
	if err != nil {
		logger.Error("Unknown user", "error", err, "username", *username)
		os.Exit(1)
	}

	id, err := engine.Ledger.Record(ctx, session, core.TransactionDraft{
		Amount:      core.Money{Cents: cents},
		Category:    *category,
		Date:        when,
		Description: *description,
	})
	if err != nil {
		logger.Error("Failed to record transaction", "error", err)
		os.Exit(1)
	}

	fmt.Printf("transaction %d recorded: %s in %s on %s\n",
		id, core.Money{Cents: cents}, *category, when)
}

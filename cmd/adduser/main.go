package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"tally/internal/cli"
	"tally/internal/services"
)

func main() {
	username := flag.String("username", "", "username for the new account (required)")
	credentialHash := flag.String("credential-hash", "", "opaque credential hash supplied by the identity layer (required)")
	email := flag.String("email", "", "email address")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	if *username == "" || *credentialHash == "" {
		fmt.Fprintln(os.Stderr, "usage: adduser -username NAME -credential-hash HASH [-email ADDR]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(logger)
	store := cli.InitStore(logger, cfg.DBPath)
	defer store.Close()

	engine := services.NewEngine(store, nil)

	session, err := engine.Users.Register(context.Background(), *username, *credentialHash, *email)
	if err != nil {
		logger.Error("Failed to register user", "error", err, "username", *username)
		os.Exit(1)
	}

	fmt.Printf("user %q created with id %d\n", session.Username, session.UserID)
}

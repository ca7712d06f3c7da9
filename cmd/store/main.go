package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpupo63/jhipster-sample-services/api"
	"github.com/rpupo63/jhipster-sample-services/config"
	"github.com/rpupo63/jhipster-sample-services/document"
	"github.com/rs/zerolog/log"
)

func main() {
	c := config.Load()
	config.SetupLogging(c)
	log.Info().Msg("Initializing store service...")

	ctx := context.Background()

	client, err := document.Connect(ctx, config.GetString(c, "MONGODB_URI", "mongodb://localhost:27017"))
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to MongoDB")
	}
	store := document.New(client, config.GetString(c, "MONGODB_DATABASE", "store"))
	defer store.Close(ctx)

	verifier, _, err := api.NewVerifierFromConfig(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring token verification")
	}

	server, err := api.NewServer(config.GetString(c, "APP_NAME", api.StoreAppName),
		api.WithConfig(c),
		api.WithVerifier(verifier),
		api.WithHealthCheck("mongo", store),
		api.WithProductRepository(store.ProductRepo()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	if err := server.Run(listenToInterrupt(), 30*time.Second); err != nil {
		log.Error().Err(err).Msg("Server stopped")
	}
}

// listenToInterrupt relays SIGINT and SIGTERM.
func listenToInterrupt() <-chan os.Signal {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	return c
}

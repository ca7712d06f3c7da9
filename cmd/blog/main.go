package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpupo63/jhipster-sample-services/api"
	"github.com/rpupo63/jhipster-sample-services/config"
	"github.com/rpupo63/jhipster-sample-services/graph"
	"github.com/rs/zerolog/log"
)

func main() {
	c := config.Load()
	config.SetupLogging(c)
	log.Info().Msg("Initializing blog service...")

	ctx := context.Background()

	executor, err := graph.NewExecutor(
		config.GetString(c, "NEO4J_URI", "bolt://localhost:7687"),
		config.GetString(c, "NEO4J_USERNAME", "neo4j"),
		config.GetString(c, "NEO4J_PASSWORD", ""),
		config.GetString(c, "NEO4J_DATABASE", "neo4j"),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating Neo4j driver")
	}
	defer executor.Close(ctx)

	if err := executor.Verify(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error connecting to Neo4j")
	}

	store := graph.New(executor)
	if err := store.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error running graph migrations")
	}

	verifier, _, err := api.NewVerifierFromConfig(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring token verification")
	}

	server, err := api.NewServer(config.GetString(c, "APP_NAME", api.BlogAppName),
		api.WithConfig(c),
		api.WithVerifier(verifier),
		api.WithHealthCheck("neo4j", store),
		api.WithBlogRepositories(api.BlogRepositories{
			Blogs: store.BlogRepo(),
			Posts: store.PostRepo(),
			Tags:  store.TagRepo(),
			Users: store.UserRepo(),
		}),
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

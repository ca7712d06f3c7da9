package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpupo63/jhipster-sample-services/api"
	"github.com/rpupo63/jhipster-sample-services/config"
	"github.com/rpupo63/jhipster-sample-services/database"
	"github.com/rpupo63/jhipster-sample-services/services"
	"github.com/rs/zerolog/log"
)

func main() {
	c := config.Load()
	config.SetupLogging(c)
	log.Info().Msg("Initializing gateway...")

	ctx := context.Background()

	db, err := database.Open(database.DSN(
		config.GetString(c, "DB_HOST", "localhost"),
		config.GetString(c, "DB_PORT", "5432"),
		config.GetString(c, "DB_USER", "gateway"),
		config.GetString(c, "DB_PASSWORD", ""),
		config.GetString(c, "DB_NAME", "gateway"),
		config.GetString(c, "DB_SSLMODE", "disable"),
	))
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	currentDB := database.New(db)
	defer currentDB.Close()

	if err := currentDB.AutoMigrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	verifier, provider, err := api.NewVerifierFromConfig(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring token verification")
	}

	var userInfo services.UserInfoFetcher
	if provider.UserInfoEndpoint != "" {
		userInfo = services.NewUserInfoClient(provider.UserInfoEndpoint, 10*time.Second)
	}
	userService := services.NewUserService(currentDB.UserRepo(), currentDB.AuthorityRepo(), userInfo)

	server, err := api.NewServer(config.GetString(c, "APP_NAME", api.GatewayAppName),
		api.WithConfig(c),
		api.WithVerifier(verifier),
		api.WithHealthCheck("db", currentDB),
		api.WithGatewayServices(api.GatewayServices{
			Accounts:    userService,
			Users:       currentDB.UserRepo(),
			Authorities: currentDB.AuthorityRepo(),
			Issuer:      provider.Issuer,
			ClientID:    config.GetString(c, "OAUTH2_CLIENT_ID", ""),
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

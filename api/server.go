package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/jhipster-sample-services/config"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// NewServer builds the HTTP server of one service. The routes mounted depend
// on the With* options given.
func NewServer(appName string, opts ...func(*router)) (Server, error) {
	startupTime := time.Now()
	opts = append([]func(*router){withAppName(appName), withStartupTime(startupTime)}, opts...)

	var configured router
	for _, opt := range opts {
		opt(&configured)
	}
	c := configured.config
	if c == nil {
		c = config.New()
		opts = append(opts, WithConfig(c))
	}
	if configured.blog == nil && configured.products == nil && configured.gateway == nil {
		return Server{}, fmt.Errorf("server %s has no service configured", appName)
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	handler := newRouter(opts...)

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      handler,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	appName     string
	startupTime time.Time
	verifier    TokenVerifier
	storeName   string
	store       Pinger

	blog     *BlogRepositories
	products ProductRepository
	gateway  *GatewayServices
}

func WithConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withAppName(appName string) func(*router) {
	return func(r *router) {
		r.appName = appName
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

// WithVerifier sets the bearer token verifier. Without one every request
// carrying a token is rejected.
func WithVerifier(verifier TokenVerifier) func(*router) {
	return func(r *router) {
		r.verifier = verifier
	}
}

// WithHealthCheck names the backing store pinged by the health endpoints.
func WithHealthCheck(name string, store Pinger) func(*router) {
	return func(r *router) {
		r.storeName = name
		r.store = store
	}
}

func WithBlogRepositories(repos BlogRepositories) func(*router) {
	return func(r *router) {
		r.blog = &repos
	}
}

func WithProductRepository(products ProductRepository) func(*router) {
	return func(r *router) {
		r.products = products
	}
}

func WithGatewayServices(services GatewayServices) func(*router) {
	return func(r *router) {
		r.gateway = &services
	}
}

func newRouter(opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	metrics := newHTTPMetrics(router.appName)
	chiRouter.Use(metrics.instrument)

	logFormat := config.GetString(router.config, "LOG_FORMAT", "console")
	chiRouter.Use(ColoredHTTPLoggingMiddleware(newRequestLogger(logFormat)))
	chiRouter.Use(securityHeaders(config.GetString(router.config, "CONTENT_SECURITY_POLICY", "")))

	// Apply CORS middleware
	acceptedOrigins := config.GetStrings(router.config, "ACCEPTED_ORIGINS", nil)
	if len(acceptedOrigins) > 0 {
		chiRouter.Use(CORSCheckMiddleware(router.appName, acceptedOrigins))
		chiRouter.Use(corsMiddleware(router.appName, acceptedOrigins))
	}

	security := newSecurityMiddleware(router.appName, router.verifier)
	chiRouter.Use(security.authenticate)

	handlers := initializeHandlers(&router)

	setupManagementRoutes(chiRouter, handlers, metrics.handler())
	setupAPIRoutes(chiRouter, handlers)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

// Run serves until the listener fails or a signal arrives on signals, and
// shuts down gracefully in the latter case. Listener errors are returned.
func (s Server) Run(signals <-chan os.Signal, timeout time.Duration) error {
	// Start still sends ErrServerClosed after a shutdown; the buffer keeps it
	// from blocking.
	errChannel := make(chan error, 1)
	go s.Start(errChannel)

	select {
	case err := <-errChannel:
		return err
	case sig := <-signals:
		log.Info().Msgf("Closing server: %v", sig)
	}

	s.ShutdownGracefully(timeout)
	return nil
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	statusUp   = "UP"
	statusDown = "DOWN"

	healthCheckTimeout = 5 * time.Second
)

type healthComponent struct {
	Status  string            `json:"status"`
	Details map[string]string `json:"details,omitempty"`
}

type healthStatus struct {
	Status     string                     `json:"status"`
	Components map[string]healthComponent `json:"components,omitempty"`
}

type appInfo struct {
	App         string    `json:"app"`
	StartupTime time.Time `json:"startupTime"`
	Uptime      string    `json:"uptime"`
}

type managementHandler struct {
	responder   Responder
	logger      zerolog.Logger
	appName     string
	startupTime time.Time
	storeName   string
	store       Pinger
}

func newManagementHandler(appName string, startupTime time.Time, storeName string, store Pinger) managementHandler {
	logger := log.With().Str("handlerName", "managementHandler").Logger()

	return managementHandler{
		responder:   NewResponder(logger, appName),
		logger:      logger,
		appName:     appName,
		startupTime: startupTime,
		storeName:   storeName,
		store:       store,
	}
}

// health pings the backing store and reports UP, or DOWN with 503.
func (h managementHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeHealth(w, h.check(r.Context()))
	}
}

// liveness only says the process is serving requests.
func (h managementHandler) liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeHealth(w, healthStatus{Status: statusUp})
	}
}

func (h managementHandler) readiness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeHealth(w, h.check(r.Context()))
	}
}

func (h managementHandler) check(ctx context.Context) healthStatus {
	if h.store == nil {
		return healthStatus{Status: statusUp}
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	component := healthComponent{Status: statusUp}
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Str("component", h.storeName).Msg("health check failed")
		component = healthComponent{Status: statusDown, Details: map[string]string{"error": err.Error()}}
	}

	return healthStatus{
		Status:     component.Status,
		Components: map[string]healthComponent{h.storeName: component},
	}
}

func (h managementHandler) writeHealth(w http.ResponseWriter, status healthStatus) {
	code := http.StatusOK
	if status.Status != statusUp {
		code = http.StatusServiceUnavailable
	}
	h.responder.WriteJSON(w, code, status)
}

func (h managementHandler) info() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, http.StatusOK, appInfo{
			App:         h.appName,
			StartupTime: h.startupTime,
			Uptime:      time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}

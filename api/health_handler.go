package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	db          pinger
	environment string
	startupTime time.Time
}

func newHealthHandler(db pinger, environment string, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger, true),
		logger:      logger,
		db:          db,
		environment: environment,
		startupTime: startupTime,
	}
}

// check reports 200 "ok" while the database answers and 503 "degraded" otherwise
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/health [get]
func (h healthHandler) check() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Environment: h.environment,
			Database:    "connected",
		}
		if !h.startupTime.IsZero() {
			response.Uptime = time.Since(h.startupTime).Round(time.Second).String()
		}

		status := http.StatusOK
		if err := h.db.Ping(r.Context()); err != nil {
			h.logger.Error().Err(err).Msg("Database ping failed")
			response.Status = "degraded"
			response.Database = "disconnected"
			status = http.StatusServiceUnavailable
		}

		h.responder.WriteJSON(w, status, response)
	}
}

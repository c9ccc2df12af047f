package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/student-showcase-backend/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	database    database.Database
	startupTime time.Time
}

func newHealthHandler(db database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		database:    db,
		startupTime: startupTime,
	}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	StartedAt time.Time `json:"startedAt"`
	Uptime    string    `json:"uptime"`
}

// health reports liveness. A failing database ping answers 503.
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "ok",
			Database:  "ok",
			StartedAt: h.startupTime,
			Uptime:    time.Since(h.startupTime).Round(time.Second).String(),
		}

		status := http.StatusOK
		if err := h.database.Ping(); err != nil {
			h.logger.Error().Err(err).Msg("database ping failed")
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}

		h.responder.writeJSON(w, status, resp)
	}
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/student-showcase-backend/errs"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.writeJSON(w, http.StatusOK, data)
}

func (r Responder) WriteCreated(w http.ResponseWriter, data any) {
	r.writeJSON(w, http.StatusCreated, data)
}

func (r Responder) writeJSON(w http.ResponseWriter, status int, data any) {
	// Marshal the data first to check size and handle errors
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Check if response is too large (e.g., > 10MB)
	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")

		status = http.StatusInternalServerError
		jsonData, _ = json.Marshal(ErrorResponse{
			Error:   "Response too large",
			Status:  "error",
			Details: "The requested data exceeds the maximum response size",
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:  "Internal Server Error",
			Status: "error",
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Int("status", apiErr.StatusCode).Msg("request failed")
	}

	response := ErrorResponse{
		Error:      apiErr.Error(),
		Status:     "error",
		Field:      apiErr.Field,
		Details:    apiErr.Details,
		Violations: apiErr.Violations,
	}

	// Add full error chain for debugging (especially useful for database errors)
	if apiErr.Cause != nil {
		response.Cause = apiErr.GetFullError()
	}

	r.writeJSON(w, apiErr.StatusCode, response)
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mkifle/portfolio-backend/errs"
)

const internalErrorMessage = "Internal server error"

type Responder struct {
	logger zerolog.Logger
	// hideDetails drops the error detail from 500 responses.
	hideDetails bool
}

func NewResponder(logger zerolog.Logger, hideDetails bool) Responder {
	return Responder{logger: logger, hideDetails: hideDetails}
}

// WriteJSON sets headers before the status line so Content-Type survives.
func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteData answers with {success: true, message?, data}.
func (r Responder) WriteData(w http.ResponseWriter, status int, message string, data any) {
	r.WriteJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WriteMessage answers with {success: true, message}.
func (r Responder) WriteMessage(w http.ResponseWriter, message string) {
	r.WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSON(w, http.StatusInternalServerError, Envelope{
			Message: internalErrorMessage,
			Error:   r.detail(err.Error()),
		})
		return
	}

	response := Envelope{Message: apiErr.Error()}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("internal error")
		response.Error = r.detail(apiErr.GetFullError())
	} else if len(apiErr.Fields) > 0 {
		response.Errors = apiErr.Fields
	}

	r.WriteJSON(w, apiErr.StatusCode, response)
}

func (r Responder) detail(msg string) string {
	if r.hideDetails {
		return ""
	}
	return msg
}

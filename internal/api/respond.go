package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/lueurxax/soundscape/internal/core/errors"
)

const (
	codeBadRequest    = "BAD_REQUEST"
	codeNotFound      = "NOT_FOUND"
	codeRateLimited   = "RATE_LIMITED"
	codeUnavailable   = "UPSTREAM_UNAVAILABLE"
	codeTimeout       = "TIMEOUT"
	codeInternal      = "INTERNAL_ERROR"
	codeBodyTooLarge  = "BODY_TOO_LARGE"
	msgInternalError  = "internal server error"
	contentTypeHeader = "Content-Type"
	contentTypeJSON   = "application/json"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorResponse struct {
	Error     errorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Set(contentTypeHeader, contentTypeJSON)
	w.WriteHeader(status)

	if _, err := w.Write(data); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("failed to write JSON response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	respondJSON(w, r, status, errorResponse{
		Error:     errorBody{Code: code, Message: message, Details: details},
		RequestID: requestIDFrom(r.Context()),
	})
}

func respondValidation(w http.ResponseWriter, r *http.Request, verr *RequestValidationError) {
	respondError(w, r, http.StatusBadRequest, codeValidation, verr.Error(), verr.Fields)
}

// respondServiceError maps service errors to HTTP statuses. Unexpected errors
// are logged and hidden from the client.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errors.ErrNoInput), errors.Is(err, errors.ErrInvalidInput):
		respondError(w, r, http.StatusBadRequest, codeBadRequest, err.Error(), nil)
	case errors.Is(err, errors.ErrItemNotFound):
		respondError(w, r, http.StatusNotFound, codeNotFound, err.Error(), nil)
	case errors.Is(err, errors.ErrCircuitBreakerOpen), errors.Is(err, errors.ErrRateLimited):
		respondError(w, r, http.StatusServiceUnavailable, codeUnavailable, "AI provider temporarily unavailable", nil)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, codeTimeout, "request timed out", nil)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respondError(w, r, http.StatusInternalServerError, codeInternal, msgInternalError, nil)
	}
}

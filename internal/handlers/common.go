package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lovenest-backend/internal/services"
	"lovenest-backend/internal/store"
)

var (
	errEmptyMessage       = errors.New("message text is empty")
	errUnknownMessageType = errors.New("unknown message type")
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// statusForError maps service and store failures to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, services.ErrNotLinked):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSelfLink),
		errors.Is(err, services.ErrInvalidDecision):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAlreadyLinked),
		errors.Is(err, services.ErrDuplicateRequest),
		errors.Is(err, services.ErrRequestClosed),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

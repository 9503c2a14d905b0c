package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fjod/go_commander/internal/domain"
	"github.com/fjod/go_commander/internal/repository"
	"github.com/fjod/go_commander/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Version string `json:"version,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError converts a service error into an HTTP error response.
// Unrecognised errors are logged and reported without detail.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrDeckNotFound),
		errors.Is(err, repository.ErrGameNotFound),
		errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, domain.ErrCardNotInDeck):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidCommander):
		respondError(w, http.StatusBadRequest, "invalid_commander", err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, domain.ErrInvalidPlayers),
		errors.Is(err, domain.ErrPlayerNotInGame):
		respondError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("[%s] request timed out: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusGatewayTimeout, "timeout", "upstream request timed out")
	case errors.Is(err, service.ErrUpstream):
		log.Printf("[%s] upstream error: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "upstream_error", "upstream service failure")
	default:
		log.Printf("[%s] internal error: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

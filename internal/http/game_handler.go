package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_commander/internal/domain"
	"github.com/go-chi/chi/v5"
)

type GameService interface {
	Create(ctx context.Context, players []string) (*domain.Game, error)
	AIDecision(ctx context.Context, gameID, playerID string) (*domain.AIDecision, error)
}

type GameHandler struct {
	games   GameService
	timeout time.Duration
}

func NewGameHandler(games GameService, timeout time.Duration) *GameHandler {
	return &GameHandler{
		games:   games,
		timeout: timeout,
	}
}

// Create expects a JSON array with the four player ids.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var players []string
	if err := json.NewDecoder(r.Body).Decode(&players); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON array of player ids")
		return
	}

	game, err := h.games.Create(ctx, players)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, game)
}

func (h *GameHandler) AIDecision(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		respondError(w, http.StatusBadRequest, "invalid_player_id", "player_id is required")
		return
	}

	decision, err := h.games.AIDecision(ctx, chi.URLParam(r, "id"), playerID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, decision)
}

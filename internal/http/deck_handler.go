package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_commander/internal/domain"
	"github.com/fjod/go_commander/internal/service"
	"github.com/go-chi/chi/v5"
)

type DeckService interface {
	Create(ctx context.Context, name, commanderID string) (*domain.Deck, error)
	List(ctx context.Context, limit int) ([]*domain.Deck, error)
	Get(ctx context.Context, deckID string) (*domain.Deck, error)
	AddCard(ctx context.Context, deckID, cardID string, quantity int) (*service.MutationResult, error)
	RemoveCard(ctx context.Context, deckID, cardID string, quantity int) (*service.MutationResult, error)
	Delete(ctx context.Context, deckID string) error
}

type DeckHandler struct {
	decks   DeckService
	timeout time.Duration
}

func NewDeckHandler(decks DeckService, timeout time.Duration) *DeckHandler {
	return &DeckHandler{
		decks:   decks,
		timeout: timeout,
	}
}

type CreateDeckRequestDTO struct {
	Name        string `json:"name"`
	CommanderID string `json:"commander_id,omitempty"`
}

func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateDeckRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}

	deck, err := h.decks.Create(ctx, req.Name, req.CommanderID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, deck)
}

func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	decks, err := h.decks.List(ctx, service.DefaultListLimit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if decks == nil {
		decks = []*domain.Deck{}
	}

	respondJSON(w, http.StatusOK, decks)
}

func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	deck, err := h.decks.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, deck)
}

func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cardID := r.URL.Query().Get("card_id")
	if cardID == "" {
		respondError(w, http.StatusBadRequest, "invalid_card_id", "card_id is required")
		return
	}
	quantity, ok := parseQuantity(w, r)
	if !ok {
		return
	}

	res, err := h.decks.AddCard(ctx, chi.URLParam(r, "id"), cardID, quantity)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, res)
}

func (h *DeckHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	quantity, ok := parseQuantity(w, r)
	if !ok {
		return
	}

	res, err := h.decks.RemoveCard(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "card_id"), quantity)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, res)
}

func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.decks.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Deck deleted successfully"})
}

// parseQuantity reads the optional quantity query parameter, default 1.
func parseQuantity(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("quantity")
	if raw == "" {
		return 1, true
	}
	q, err := strconv.Atoi(raw)
	if err != nil || q < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be a positive integer")
		return 0, false
	}
	return q, true
}

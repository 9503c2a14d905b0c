package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_commander/internal/service"
	"github.com/go-chi/chi/v5"
)

type CardService interface {
	GetCard(ctx context.Context, id string) (*service.CardView, error)
	Search(ctx context.Context, query string, limit int) ([]service.CardView, error)
}

type CommanderService interface {
	Recommend(ctx context.Context, colors, playstyle string) (*service.Recommendation, error)
}

type CardHandler struct {
	cards      CardService
	commanders CommanderService
	timeout    time.Duration
}

func NewCardHandler(cards CardService, commanders CommanderService, timeout time.Duration) *CardHandler {
	return &CardHandler{
		cards:      cards,
		commanders: commanders,
		timeout:    timeout,
	}
}

type SearchResponse struct {
	Cards []service.CardView `json:"cards"`
	Total int                `json:"total"`
}

func (h *CardHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, "invalid_query", "q is required")
		return
	}

	limit := service.DefaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil || l < 1 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = l
	}

	cards, err := h.cards.Search(ctx, q, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, &SearchResponse{Cards: cards, Total: len(cards)})
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	card, err := h.cards.GetCard(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, card)
}

func (h *CardHandler) RecommendCommanders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	rec, err := h.commanders.Recommend(ctx, r.URL.Query().Get("colors"), r.URL.Query().Get("playstyle"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

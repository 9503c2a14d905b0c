package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const APIVersion = "1.0"

type RouterConfig struct {
	Decks          *DeckHandler
	Cards          *CardHandler
	Games          *GameHandler
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter builds the chi router with global middleware and all API routes
// mounted under /api.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, MessageResponse{Message: "MTG Commander API Ready", Version: APIVersion})
		})

		r.Route("/decks", func(r chi.Router) {
			r.Post("/", cfg.Decks.Create)
			r.Get("/", cfg.Decks.List)
			r.Get("/{id}", cfg.Decks.Get)
			r.Put("/{id}/add-card", cfg.Decks.AddCard)
			r.Delete("/{id}/remove-card/{card_id}", cfg.Decks.RemoveCard)
			r.Delete("/{id}", cfg.Decks.Delete)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/search", cfg.Cards.Search)
			r.Get("/{id}", cfg.Cards.Get)
		})
		r.Get("/commanders/recommend", cfg.Cards.RecommendCommanders)

		r.Route("/games", func(r chi.Router) {
			r.Post("/", cfg.Games.Create)
			r.Get("/{id}/ai-decision", cfg.Games.AIDecision)
		})
	})

	return r
}

package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_commander/internal/domain"
)

var (
	ErrDeckNotFound = errors.New("deck not found")
	ErrGameNotFound = errors.New("game not found")
)

// DeckRepository stores whole deck documents keyed by id.
type DeckRepository interface {
	CreateDeck(ctx context.Context, deck *domain.Deck) error
	GetDeck(ctx context.Context, id string) (*domain.Deck, error)
	// ListDecks returns up to limit decks, newest first.
	ListDecks(ctx context.Context, limit int) ([]*domain.Deck, error)
	// ReplaceDeck overwrites the stored document with deck.
	ReplaceDeck(ctx context.Context, deck *domain.Deck) error
	DeleteDeck(ctx context.Context, id string) error
}

type GameRepository interface {
	CreateGame(ctx context.Context, game *domain.Game) error
	GetGame(ctx context.Context, id string) (*domain.Game, error)
}

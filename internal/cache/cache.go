package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_commander/internal/domain"
)

type DeckCache interface {
	Get(ctx context.Context, deckID string) (*domain.Deck, error)
	Set(ctx context.Context, deck *domain.Deck) error
	Delete(ctx context.Context, deckID string) error
}

var ErrCacheMiss = errors.New("cache miss")

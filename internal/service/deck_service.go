package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fjod/go_commander/internal/cache"
	"github.com/fjod/go_commander/internal/domain"
	"github.com/fjod/go_commander/internal/publisher"
	"github.com/fjod/go_commander/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const DefaultListLimit = 100

// CardLookup resolves a card id into a deck card snapshot.
type CardLookup interface {
	Lookup(ctx context.Context, id string) (*domain.CardRef, error)
}

// MutationResult is the deck after an add or remove, with its validation.
type MutationResult struct {
	Deck       *domain.Deck      `json:"deck"`
	Validation domain.Validation `json:"validation"`
}

type DeckService struct {
	repo   repository.DeckRepository
	cache  cache.DeckCache
	cards  CardLookup
	events publisher.Publisher
	locks  *keyedMutex
	sfg    singleflight.Group // Prevents cache stampede
	now    func() time.Time
	newID  func() string
}

// NewDeckService wires the deck service. events may be nil.
func NewDeckService(repo repository.DeckRepository, deckCache cache.DeckCache, cards CardLookup, events publisher.Publisher) *DeckService {
	if events == nil {
		events = publisher.Noop{}
	}
	return &DeckService{
		repo:   repo,
		cache:  deckCache,
		cards:  cards,
		events: events,
		locks:  newKeyedMutex(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Create stores a new deck. When commanderID is set the card must resolve to
// a legendary creature, otherwise nothing is stored.
func (s *DeckService) Create(ctx context.Context, name, commanderID string) (*domain.Deck, error) {
	deck := domain.NewDeck(s.newID(), name, s.now())

	if commanderID != "" {
		card, err := s.cards.Lookup(ctx, commanderID)
		if err != nil {
			return nil, err
		}
		if err := deck.SetCommander(*card); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateDeck(ctx, deck); err != nil {
		log.Printf("repo create deck error: %v \n", err)
		return nil, err
	}

	s.publish(publisher.DeckCreated, deck)
	return deck, nil
}

// List returns up to limit decks, newest first.
func (s *DeckService) List(ctx context.Context, limit int) ([]*domain.Deck, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return s.repo.ListDecks(ctx, limit)
}

func (s *DeckService) Get(ctx context.Context, deckID string) (*domain.Deck, error) {
	v, err, _ := s.sfg.Do(deckID, func() (interface{}, error) {
		deck, err := s.cache.Get(ctx, deckID)
		if err == nil {
			return deck, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		// fill under the deck lock: a mutation's invalidation must not be
		// overtaken by a Set of the older document
		unlock := s.locks.Lock(deckID)
		defer unlock()

		deck, err = s.repo.GetDeck(ctx, deckID)
		if err != nil {
			return nil, err
		}

		if errSet := s.cache.Set(ctx, deck); errSet != nil {
			log.Printf("cache set error: %v \n", errSet)
		}

		return deck, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Deck), nil
}

// AddCard adds quantity copies of cardID to the deck and returns the updated
// deck with its validation report.
func (s *DeckService) AddCard(ctx context.Context, deckID, cardID string, quantity int) (*MutationResult, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	return s.mutate(ctx, deckID, func(deck *domain.Deck) error {
		card, err := s.cards.Lookup(ctx, cardID)
		if err != nil {
			return err
		}
		return deck.AddCard(*card, quantity)
	})
}

// RemoveCard removes quantity copies of cardID from the deck.
func (s *DeckService) RemoveCard(ctx context.Context, deckID, cardID string, quantity int) (*MutationResult, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	return s.mutate(ctx, deckID, func(deck *domain.Deck) error {
		return deck.RemoveCard(cardID, quantity)
	})
}

// mutate runs one read-modify-write cycle under the deck's lock. fn works on
// a copy, so a failure leaves the stored deck untouched.
func (s *DeckService) mutate(ctx context.Context, deckID string, fn func(*domain.Deck) error) (*MutationResult, error) {
	unlock := s.locks.Lock(deckID)
	defer unlock()

	stored, err := s.repo.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	deck := stored.Clone()
	if err := fn(deck); err != nil {
		return nil, err
	}
	deck.UpdatedAt = s.now()

	if err := s.repo.ReplaceDeck(ctx, deck); err != nil {
		log.Printf("repo replace deck error: %v \n", err)
		return nil, err
	}

	invalidateCache(s, deckID)
	s.publish(publisher.DeckUpdated, deck)

	return &MutationResult{Deck: deck, Validation: deck.Validate()}, nil
}

func (s *DeckService) Delete(ctx context.Context, deckID string) error {
	unlock := s.locks.Lock(deckID)
	defer unlock()

	if err := s.repo.DeleteDeck(ctx, deckID); err != nil {
		log.Printf("repo delete deck error: %v \n", err)
		return err
	}

	invalidateCache(s, deckID)
	s.publish(publisher.DeckDeleted, &domain.Deck{ID: deckID})
	return nil
}

func (s *DeckService) publish(t publisher.EventType, deck *domain.Deck) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ev := publisher.DeckEvent{
		Type:       t,
		DeckID:     deck.ID,
		TotalCards: deck.TotalCards,
		PowerLevel: deck.PowerLevel,
		Valid:      t != publisher.DeckDeleted && deck.Validate().Valid,
		OccurredAt: s.now(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Printf("publish %s error: %v \n", t, err)
	}
}

func invalidateCache(s *DeckService, deckID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, deckID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}

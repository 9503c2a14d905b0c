package service

import (
	"context"
	"sync"

	"github.com/fjod/go_commander/internal/cache"
	"github.com/fjod/go_commander/internal/domain"
	"github.com/fjod/go_commander/internal/publisher"
	"github.com/fjod/go_commander/internal/repository"
	"github.com/fjod/go_commander/internal/scryfall"
)

type mockDeckRepository struct {
	m       sync.RWMutex
	decks   map[string]*domain.Deck
	err     error
	reads   int
	writes  int
	created int
}

func newMockDeckRepository(decks ...*domain.Deck) *mockDeckRepository {
	m := &mockDeckRepository{decks: make(map[string]*domain.Deck)}
	for _, d := range decks {
		m.decks[d.ID] = d.Clone()
	}
	return m
}

func (m *mockDeckRepository) CreateDeck(_ context.Context, deck *domain.Deck) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.created++
	m.decks[deck.ID] = deck.Clone()
	return nil
}

func (m *mockDeckRepository) GetDeck(_ context.Context, id string) (*domain.Deck, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.decks[id]
	if !ok {
		return nil, repository.ErrDeckNotFound
	}
	return d.Clone(), nil
}

func (m *mockDeckRepository) ListDecks(_ context.Context, limit int) ([]*domain.Deck, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.Deck, 0, len(m.decks))
	for _, d := range m.decks {
		if len(out) == limit {
			break
		}
		out = append(out, d.Clone())
	}
	return out, nil
}

func (m *mockDeckRepository) ReplaceDeck(_ context.Context, deck *domain.Deck) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.writes++
	if m.err != nil {
		return m.err
	}
	if _, ok := m.decks[deck.ID]; !ok {
		return repository.ErrDeckNotFound
	}
	m.decks[deck.ID] = deck.Clone()
	return nil
}

func (m *mockDeckRepository) DeleteDeck(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.decks[id]; !ok {
		return repository.ErrDeckNotFound
	}
	delete(m.decks, id)
	return nil
}

func (m *mockDeckRepository) deck(id string) *domain.Deck {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.decks[id]
}

func (m *mockDeckRepository) counts() (reads, writes int) {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.reads, m.writes
}

type mockCache struct {
	m       sync.RWMutex
	deck    *domain.Deck
	err     error
	deletes int

	// when setGate is non-nil Set signals setStarted and waits for the gate
	setStarted chan struct{}
	setGate    chan struct{}
}

func (m *mockCache) blockSet() (started <-chan struct{}) {
	m.m.Lock()
	defer m.m.Unlock()
	m.setStarted = make(chan struct{}, 1)
	m.setGate = make(chan struct{})
	return m.setStarted
}

func (m *mockCache) releaseSet() {
	m.m.Lock()
	defer m.m.Unlock()
	close(m.setGate)
	m.setStarted, m.setGate = nil, nil
}

func (m *mockCache) Get(context.Context, string) (*domain.Deck, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.deck == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.deck, nil
}

func (m *mockCache) Set(_ context.Context, deck *domain.Deck) error {
	m.m.RLock()
	started, gate := m.setStarted, m.setGate
	m.m.RUnlock()
	if gate != nil {
		started <- struct{}{}
		<-gate
	}

	m.m.Lock()
	defer m.m.Unlock()
	m.deck = deck
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deletes++
	m.deck = nil
	return m.err
}

func (m *mockCache) getDeck() *domain.Deck {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.deck
}

type mockLookup struct {
	m     sync.Mutex
	cards map[string]domain.CardRef
	err   error
	calls int
}

func (m *mockLookup) Lookup(_ context.Context, id string) (*domain.CardRef, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.cards[id]
	if !ok {
		return nil, ErrCardNotFound
	}
	return &c, nil
}

type mockPublisher struct {
	m      sync.Mutex
	events []publisher.DeckEvent
}

func (m *mockPublisher) Publish(_ context.Context, ev publisher.DeckEvent) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) types() []publisher.EventType {
	m.m.Lock()
	defer m.m.Unlock()
	out := make([]publisher.EventType, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev.Type)
	}
	return out
}

type mockCompleter struct {
	m      sync.Mutex
	reply  string
	err    error
	system string
	prompt string
}

func (m *mockCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.system = system
	m.prompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

type mockGameRepository struct {
	m     sync.Mutex
	games map[string]*domain.Game
	err   error
}

func (m *mockGameRepository) CreateGame(_ context.Context, g *domain.Game) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.games == nil {
		m.games = make(map[string]*domain.Game)
	}
	m.games[g.ID] = g
	return nil
}

func (m *mockGameRepository) GetGame(_ context.Context, id string) (*domain.Game, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	g, ok := m.games[id]
	if !ok {
		return nil, repository.ErrGameNotFound
	}
	return g, nil
}

type mockScryfall struct {
	m        sync.Mutex
	cards    map[string]*scryfall.Card
	search   *scryfall.SearchResult
	err      error
	getCalls int
}

func (m *mockScryfall) GetCard(_ context.Context, id string) (*scryfall.Card, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.cards[id]
	if !ok {
		return nil, &scryfall.NotFoundError{URL: "/cards/" + id}
	}
	return c, nil
}

func (m *mockScryfall) SearchCards(context.Context, string) (*scryfall.SearchResult, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.search, nil
}

func (m *mockScryfall) calls() int {
	m.m.Lock()
	defer m.m.Unlock()
	return m.getCalls
}

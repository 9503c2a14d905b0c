package poller

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/fjod/go_commander/internal/cache"
	"github.com/fjod/go_commander/internal/publisher"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Poller consumes deck events and drops the cached copy of the named deck.
// It backs up the synchronous invalidation done on the write path, which
// only logs when Redis is unavailable.
type Poller struct {
	reader messageReader
	cache  cache.DeckCache
}

func NewPoller(deckCache cache.DeckCache, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    publisher.DeckEventsTopic,
		GroupID:  "deck-cache-invalidator",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{reader: reader, cache: deckCache}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.invalidateNext(ctx)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		log.Printf("error closing reader: %v", err)
	}
}

func (p *Poller) invalidateNext(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("error reading message: %v", err)
		}
		return
	}

	var event publisher.DeckEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.Printf("error parsing message: %v", err)
		return
	}
	if event.DeckID == "" {
		log.Println("missing deck_id in deck event")
		return
	}

	if err := p.cache.Delete(ctx, event.DeckID); err != nil {
		log.Printf("failed to invalidate cached deck %s: %v", event.DeckID, err)
	}
}

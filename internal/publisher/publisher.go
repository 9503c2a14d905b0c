package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const DeckEventsTopic = "deck-events"

type EventType string

const (
	DeckCreated EventType = "deck.created"
	DeckUpdated EventType = "deck.updated"
	DeckDeleted EventType = "deck.deleted"
)

// DeckEvent announces that a stored deck changed.
type DeckEvent struct {
	Type       EventType `json:"event_type"`
	DeckID     string    `json:"deck_id"`
	TotalCards int       `json:"total_cards"`
	PowerLevel int       `json:"power_level"`
	Valid      bool      `json:"valid"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event DeckEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes deck events keyed by deck id so events of one deck
// keep their order within a partition.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  DeckEventsTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event DeckEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal deck event failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.DeckID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish deck event failed: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop is used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, DeckEvent) error { return nil }
func (Noop) Close() error { return nil }

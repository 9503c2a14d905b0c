package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_commander/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDeckRepository struct {
	collection *mongo.Collection
}

func NewMongoDeckRepository(db *mongo.Database) DeckRepository {
	return &mongoDeckRepository{
		collection: db.Collection("decks"),
	}
}

func (m *mongoDeckRepository) CreateDeck(ctx context.Context, deck *domain.Deck) error {
	if _, err := m.collection.InsertOne(ctx, deck); err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}
	return nil
}

func (m *mongoDeckRepository) GetDeck(ctx context.Context, id string) (*domain.Deck, error) {
	var deck domain.Deck

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&deck)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}

	return &deck, nil
}

func (m *mongoDeckRepository) ListDecks(ctx context.Context, limit int) ([]*domain.Deck, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer cursor.Close(ctx)

	decks := make([]*domain.Deck, 0)
	if err := cursor.All(ctx, &decks); err != nil {
		return nil, fmt.Errorf("failed to decode decks: %w", err)
	}

	return decks, nil
}

func (m *mongoDeckRepository) ReplaceDeck(ctx context.Context, deck *domain.Deck) error {
	result, err := m.collection.ReplaceOne(ctx, bson.M{"_id": deck.ID}, deck)
	if err != nil {
		return fmt.Errorf("failed to replace deck: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrDeckNotFound
	}

	return nil
}

func (m *mongoDeckRepository) DeleteDeck(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrDeckNotFound
	}

	return nil
}

func (m *mongoDeckRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// CreateIndexes creates the indexes used by ListDecks.
func CreateIndexes(ctx context.Context, repo DeckRepository) error {
	if r, ok := repo.(*mongoDeckRepository); ok {
		return r.CreateIndexes(ctx)
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_commander/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoGameRepository struct {
	collection *mongo.Collection
}

func NewMongoGameRepository(db *mongo.Database) GameRepository {
	return &mongoGameRepository{
		collection: db.Collection("games"),
	}
}

func (m *mongoGameRepository) CreateGame(ctx context.Context, game *domain.Game) error {
	if _, err := m.collection.InsertOne(ctx, game); err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (m *mongoGameRepository) GetGame(ctx context.Context, id string) (*domain.Game, error) {
	var game domain.Game

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&game)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &game, nil
}

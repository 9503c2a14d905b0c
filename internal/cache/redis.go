package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/go_commander/internal/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, deckID string) (*domain.Deck, error) {
	data, err := r.client.Get(ctx, cacheKey(deckID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var deck domain.Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("unmarshal deck failed: %w", err)
	}

	return &deck, nil
}

func (r *RedisCache) Set(ctx context.Context, deck *domain.Deck) error {
	data, err := json.Marshal(deck)
	if err != nil {
		return fmt.Errorf("marshal deck failed: %w", err)
	}

	// jitter spreads expiry of decks cached at the same moment
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, cacheKey(deck.ID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, deckID string) error {
	if err := r.client.Del(ctx, cacheKey(deckID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(deckID string) string {
	return fmt.Sprintf("deck:%s", deckID)
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/pkg/cache"
	"github.com/redis/go-redis/v9"
)

// RedisCartStore keeps each cart as one JSON value with a sliding TTL, so an
// abandoned terminal session expires on its own.
type RedisCartStore struct {
	redis *cache.RedisClient
	ttl   time.Duration
}

func NewRedisCartStore(redisClient *cache.RedisClient, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{
		redis: redisClient,
		ttl:   ttl,
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (*model.Cart, error) {
	data, err := s.redis.Client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", sessionID, err)
	}
	return &cart, nil
}

func (s *RedisCartStore) Save(ctx context.Context, cart *model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.redis.Client.Set(ctx, cartKey(cart.SessionID), data, s.ttl).Err()
}

func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	return s.redis.Client.Del(ctx, cartKey(sessionID)).Err()
}

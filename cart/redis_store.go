package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"food-ordering-api/apperr"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each cart as a JSON document under Key(userID, shopID).
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, userID, shopID uint) (*Cart, error) {
	raw, err := s.client.Get(ctx, Key(userID, shopID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Cart{UserID: userID, ShopID: shopID, Lines: []Line{}}, nil
	}
	if err != nil {
		return nil, apperr.RemoteUnavailable(err, "cart store unavailable")
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, apperr.Internal(err, "corrupt cart")
	}
	if c.Lines == nil {
		c.Lines = []Line{}
	}
	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, c *Cart) error {
	if c.Empty() {
		return s.Clear(ctx, c.UserID, c.ShopID)
	}
	c.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(c)
	if err != nil {
		return apperr.Internal(err, "encode cart")
	}
	if err := s.client.Set(ctx, Key(c.UserID, c.ShopID), raw, s.ttl).Err(); err != nil {
		return apperr.RemoteUnavailable(err, "cart store unavailable")
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID, shopID uint) error {
	if err := s.client.Del(ctx, Key(userID, shopID)).Err(); err != nil {
		return apperr.RemoteUnavailable(err, "cart store unavailable")
	}
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/driveshop/backend/internal/domain/ordering"
	"github.com/redis/go-redis/v9"
)

// DefaultGuestCartTTL is how long an untouched guest cart survives
const DefaultGuestCartTTL = 14 * 24 * time.Hour

// RedisCartStore implements ordering.CartStore using Redis. It backs
// guest carts, keyed by the visitor's session ID, so an anonymous cart
// survives across requests without touching the database.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCartStore creates a Redis-backed cart store with an existing client
func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	if ttl <= 0 {
		ttl = DefaultGuestCartTTL
	}
	return &RedisCartStore{
		client:    client,
		keyPrefix: "cart:guest:",
		ttl:       ttl,
	}
}

// Get loads the cart for the owner, returning an empty cart when none exists
func (s *RedisCartStore) Get(ctx context.Context, owner string) (*ordering.Cart, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+owner).Bytes()
	if errors.Is(err, redis.Nil) {
		return ordering.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart ordering.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &cart, nil
}

// Save replaces the owner's cart and refreshes its TTL
func (s *RedisCartStore) Save(ctx context.Context, owner string, cart *ordering.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.client.Set(ctx, s.keyPrefix+owner, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Clear removes the owner's cart
func (s *RedisCartStore) Clear(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, s.keyPrefix+owner).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Ensure RedisCartStore implements CartStore
var _ ordering.CartStore = (*RedisCartStore)(nil)

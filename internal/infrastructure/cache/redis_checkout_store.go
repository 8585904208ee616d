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

// DefaultCheckoutTTL is how long an abandoned checkout keeps its state
const DefaultCheckoutTTL = 2 * time.Hour

// RedisCheckoutStore implements ordering.CheckoutStore using Redis.
// Checkout state is transient, it only has to outlive the few minutes
// between the contact step and payment.
type RedisCheckoutStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCheckoutStore creates a Redis-backed checkout store with an existing client
func NewRedisCheckoutStore(client *redis.Client, ttl time.Duration) *RedisCheckoutStore {
	if ttl <= 0 {
		ttl = DefaultCheckoutTTL
	}
	return &RedisCheckoutStore{
		client:    client,
		keyPrefix: "checkout:state:",
		ttl:       ttl,
	}
}

// Get loads the state, returning an empty state when none exists
func (s *RedisCheckoutStore) Get(ctx context.Context, userID string) (*ordering.CheckoutState, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return &ordering.CheckoutState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout state: %w", err)
	}

	var state ordering.CheckoutState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode checkout state: %w", err)
	}
	return &state, nil
}

// Save replaces the state and refreshes its TTL
func (s *RedisCheckoutStore) Save(ctx context.Context, userID string, state *ordering.CheckoutState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode checkout state: %w", err)
	}

	if err := s.client.Set(ctx, s.keyPrefix+userID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save checkout state: %w", err)
	}
	return nil
}

// Clear removes the state
func (s *RedisCheckoutStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to clear checkout state: %w", err)
	}
	return nil
}

// Ensure RedisCheckoutStore implements CheckoutStore
var _ ordering.CheckoutStore = (*RedisCheckoutStore)(nil)

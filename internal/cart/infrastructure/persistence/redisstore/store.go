// Package redisstore persists carts in Redis as JSON under a fixed key
// prefix, expiring them after the configured TTL.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/floresya/floresya/internal/cart/domain"
)

const keyPrefix = "floresya:cart:"

// KV is the subset of the Redis wrapper the store needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

type cartStore struct {
	kv  KV
	ttl time.Duration
}

func NewCartStore(kv KV, ttl time.Duration) domain.CartStore {
	return &cartStore{kv: kv, ttl: ttl}
}

func cartKey(cartID string) string {
	return keyPrefix + cartID
}

func (s *cartStore) Load(ctx context.Context, cartID string) (*domain.Cart, error) {
	raw, err := s.kv.Get(ctx, cartKey(cartID))
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if raw == "" {
		return nil, domain.ErrCartNotFound
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	// Sliding expiration: a cart stays alive as long as it is being read.
	if err := s.kv.Expire(ctx, cartKey(cartID), s.ttl); err != nil {
		return nil, fmt.Errorf("failed to refresh cart ttl: %w", err)
	}
	return &cart, nil
}

func (s *cartStore) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	return s.kv.Set(ctx, cartKey(cart.ID), string(data), s.ttl)
}

func (s *cartStore) Delete(ctx context.Context, cartID string) error {
	return s.kv.Delete(ctx, cartKey(cartID))
}

// Package session persists guest checkout payloads in Redis with a session
// TTL.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/floresya/floresya/internal/checkout/domain"
)

const keyPrefix = "floresya:guest-checkout:"

// KV is the subset of the Redis wrapper the store needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type guestSessionStore struct {
	kv  KV
	ttl time.Duration
}

func NewGuestSessionStore(kv KV, ttl time.Duration) domain.GuestSessionStore {
	return &guestSessionStore{kv: kv, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *guestSessionStore) Save(ctx context.Context, sessionID string, info domain.GuestCheckoutInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode guest session: %w", err)
	}
	return s.kv.Set(ctx, sessionKey(sessionID), string(data), s.ttl)
}

func (s *guestSessionStore) Consume(ctx context.Context, sessionID string) (*domain.GuestCheckoutInfo, error) {
	raw, err := s.kv.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to read guest session: %w", err)
	}
	if raw == "" {
		return nil, domain.ErrGuestSessionNotFound
	}

	var info domain.GuestCheckoutInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, fmt.Errorf("failed to decode guest session: %w", err)
	}

	// Single use: the payment step is the only consumer.
	if err := s.kv.Delete(ctx, sessionKey(sessionID)); err != nil {
		return nil, err
	}
	return &info, nil
}

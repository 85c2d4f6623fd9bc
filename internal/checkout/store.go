package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seatly/internal/shared/constants"
	"seatly/pkg/cache"
)

// ErrSessionNotFound is returned when no checkout session exists for the id.
var ErrSessionNotFound = errors.New("checkout session not found")

// Store persists checkout sessions between requests.
type Store interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, checkoutID string) (*Session, error)
	Delete(ctx context.Context, checkoutID string) error
}

type redisStore struct {
	cache cache.Service
	ttl   time.Duration
}

// NewRedisStore stores sessions in Redis. The TTL outlives the 5-minute hold
// so a session survives hold expiry and can restart at step 1.
func NewRedisStore(cacheService cache.Service, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &redisStore{cache: cacheService, ttl: ttl}
}

func (s *redisStore) Save(ctx context.Context, session *Session) error {
	key := constants.BuildCheckoutSessionKey(session.ID.String())
	if err := s.cache.Set(ctx, key, session, s.ttl); err != nil {
		return fmt.Errorf("failed to save checkout session: %w", err)
	}
	return nil
}

func (s *redisStore) Load(ctx context.Context, checkoutID string) (*Session, error) {
	key := constants.BuildCheckoutSessionKey(checkoutID)
	var session Session
	if err := s.cache.Get(ctx, key, &session); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}
	return &session, nil
}

func (s *redisStore) Delete(ctx context.Context, checkoutID string) error {
	key := constants.BuildCheckoutSessionKey(checkoutID)
	if err := s.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete checkout session: %w", err)
	}
	return nil
}

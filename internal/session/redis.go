package session

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasrodor/projeto-financeiro/pkg/redis"
)

// RedisStore keeps sessions as JSON in Redis, refreshed with a TTL on save
type RedisStore struct {
	cache *redis.Cache
	ttl   time.Duration
}

// NewRedisStore creates a store on top of an enabled cache
func NewRedisStore(cache *redis.Cache, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: cache, ttl: ttl}
}

// Get retrieves a session
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	found, err := r.cache.Get(ctx, redis.SessionKey(id), &s)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return &s, nil
}

// Save stores the session
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = time.Now()
	if err := r.cache.Set(ctx, redis.SessionKey(s.ID), s, r.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

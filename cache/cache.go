// Package cache is a thin TTL key-value adapter over Redis. Every
// one-time artifact of the auth subsystem (login session, sign-up code,
// refresh token) lives here under its own key with a store-native TTL,
// and is consumed through FetchDel so that a single Redis round trip
// both reads and invalidates it.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent or already expired.
var ErrCacheMiss = errors.New("cache miss")

// ErrCacheUnavailable wraps Redis transport failures.
var ErrCacheUnavailable = errors.New("cache unavailable")

// Store wraps a Redis client with a key prefix.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a [Store] namespaced by prefix.
func NewStore(redis redis.UniversalClient, prefix string) *Store {
	return &Store{
		redis:  redis,
		prefix: prefix,
	}
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// SetWithTTL writes value under key with the given lifetime.
func (s *Store) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// Get reads the value under key without consuming it.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.redis.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return value, nil
}

// FetchDel reads and deletes the value under key in one atomic GETDEL.
// Concurrent callers see at most one success; everyone else gets
// [ErrCacheMiss]. This is the single-use guarantee for login sessions,
// sign-up codes, and refresh tokens.
func (s *Store) FetchDel(ctx context.Context, key string) (string, error) {
	value, err := s.redis.GetDel(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return value, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

package redisrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chakhaeng/auth-server/token/refresh"
)

var _ refresh.Store = (*Store)(nil)

// Store implements refresh.Store backed by Redis, for deployments with more
// than one service instance. Expiry is delegated to Redis key TTLs, so the
// stored-expiry check costs nothing beyond the key lookup.
type Store struct {
	client redis.UniversalClient
}

// NewStore constructs a Redis-backed refresh token store.
func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

func key(userID, token string) string {
	return fmt.Sprintf("refresh:%s:%s", userID, token)
}

// Save upserts the (userID, token) record with the given TTL. Saving the
// same pair again resets the TTL, matching upsert semantics.
func (s *Store) Save(ctx context.Context, userID, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key(userID, token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("persist refresh token: %w", err)
	}
	return nil
}

// IsValid reports whether the exact pair is present and unexpired.
func (s *Store) IsValid(ctx context.Context, userID, token string) (bool, error) {
	n, err := s.client.Exists(ctx, key(userID, token)).Result()
	if err != nil {
		return false, fmt.Errorf("lookup refresh token: %w", err)
	}
	return n == 1, nil
}

// Revoke deletes the record; a missing record is not an error.
func (s *Store) Revoke(ctx context.Context, userID, token string) error {
	if err := s.client.Del(ctx, key(userID, token)).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

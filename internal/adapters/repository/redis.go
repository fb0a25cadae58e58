package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/incluscore/incluscore/internal/domain/model"
)

// defaultKeyPrefix namespaces user records in a shared Redis.
const defaultKeyPrefix = "incluscore:user:"

// RedisStore implements Store on top of Redis, one JSON document per user.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore connects to Redis at url and verifies the connection with a
// ping before returning.
func NewRedisStore(ctx context.Context, url string, opts ...RedisOption) (*RedisStore, error) {
	ropts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(ropts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis ping: %w", ErrUnavailable, err)
	}

	s := &RedisStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RedisOption applies a configuration option to the RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix overrides the key namespace.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// LoadState returns the stored state for a user.
func (s *RedisStore) LoadState(ctx context.Context, userID string) (model.UserFinancialState, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.UserFinancialState{}, ErrNotFound
	}
	if err != nil {
		return model.UserFinancialState{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var state model.UserFinancialState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.UserFinancialState{}, fmt.Errorf("%w: corrupt record for %s: %w", ErrUnavailable, userID, err)
	}
	return state, nil
}

// SaveState persists the state as the user's new baseline.
func (s *RedisStore) SaveState(ctx context.Context, state model.UserFinancialState) error {
	state.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state for %s: %w", state.UserID, err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+state.UserID, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Healthy reports whether Redis answers a ping.
func (s *RedisStore) Healthy(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}

// Count returns the number of user records under the key prefix.
func (s *RedisStore) Count(ctx context.Context) int {
	count := 0
	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if iter.Err() != nil {
		return 0
	}
	return count
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

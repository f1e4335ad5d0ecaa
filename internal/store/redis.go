// internal/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"character-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "generation:"

// RedisStore keeps each result as a JSON string under <prefix><id>.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisStore uses DefaultKeyPrefix when prefix is empty. A zero ttl keeps
// results forever.
func NewRedisStore(client redis.Cmdable, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Put(ctx context.Context, id string, result *models.GenerationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStoreFailure, id, err)
	}

	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %v", ErrStoreFailure, id, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.GenerationResult, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis get %s: %v", ErrStoreFailure, id, err)
	}

	var result models.GenerationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStoreFailure, id, err)
	}
	return &result, nil
}

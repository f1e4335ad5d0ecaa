// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"character-workers/internal/common/config"
	"character-workers/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client backing the generation store.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis creates a client without touching the network.
func NewRedis(cfg config.RedisConfig) *RedisClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisClient{Client: rdb}
}

// ConnectRedis creates a client and waits for the server to answer PING.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, log logger.Logger) (*RedisClient, error) {
	c := NewRedis(cfg)
	if err := RetryWithBackoff(ctx, c.Ping, 10, 2*time.Second, log, "Redis connection"); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Redis stores slots as plain redis strings without expiry.
type Redis struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedis creates a redis-backed storage. Keys are written as "<prefix>:<key>".
func NewRedis(client *redis.Client, prefix string, logger zerolog.Logger) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		logger: logger.With().Str("storage", "redis").Logger(),
	}
}

// Get returns the blob stored under key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to read slot")
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

// Set overwrites the blob stored under key.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.redisKey(key), value, 0).Err(); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to write slot")
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Remove deletes the slot.
func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.redisKey(key)).Err(); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to remove slot")
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *Redis) redisKey(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

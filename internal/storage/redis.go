package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/sortieapp/sortie/config"
)

// InitRedis connects to Redis and verifies the connection.
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// TokenStore keeps the per-user token version used to invalidate
// previously issued JWTs. A missing key reads as version 0.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) key(userID uint) string {
	return fmt.Sprintf("user:%d:token_version", userID)
}

// BumpVersion invalidates every outstanding token for the user and
// returns the new version to embed in the next one.
func (s *TokenStore) BumpVersion(ctx context.Context, userID uint) (int64, error) {
	version, err := s.client.Incr(ctx, s.key(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to bump token version for user %d: %w", userID, err)
	}
	return version, nil
}

// Version returns the user's current token version.
func (s *TokenStore) Version(ctx context.Context, userID uint) (int64, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read token version for user %d: %w", userID, err)
	}
	version, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt token version for user %d: %w", userID, err)
	}
	return version, nil
}

// Clear drops the stored version, used when an account is deleted.
func (s *TokenStore) Clear(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}

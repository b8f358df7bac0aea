package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-redis/redis/v8"

	"ticketing-api/internal/config"
	"ticketing-api/internal/logger"
)

const revokedKeyPrefix = "revoked_token:"

// Revoker tracks token ids that were logged out before they expired.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevoker keeps one key per revoked token id that expires with the token.
type RedisRevoker struct {
	Client *redis.Client
}

func NewRedisRevoker(client *redis.Client) *RedisRevoker {
	return &RedisRevoker{Client: client}
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.Client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return errors.Wrap(err, "store revoked token in Redis")
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.Client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, errors.Wrap(err, "check revoked token in Redis")
	}
	return n > 0, nil
}

// NoopRevoker is used when Redis is not configured. Tokens then stay valid
// until they expire.
type NoopRevoker struct{}

func (NoopRevoker) Revoke(context.Context, string, time.Time) error { return nil }

func (NoopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }

// ConnectRedis creates a client and tests the connection.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "connect to Redis at %s", cfg.Addr)
	}

	log.Info("REDIS", fmt.Sprintf("Connected to Redis at %s (DB: %d) for token revocation", cfg.Addr, cfg.DB))
	return client, nil
}

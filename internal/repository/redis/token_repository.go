package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRepository keeps one active session token per user so logout and
// account deletion can revoke a JWT before it expires on its own.
type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:user:%d", userID)
}

func (r *TokenRepository) Store(ctx context.Context, userID uint, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, sessionKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Exists(ctx context.Context, userID uint, token string) (bool, error) {
	stored, err := r.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check session token: %w", err)
	}
	return stored == token, nil
}

func (r *TokenRepository) Delete(ctx context.Context, userID uint) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}

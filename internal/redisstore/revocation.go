package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// TokenBlocklist remembers revoked session token ids until the token would have
// expired anyway.
type TokenBlocklist struct {
	client *redis.Client
}

func NewTokenBlocklist(client *redis.Client) *TokenBlocklist {
	return &TokenBlocklist{client: client}
}

// Revoke marks jti as revoked for ttl. Tokens already past expiry need no entry.
func (b *TokenBlocklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

func (b *TokenBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	err := b.client.Get(ctx, revokedKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

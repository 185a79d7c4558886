package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationKeyPrefix = "revoked:"

// RedisRevocations keeps the revoked set in Redis so it survives restarts and
// is shared across replicas. Keys expire together with the token they deny,
// which keeps the set bounded without a sweeper.
type RedisRevocations struct {
	client *redis.Client
}

func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client}
}

func (r *RedisRevocations) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired; the codec rejects it anyway.
		return nil
	}
	return r.client.Set(ctx, revocationKey(token), "1", ttl).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, revocationKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// revocationKey hashes the token so the raw bearer string never lands in
// Redis (it shows up in SCAN, logs, dumps).
func revocationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revocationKeyPrefix + base64.RawURLEncoding.EncodeToString(sum[:])
}

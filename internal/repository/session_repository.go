package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	loginAttemptsPrefix = "auth:login_attempts:"
	revokedTokenPrefix  = "auth:revoked:"
)

// SessionRepository keeps short-lived authentication state in Redis: failed
// login counters and revoked token identifiers. A nil client turns every
// operation into a no-op.
type SessionRepository struct {
	client *redis.Client
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

// Enabled reports whether a Redis backend is configured.
func (r *SessionRepository) Enabled() bool {
	return r != nil && r.client != nil
}

// IncrementLoginAttempts counts a failed login for email. The counter
// expires window after the first failure. SET NX seeds the counter with its
// TTL and INCR keeps it, so this runs on Redis servers older than 7.
func (r *SessionRepository) IncrementLoginAttempts(ctx context.Context, email string, window time.Duration) (int64, error) {
	if !r.Enabled() {
		return 0, nil
	}

	key := loginAttemptsKey(email)
	pipe := r.client.TxPipeline()
	pipe.SetNX(ctx, key, 0, window)
	incr := pipe.Incr(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return incr.Val(), nil
}

// LoginAttempts returns the number of recent failed logins for email.
func (r *SessionRepository) LoginAttempts(ctx context.Context, email string) (int64, error) {
	if !r.Enabled() {
		return 0, nil
	}

	key := loginAttemptsKey(email)
	count, err := r.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get %s: %w", key, err)
	}
	return count, nil
}

// ResetLoginAttempts clears the failed login counter for email.
func (r *SessionRepository) ResetLoginAttempts(ctx context.Context, email string) error {
	if !r.Enabled() {
		return nil
	}

	key := loginAttemptsKey(email)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// RevokeToken blacklists a token identifier until it would have expired.
func (r *SessionRepository) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if !r.Enabled() || ttl <= 0 {
		return nil
	}

	key := revokedTokenPrefix + jti
	if err := r.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// IsTokenRevoked reports whether the token identifier was revoked.
func (r *SessionRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}

	key := revokedTokenPrefix + jti
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}
	return n > 0, nil
}

// Close releases the underlying Redis connection if present.
func (r *SessionRepository) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Close()
}

func loginAttemptsKey(email string) string {
	return loginAttemptsPrefix + strings.ToLower(strings.TrimSpace(email))
}

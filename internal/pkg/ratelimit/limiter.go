// internal/pkg/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	loginMaxAttempts = 5
	loginWindow      = 15 * time.Minute
)

// LoginLimiter throttles credential-verification attempts per (ip, email)
// pair. A nil *LoginLimiter is valid and allows everything, so the login
// path degrades open when redis is not configured.
type LoginLimiter struct {
	client *redis.Client
}

func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	if client == nil {
		return nil
	}
	return &LoginLimiter{client: client}
}

// Allow records one attempt and reports whether it is within the window
// budget, along with the remaining attempts. Redis errors fail open: a
// broken limiter must not lock users out.
func (l *LoginLimiter) Allow(ctx context.Context, ip, email string) (bool, int64, error) {
	if l == nil {
		return true, loginMaxAttempts, nil
	}

	key := l.key(ip, email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		l.client.Expire(ctx, key, loginWindow)
	}

	remaining := loginMaxAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= loginMaxAttempts, remaining, nil
}

// Reset clears the attempt counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, ip, email string) error {
	if l == nil {
		return nil
	}
	return l.client.Del(ctx, l.key(ip, email)).Err()
}

func (l *LoginLimiter) key(ip, email string) string {
	return fmt.Sprintf("ratelimit:login:%s:%s", ip, email)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTooManyAttempts = errors.New("too many attempts")

// RateLimiter tracks failed-login style attempt counters in Redis. A nil
// limiter allows everything, so the API layer can run without Redis.
type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(redis *redis.Client) *RateLimiter {
	return &RateLimiter{
		redis: redis,
	}
}

func (r *RateLimiter) CheckLogin(ctx context.Context, username string) error {
	if r == nil || r.redis == nil {
		return nil
	}

	key := fmt.Sprintf("login_attempts:%s", username)

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return err
	}

	if count == 1 {
		r.redis.Expire(ctx, key, 15*time.Minute)
	}

	if count > 5 {
		return ErrTooManyAttempts
	}

	return nil
}

// ResetLogin clears the attempt counter after a successful login.
func (r *RateLimiter) ResetLogin(ctx context.Context, username string) {
	if r == nil || r.redis == nil {
		return
	}
	r.redis.Del(ctx, fmt.Sprintf("login_attempts:%s", username))
}

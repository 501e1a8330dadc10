package rate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rotationKeyPrefix = "gt:rot:"

// Config holds rotation throttle tuning parameters.
type Config struct {
	Enabled     bool
	MaxAttempts int
	CooldownTTL time.Duration
}

// Limiter enforces a per-credential rotation attempt budget using Redis
// counters. A nil Limiter is safe to call and never throttles.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a rotation [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	if !cfg.Enabled {
		return nil
	}
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// CheckRotation checks whether the refresh credential is within its rotation
// attempt budget. Returns [ErrRateLimited] when over budget.
func (l *Limiter) CheckRotation(ctx context.Context, credential string) error {
	if l == nil {
		return nil
	}

	count, err := l.redis.Get(ctx, rotationKey(credential)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}

	return nil
}

// RecordAttempt counts a rotation attempt for the refresh credential.
// Returns [ErrRateLimited] when the attempt pushes the counter over budget.
func (l *Limiter) RecordAttempt(ctx context.Context, credential string) error {
	if l == nil {
		return nil
	}

	count, err := l.incrementWithTTL(ctx, rotationKey(credential), l.config.CooldownTTL)
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}

	return nil
}

// Reset clears the attempt counter for the refresh credential. Called after
// a successful rotation.
func (l *Limiter) Reset(ctx context.Context, credential string) error {
	if l == nil {
		return nil
	}

	if err := l.redis.Del(ctx, rotationKey(credential)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Attempts returns the current counter for a refresh credential. Missing keys
// return zero.
func (l *Limiter) Attempts(ctx context.Context, credential string) (int, error) {
	if l == nil {
		return 0, nil
	}

	count, err := l.redis.Get(ctx, rotationKey(credential)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}

func rotationKey(credential string) string {
	digest := sha256.Sum256([]byte(credential))
	return rotationKeyPrefix + hex.EncodeToString(digest[:16])
}

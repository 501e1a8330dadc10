package rate

import "errors"

var (
	// ErrRateLimited reports a rotation attempt over the configured budget.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable reports a Redis transport failure.
	ErrRedisUnavailable = errors.New("redis unavailable")
)

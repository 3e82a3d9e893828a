package otp

import (
	"context"
	"time"

	"tastebite/internal/cache"
	"tastebite/internal/errors"
)

const (
	limiterKeyPrefix = "otp_issue:"

	// DefaultIssueLimit and DefaultIssueWindow bound how many codes one
	// identity can request within a rolling window.
	DefaultIssueLimit  = 20
	DefaultIssueWindow = 5 * time.Minute
)

// Limiter throttles code issuance per identity using a redis fixed-window
// counter. When redis is unavailable the counter reads as zero and issuance is
// allowed (fail open), matching the cache client's fail-safe semantics.
type Limiter struct {
	cache  *cache.Client
	limit  int64
	window time.Duration
}

// NewLimiter creates a limiter with the default bound.
func NewLimiter(c *cache.Client) *Limiter {
	return &Limiter{cache: c, limit: DefaultIssueLimit, window: DefaultIssueWindow}
}

// Allow records one issuance attempt for the identity and returns
// ErrTooManyRequests once the window's bound is exceeded.
func (l *Limiter) Allow(ctx context.Context, identity string) error {
	count, err := l.cache.Incr(ctx, limiterKeyPrefix+identity, l.window)
	if err != nil {
		return nil
	}
	if count > l.limit {
		return errors.ErrTooManyRequests
	}
	return nil
}

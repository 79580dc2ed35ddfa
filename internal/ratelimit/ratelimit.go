package ratelimit

import (
	"context"
	"time"
)

const DefaultWindow = 24 * time.Hour

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter caps report submissions per key: a reporter id, or the caller IP
// when the request names no reporter.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Unlimited admits everything; used when the limit is disabled.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true, Remaining: -1}, nil
}

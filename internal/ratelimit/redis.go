package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "maintain:report-limit"

// Redis is a fixed-window counter shared across instances. The first hit in
// a window sets the key's TTL; the window ends when the key expires.
type Redis struct {
	Client *redis.Client
	Prefix string
	Limit  int
	Window time.Duration
}

func NewRedis(client *redis.Client, limit int, window time.Duration) *Redis {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Redis{Client: client, Prefix: DefaultKeyPrefix, Limit: limit, Window: window}
}

func (r *Redis) Allow(ctx context.Context, key string) (Decision, error) {
	if r.Limit <= 0 {
		return Decision{Allowed: true, Remaining: -1}, nil
	}
	redisKey := r.Prefix + ":" + key

	count, err := r.Client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("increment %s: %w", redisKey, err)
	}
	if count == 1 {
		if err := r.Client.Expire(ctx, redisKey, r.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("expire %s: %w", redisKey, err)
		}
	}

	if count > int64(r.Limit) {
		ttl, err := r.Client.TTL(ctx, redisKey).Result()
		if err != nil {
			return Decision{}, fmt.Errorf("ttl %s: %w", redisKey, err)
		}
		if ttl < 0 {
			// Key lost its TTL; restore it so the caller is not locked out forever.
			ttl = r.Window
			if err := r.Client.Expire(ctx, redisKey, ttl).Err(); err != nil {
				return Decision{}, fmt.Errorf("restore expire %s: %w", redisKey, err)
			}
		}
		return Decision{Allowed: false, RetryAfter: ttl}, nil
	}
	return Decision{Allowed: true, Remaining: r.Limit - int(count)}, nil
}

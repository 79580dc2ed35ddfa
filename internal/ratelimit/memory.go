package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Memory is a per-key token bucket refilling limit tokens per window.
// Buckets that have refilled completely are evicted on a periodic sweep; a
// full bucket admits exactly what a fresh one would.
type Memory struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	buckets   map[string]*rate.Limiter
	lastSweep time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Memory{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: map[string]*rate.Limiter{},
	}
}

func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	if m.limit <= 0 {
		return Decision{Allowed: true, Remaining: -1}, nil
	}
	now := m.now()

	m.mu.Lock()
	if now.Sub(m.lastSweep) >= m.refill() {
		m.sweepLocked(now)
	}
	b, ok := m.buckets[key]
	if !ok {
		b = rate.NewLimiter(rate.Every(m.refill()), m.limit)
		m.buckets[key] = b
	}
	m.mu.Unlock()

	r := b.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{Allowed: false, RetryAfter: delay}, nil
	}
	return Decision{Allowed: true, Remaining: int(b.TokensAt(now))}, nil
}

func (m *Memory) refill() time.Duration {
	return m.window / time.Duration(m.limit)
}

func (m *Memory) sweepLocked(now time.Time) {
	for key, b := range m.buckets {
		if b.TokensAt(now) >= float64(m.limit) {
			delete(m.buckets, key)
		}
	}
	m.lastSweep = now
}

func (m *Memory) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter checks whether a request should be allowed for the identity.
type RateLimiter interface {
	Allow(ctx context.Context, identity *Identity) error
}

// idleTTL is how long an unused per-subject bucket is kept.
const idleTTL = 10 * time.Minute

// InProcessLimiter is a token bucket rate limiter that keeps one bucket per
// subject in memory. Each bucket refills at requestsPerMinute/60 tokens per
// second and holds at most requestsPerMinute tokens.
type InProcessLimiter struct {
	rpm       int
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewInProcessLimiter creates a limiter allowing requestsPerMinute requests
// per subject. A value <= 0 disables limiting.
func NewInProcessLimiter(requestsPerMinute int) *InProcessLimiter {
	return &InProcessLimiter{
		rpm:     requestsPerMinute,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow reports ErrTooManyRequests when the subject's bucket is empty.
func (l *InProcessLimiter) Allow(_ context.Context, identity *Identity) error {
	if l.rpm <= 0 || identity == nil {
		return nil
	}

	l.mu.Lock()
	now := l.now()
	l.sweep(now)
	b, ok := l.buckets[identity.Subject]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(float64(l.rpm)/60.0), l.rpm)}
		l.buckets[identity.Subject] = b
	}
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)
	l.mu.Unlock()

	if !allowed {
		return ErrTooManyRequests
	}
	return nil
}

// sweep drops idle buckets at most once per idleTTL. Caller holds l.mu.
func (l *InProcessLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleTTL {
		return
	}
	l.lastSweep = now
	for subject, b := range l.buckets {
		if now.Sub(b.lastSeen) >= idleTTL {
			delete(l.buckets, subject)
		}
	}
}

// size returns the number of tracked subjects.
func (l *InProcessLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter provides rate limiting functionality
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// TokenBucketLimiter implements token bucket rate limiting
type TokenBucketLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxTokens  int
	refillRate time.Duration
	idleTTL    time.Duration
	now        func() time.Time
	stop       chan struct{}
	once       sync.Once
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucketLimiter creates a limiter that holds up to maxTokens per key
// and adds one token every refillRate. Call Close to stop the idle-bucket sweeper.
func NewTokenBucketLimiter(maxTokens int, refillRate time.Duration) *TokenBucketLimiter {
	limiter := &TokenBucketLimiter{
		buckets:    make(map[string]*bucket),
		maxTokens:  maxTokens,
		refillRate: refillRate,
		idleTTL:    time.Hour,
		now:        time.Now,
		stop:       make(chan struct{}),
	}

	go limiter.cleanup(5 * time.Minute)

	return limiter
}

// Allow checks if a request is allowed
func (l *TokenBucketLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	b, exists := l.buckets[key]
	if !exists {
		b = &bucket{
			tokens:     l.maxTokens,
			lastRefill: now,
		}
		l.buckets[key] = b
	}
	l.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	// Refill whole tokens only and carry the remainder forward
	if l.refillRate > 0 {
		if added := int(now.Sub(b.lastRefill) / l.refillRate); added > 0 {
			b.tokens = min(b.tokens+added, l.maxTokens)
			b.lastRefill = b.lastRefill.Add(time.Duration(added) * l.refillRate)
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true, nil
	}

	return false, nil
}

// Reset resets the rate limit for a key
func (l *TokenBucketLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.buckets, key)
	return nil
}

// Close stops the sweeper goroutine
func (l *TokenBucketLimiter) Close() {
	l.once.Do(func() {
		close(l.stop)
	})
}

// cleanup removes idle buckets periodically
func (l *TokenBucketLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *TokenBucketLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, b := range l.buckets {
		b.mu.Lock()
		if now.Sub(b.lastRefill) > l.idleTTL {
			delete(l.buckets, key)
		}
		b.mu.Unlock()
	}
}

// IPRateLimiter wraps a rate limiter for IP-based limiting
type IPRateLimiter struct {
	limiter *TokenBucketLimiter
	rps     int
}

// NewIPRateLimiter allows rps requests per second per IP with a burst of twice that
func NewIPRateLimiter(rps int) *IPRateLimiter {
	if rps <= 0 {
		rps = 1
	}
	return &IPRateLimiter{
		limiter: NewTokenBucketLimiter(rps*2, time.Second/time.Duration(rps)),
		rps:     rps,
	}
}

// RPS returns the sustained rate per IP
func (l *IPRateLimiter) RPS() int {
	return l.rps
}

// Allow checks if a request from an IP is allowed
func (l *IPRateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	return l.limiter.Allow(ctx, fmt.Sprintf("ip:%s", ip))
}

// Close releases the underlying limiter
func (l *IPRateLimiter) Close() {
	l.limiter.Close()
}

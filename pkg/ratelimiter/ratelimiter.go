package ratelimiter

import (
	"sync"
	"time"
)

// counter tracks request count and window reset time for one client IP.
type counter struct {
	count     int
	resetTime time.Time
}

// RateLimiter implements fixed-window, per-IP rate limiting with in-memory
// tracking.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string]*counter
	limit    int
	window   time.Duration
}

// New creates a RateLimiter allowing limit requests per window per IP.
func New(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string]*counter),
		limit:    limit,
		window:   window,
	}
}

// Allow reports whether the IP may make another request in the current
// window, and returns the remaining budget and window reset time.
func (rl *RateLimiter) Allow(ip string) (allowed bool, remaining int, resetTime time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	c, exists := rl.requests[ip]
	if !exists || now.After(c.resetTime) {
		c = &counter{count: 0, resetTime: now.Add(rl.window)}
		rl.requests[ip] = c
	}

	if c.count >= rl.limit {
		return false, 0, c.resetTime
	}

	c.count++
	return true, rl.limit - c.count, c.resetTime
}

// Limit returns the configured per-window request limit.
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// Cleanup removes expired entries to prevent unbounded growth.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for ip, c := range rl.requests {
		if now.After(c.resetTime) {
			delete(rl.requests, ip)
		}
	}
}

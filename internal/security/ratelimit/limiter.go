package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a per-account sliding-window rate limiter applied to
// mutating endpoints (submissions, auth)
type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	maxReqs int
	window  time.Duration
	cleanup *time.Ticker
}

type bucket struct {
	requests []time.Time
	lastSeen time.Time
}

// NewLimiter creates a limiter allowing maxRequests per window per account
func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	limiter := &Limiter{
		buckets: make(map[string]*bucket),
		maxReqs: maxRequests,
		window:  window,
		cleanup: time.NewTicker(5 * time.Minute),
	}
	go limiter.cleanupOldBuckets()
	return limiter
}

// Allow reports whether the account may proceed. Anonymous requests
// (empty account ID) are not limited here; public browse endpoints are
// outside the limiter anyway.
func (l *Limiter) Allow(accountID string) bool {
	if accountID == "" {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, exists := l.buckets[accountID]
	if !exists {
		b = &bucket{requests: []time.Time{}}
		l.buckets[accountID] = b
	}

	cutoff := now.Add(-l.window)
	var reqs []time.Time
	for _, t := range b.requests {
		if t.After(cutoff) {
			reqs = append(reqs, t)
		}
	}
	b.requests = reqs
	b.lastSeen = now

	if len(b.requests) >= l.maxReqs {
		return false
	}

	b.requests = append(b.requests, now)
	return true
}

func (l *Limiter) cleanupOldBuckets() {
	for range l.cleanup.C {
		l.mu.Lock()
		staleThreshold := time.Now().Add(-15 * time.Minute)
		for accountID, b := range l.buckets {
			if b.lastSeen.Before(staleThreshold) {
				delete(l.buckets, accountID)
			}
		}
		l.mu.Unlock()
	}
}

// Stop halts the background cleanup ticker
func (l *Limiter) Stop() {
	l.cleanup.Stop()
}

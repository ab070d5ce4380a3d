// Package ratelimit enforces a minimum interval between actions per key.
package ratelimit

import (
	"sync"
	"time"
)

// RateLimiter is the surface handlers use to throttle per-client actions.
type RateLimiter interface {
	Allow(key string) bool
	Reset(key string)
}

// Limiter tracks the last action time per key in memory.
type Limiter struct {
	mu          sync.Mutex
	hosts       map[string]time.Time
	minInterval time.Duration
}

// New creates a limiter with the given minimum interval between actions.
func New(minInterval time.Duration) *Limiter {
	return &Limiter{
		hosts:       make(map[string]time.Time),
		minInterval: minInterval,
	}
}

// Allow reports whether an action for key may proceed now. A granted call
// records the time; a denied call does not.
func (l *Limiter) Allow(key string) bool {
	if l.minInterval <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if last, ok := l.hosts[key]; ok && now.Sub(last) < l.minInterval {
		return false
	}

	l.hosts[key] = now
	return true
}

// Wait blocks until the minimum interval since the last action for key has
// passed, then records the action.
func (l *Limiter) Wait(key string) {
	for {
		l.mu.Lock()
		now := time.Now()
		last, ok := l.hosts[key]
		if !ok || now.Sub(last) >= l.minInterval {
			l.hosts[key] = now
			l.mu.Unlock()
			return
		}
		remaining := l.minInterval - now.Sub(last)
		l.mu.Unlock()
		time.Sleep(remaining)
	}
}

// Reset forgets the last action time for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.hosts, key)
}

// ResetAll forgets all recorded action times.
func (l *Limiter) ResetAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hosts = make(map[string]time.Time)
}

var _ RateLimiter = (*Limiter)(nil)

package http

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterMaxAge          = 30 * time.Minute
)

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter applies a per-source token bucket. A zero or negative rate
// disables limiting entirely.
type ipLimiter struct {
	mu      sync.Mutex
	entries map[string]*ipLimiterEntry
	rate    rate.Limit
	burst   int
}

// newIPLimiter builds a limiter allowing perMinute requests sustained with
// the given burst per source key, pruning stale sources in the background.
func newIPLimiter(perMinute float64, burst int) *ipLimiter {
	l := &ipLimiter{
		entries: make(map[string]*ipLimiterEntry),
		rate:    rate.Limit(perMinute / 60),
		burst:   burst,
	}

	if l.rate > 0 {
		go l.cleanupLoop()
	}
	return l
}

func (l *ipLimiter) allow(key string) bool {
	if l.rate <= 0 {
		return true
	}

	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.entries[key] = entry
	}
	entry.lastSeen = time.Now()
	l.mu.Unlock()

	return entry.limiter.Allow()
}

// retryAfterSeconds is the header value suggested to throttled callers: the
// time one token takes to refill.
func (l *ipLimiter) retryAfterSeconds() string {
	if l.rate <= 0 {
		return "0"
	}
	seconds := int(1 / float64(l.rate))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

func (l *ipLimiter) cleanupLoop() {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for key, entry := range l.entries {
			if now.Sub(entry.lastSeen) > limiterMaxAge {
				delete(l.entries, key)
			}
		}
		l.mu.Unlock()
	}
}

package service

import (
	"sync"
	"time"
)

const (
	sweepInterval = 5 * time.Minute
	bucketMaxIdle = 10 * time.Minute
)

// TokenBucket rate-limits the credential endpoints per client IP. Each key
// owns a bucket that refills continuously; a request spends one token. Safe
// for concurrent use.
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens per second
	capacity float64
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

func (b *bucket) refill(now time.Time, rate, capacity float64) {
	b.tokens += now.Sub(b.lastSeen).Seconds() * rate
	if b.tokens > capacity {
		b.tokens = capacity
	}
	b.lastSeen = now
}

// NewTokenBucket creates a limiter that allows bursts up to capacity and
// refills at rate tokens per second. Idle buckets are swept in the
// background so the map does not grow with every IP ever seen.
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	tb := &TokenBucket{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
	}
	go tb.sweep()
	return tb
}

// Allow spends one token from key's bucket and reports whether one was
// available. Unknown keys start with a full bucket.
func (tb *TokenBucket) Allow(key string) bool {
	now := time.Now()

	tb.mu.Lock()
	defer tb.mu.Unlock()

	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, lastSeen: now}
		tb.buckets[key] = b
	}
	b.refill(now, tb.rate, tb.capacity)

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (tb *TokenBucket) sweep() {
	for range time.Tick(sweepInterval) {
		cutoff := time.Now().Add(-bucketMaxIdle)
		tb.mu.Lock()
		for key, b := range tb.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(tb.buckets, key)
			}
		}
		tb.mu.Unlock()
	}
}

package ratelimit

import "time"

// tokenBucket implements a continuously refilled token bucket. It is not
// safe for concurrent use on its own; the Limiter serializes all access
// under one lock.
type tokenBucket struct {
	capacity   float64
	available  float64
	refillRate float64 // units per second
	lastRefill time.Time
}

func newTokenBucket(capacity, refillRate float64, now time.Time) *tokenBucket {
	return &tokenBucket{
		capacity:   capacity,
		available:  capacity,
		refillRate: refillRate,
		lastRefill: now,
	}
}

// refill credits the bucket for time elapsed since the last refill.
// Zero elapsed time is a no-op.
func (b *tokenBucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.available = min(b.capacity, b.available+elapsed*b.refillRate)
	}
	b.lastRefill = now
}

// canConsume reports whether n units are available right now. The caller
// must have refilled first.
func (b *tokenBucket) canConsume(n float64) bool {
	return b.available >= n
}

// consume deducts n units. The caller must have verified availability.
func (b *tokenBucket) consume(n float64) {
	b.available -= n
}

// waitFor returns how long until n units will be available, or zero if they
// already are. The caller must have refilled first.
func (b *tokenBucket) waitFor(n float64) time.Duration {
	if b.available >= n {
		return 0
	}
	deficit := n - b.available
	return time.Duration(deficit / b.refillRate * float64(time.Second))
}

// utilization returns the consumed fraction of capacity, in [0, 1].
func (b *tokenBucket) utilization() float64 {
	if b.capacity == 0 {
		return 0
	}
	return (b.capacity - b.available) / b.capacity
}

// Package ratelimit gates generation-service calls behind dual token
// buckets tracking the provider's tokens-per-minute and requests-per-minute
// quotas, with adaptive backoff on repeated pressure.
package ratelimit

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/specmint/specmint/types"
)

// Adaptive backoff bounds.
const (
	baseBackoff       = 1 * time.Second
	maxBackoff        = 300 * time.Second
	backoffMultiplier = 2.0
	backoffShrink     = 0.8

	// defaultErrorWait applies when a rate-limit error carries no
	// server-suggested delay.
	defaultErrorWait = 60 * time.Second
)

// retryAfterPattern matches server-suggested delays such as
// "retry after 17" or "Retry-After: 17" in provider error text.
var retryAfterPattern = regexp.MustCompile(`(?i)retry.after\D{0,3}(\d+)`)

// retryAfterHinter is satisfied by typed provider errors that already parsed
// the server-suggested delay, sparing a second pass over the error text.
type retryAfterHinter interface {
	RetryAfterHint() time.Duration
}

// Metrics accumulates limiter activity over the process lifetime. Counters
// are monotonic; Reset is the only way to clear them.
type Metrics struct {
	TokensUsed         int           `json:"tokensUsed"`
	RequestsMade       int           `json:"requestsMade"`
	SuccessfulRequests int           `json:"successfulRequests"`
	RateLimitHits      int           `json:"rateLimitHits"`
	TotalWait          time.Duration `json:"totalWait"`
}

// BucketStatus is a point-in-time view of one bucket.
type BucketStatus struct {
	Capacity    int     `json:"capacity"`
	Available   int     `json:"available"`
	Utilization float64 `json:"utilization"`
}

// Status is a consistent snapshot of the limiter, taken under its lock.
type Status struct {
	Tokens          BucketStatus `json:"tokens"`
	Requests        BucketStatus `json:"requests"`
	Metrics         Metrics      `json:"metrics"`
	AdaptiveBackoff bool         `json:"adaptiveBackoff"`
	CurrentBackoff  time.Duration `json:"currentBackoff"`
}

// Limiter owns both buckets, the adaptive backoff state and the cumulative
// metrics behind one lock. All exported methods are safe for concurrent use.
type Limiter struct {
	mu             sync.Mutex
	tokens         *tokenBucket
	requests       *tokenBucket
	adaptive       bool
	currentBackoff time.Duration
	metrics        Metrics
	now            func() time.Time
	sleep          func(ctx context.Context, d time.Duration) error
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithSleeper substitutes the suspension primitive, for tests.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) { l.sleep = sleep }
}

// New creates a Limiter from the configured nominal limits. Capacities are
// derated by the safety margins and refill at derated-capacity/minute.
func New(cfg types.RateLimitConfig, opts ...Option) *Limiter {
	l := &Limiter{
		adaptive:       cfg.AdaptiveBackoff,
		currentBackoff: baseBackoff,
		now:            time.Now,
		sleep:          sleepCtx,
	}
	for _, opt := range opts {
		opt(l)
	}

	now := l.now()
	safeTPM := float64(cfg.TPMLimit) * cfg.TPMSafetyMargin
	safeRPM := float64(cfg.RPMLimit) * cfg.RPMSafetyMargin
	l.tokens = newTokenBucket(safeTPM, safeTPM/60.0, now)
	l.requests = newTokenBucket(safeRPM, safeRPM/60.0, now)
	return l
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Acquire attempts to reserve tokensNeeded tokens and one request slot.
// If capacity is not immediately available it computes the required wait;
// a wait exceeding timeout fails fast without sleeping. Otherwise the caller
// suspends and the consume is retried exactly once. Returns true when the
// reservation succeeded.
func (l *Limiter) Acquire(ctx context.Context, tokensNeeded int, timeout time.Duration) bool {
	need := float64(tokensNeeded)

	l.mu.Lock()
	now := l.now()
	l.tokens.refill(now)
	l.requests.refill(now)

	// All-or-nothing: never deduct one bucket when the other is short.
	if l.tokens.canConsume(need) && l.requests.canConsume(1) {
		l.tokens.consume(need)
		l.requests.consume(1)
		l.recordSuccessLocked(tokensNeeded, 0)
		l.mu.Unlock()
		return true
	}

	wait := max(l.tokens.waitFor(need), l.requests.waitFor(1))
	if l.adaptive {
		wait = max(wait, l.currentBackoff)
	}
	l.mu.Unlock()

	if wait > timeout {
		return false
	}
	if err := l.sleep(ctx, wait); err != nil {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	now = l.now()
	l.tokens.refill(now)
	l.requests.refill(now)

	if l.tokens.canConsume(need) && l.requests.canConsume(1) {
		l.tokens.consume(need)
		l.requests.consume(1)
		l.recordSuccessLocked(tokensNeeded, wait)
		if l.adaptive {
			l.currentBackoff = max(baseBackoff,
				time.Duration(float64(l.currentBackoff)*backoffShrink))
		}
		return true
	}

	if l.adaptive {
		l.currentBackoff = min(maxBackoff,
			time.Duration(float64(l.currentBackoff)*backoffMultiplier))
	}
	return false
}

// ReportError consumes a provider rate-limit error and returns how long the
// caller should wait before retrying. A typed error carrying a pre-parsed
// delay wins, then a delay embedded in the error text, then the 60s default;
// adaptive backoff raises the floor and advances for the next failure.
func (l *Limiter) ReportError(err error) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.metrics.RequestsMade++
	l.metrics.RateLimitHits++

	wait := defaultErrorWait
	var hinter retryAfterHinter
	switch {
	case err == nil:
	case errors.As(err, &hinter) && hinter.RetryAfterHint() > 0:
		wait = hinter.RetryAfterHint()
	default:
		if m := retryAfterPattern.FindStringSubmatch(err.Error()); m != nil {
			if secs, convErr := strconv.Atoi(m[1]); convErr == nil {
				wait = time.Duration(secs) * time.Second
			}
		}
	}

	if l.adaptive {
		wait = max(wait, l.currentBackoff)
		l.currentBackoff = min(maxBackoff,
			time.Duration(float64(l.currentBackoff)*backoffMultiplier))
	}
	return wait
}

// GetStatus returns a consistent snapshot of buckets, metrics and backoff
// state, computed under the same lock that guards mutation.
func (l *Limiter) GetStatus() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.tokens.refill(now)
	l.requests.refill(now)

	return Status{
		Tokens: BucketStatus{
			Capacity:    int(l.tokens.capacity),
			Available:   int(l.tokens.available),
			Utilization: l.tokens.utilization(),
		},
		Requests: BucketStatus{
			Capacity:    int(l.requests.capacity),
			Available:   int(l.requests.available),
			Utilization: l.requests.utilization(),
		},
		Metrics:         l.metrics,
		AdaptiveBackoff: l.adaptive,
		CurrentBackoff:  l.currentBackoff,
	}
}

// Reset clears cumulative metrics and backoff state. Operator action only;
// nothing in the pipeline calls this.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.metrics = Metrics{}
	l.currentBackoff = baseBackoff
}

func (l *Limiter) recordSuccessLocked(tokens int, waited time.Duration) {
	l.metrics.TokensUsed += tokens
	l.metrics.RequestsMade++
	l.metrics.SuccessfulRequests++
	l.metrics.TotalWait += waited
}

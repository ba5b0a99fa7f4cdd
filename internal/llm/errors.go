package llm

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// retryAfterPattern matches server-suggested delays like "retry after 30s",
// "Retry-After: 30" or "retry_after=30" in provider error text.
var retryAfterPattern = regexp.MustCompile(`(?i)retry.after\D{0,3}(\d+)`)

// RateLimitError is returned when the provider rejects a request for quota
// reasons. RetryAfter is the server-suggested delay, zero when the provider
// gave none.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// RetryAfterHint returns the server-suggested delay, zero when the provider
// gave none. The rate limiter consumes this without importing the package.
func (e *RateLimitError) RetryAfterHint() time.Duration { return e.RetryAfter }

// IsRateLimit reports whether err is a provider rate-limit rejection.
func IsRateLimit(err error) bool {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return true
	}
	return err != nil && containsAny(strings.ToLower(err.Error()),
		"rate limit", "429", "too many requests", "quota exceeded")
}

// IsTransient reports whether err looks like a recoverable network or
// server-side failure worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(strings.ToLower(err.Error()),
		"timeout", "connection", "temporary", "unavailable",
		"500", "502", "503", "504")
}

func containsAny(s string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

// classify wraps a raw provider error into the pipeline taxonomy. Rate-limit
// rejections keep any parseable retry-after hint; transient failures stay
// retryable; everything else is fatal.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case IsRateLimit(err):
		return &RateLimitError{RetryAfter: parseRetryAfter(err), Err: err}
	default:
		return err
	}
}

// parseRetryAfter extracts a whole-second delay from the error text.
func parseRetryAfter(err error) time.Duration {
	m := retryAfterPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0
	}
	return time.Duration(secs) * time.Second
}

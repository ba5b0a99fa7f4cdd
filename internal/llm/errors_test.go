package llm

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed error", &RateLimitError{Err: errors.New("x")}, true},
		{"wrapped typed error", fmt.Errorf("call failed: %w", &RateLimitError{Err: errors.New("x")}), true},
		{"status code text", errors.New("unexpected status 429"), true},
		{"prose", errors.New("Rate Limit exceeded for model"), true},
		{"quota", errors.New("quota exceeded for project"), true},
		{"unrelated", errors.New("invalid request"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimit(tt.err); got != tt.want {
				t.Errorf("IsRateLimit(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"timeout", errors.New("context deadline exceeded: request timeout"), true},
		{"connection", errors.New("connection refused"), true},
		{"gateway", errors.New("502 Bad Gateway"), true},
		{"unavailable", errors.New("service Unavailable"), true},
		{"auth failure", errors.New("invalid api key"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Fatal("classify(nil) should be nil")
	}

	raw := errors.New("429 too many requests")
	classified := classify(raw)
	var rle *RateLimitError
	if !errors.As(classified, &rle) {
		t.Fatalf("classify(%v) = %T, want *RateLimitError", raw, classified)
	}
	if !errors.Is(classified, raw) {
		t.Fatal("classified error should wrap the original")
	}

	fatal := errors.New("invalid api key")
	if classify(fatal) != fatal {
		t.Fatal("non-rate-limit errors pass through unchanged")
	}
}

func TestClassify_ParsesRetryAfter(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want time.Duration
	}{
		{"header style", errors.New("429: Retry-After: 17"), 17 * time.Second},
		{"prose style", errors.New("rate limit hit, retry after 25 seconds"), 25 * time.Second},
		{"no hint", errors.New("429 too many requests"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rle *RateLimitError
			if !errors.As(classify(tt.err), &rle) {
				t.Fatalf("classify(%v) did not produce a *RateLimitError", tt.err)
			}
			if rle.RetryAfter != tt.want {
				t.Errorf("RetryAfter = %v, want %v", rle.RetryAfter, tt.want)
			}
			if rle.RetryAfterHint() != tt.want {
				t.Errorf("RetryAfterHint() = %v, want %v", rle.RetryAfterHint(), tt.want)
			}
		})
	}
}

func TestRateLimitError_Error(t *testing.T) {
	e := &RateLimitError{RetryAfter: 30 * time.Second, Err: errors.New("429")}
	if got := e.Error(); got != "rate limited, retry after 30s: 429" {
		t.Errorf("unexpected message: %q", got)
	}
	bare := &RateLimitError{Err: errors.New("429")}
	if got := bare.Error(); got != "rate limited: 429" {
		t.Errorf("unexpected message: %q", got)
	}
}

package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a pipeline failure for retry decisions and reporting.
type ErrorCode string

const (
	// ErrCodeRateLimit marks a provider rate-limit rejection. Transient;
	// retried with a server-suggested or backoff-computed delay.
	ErrCodeRateLimit ErrorCode = "RATE_LIMIT_EXCEEDED"

	// ErrCodeAcquireTimeout marks a rate-limiter acquire that could not be
	// granted within the per-task timeout. Transient.
	ErrCodeAcquireTimeout ErrorCode = "ACQUIRE_TIMEOUT"

	// ErrCodeTransient marks a network/5xx-class generation failure. Retried.
	ErrCodeTransient ErrorCode = "TRANSIENT_GENERATION_ERROR"

	// ErrCodeFatal marks a non-retryable generation failure.
	ErrCodeFatal ErrorCode = "FATAL_GENERATION_ERROR"

	// ErrCodeDeadline marks work abandoned because the batch deadline
	// elapsed. Already-completed results are unaffected.
	ErrCodeDeadline ErrorCode = "GLOBAL_DEADLINE_EXCEEDED"

	// ErrCodeMerge marks a merge over zero successful results. This is the
	// one per-batch error surfaced to the caller as a hard failure.
	ErrCodeMerge ErrorCode = "MERGE_FAILURE"
)

// Retryable reports whether a task failing with this code should be retried.
func (c ErrorCode) Retryable() bool {
	switch c {
	case ErrCodeRateLimit, ErrCodeAcquireTimeout, ErrCodeTransient:
		return true
	default:
		return false
	}
}

// PipelineError is a classified error crossing a component boundary.
type PipelineError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewPipelineError wraps err with a code and context message.
func NewPipelineError(code ErrorCode, message string, err error) *PipelineError {
	return &PipelineError{Code: code, Message: message, Err: err}
}

// CodeOf extracts the ErrorCode from err, walking the wrap chain.
// Unclassified errors report ErrCodeFatal.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ErrCodeFatal
}

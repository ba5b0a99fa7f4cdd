package types

import "time"

// PriorityTier orders work for the scheduler. Lower values run first.
type PriorityTier int

const (
	PriorityHigh   PriorityTier = 1
	PriorityMedium PriorityTier = 2
	PriorityLow    PriorityTier = 3
)

// String returns a human-readable name for a priority tier.
func (p PriorityTier) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// ScoredOperation wraps a descriptor with the analyzer's verdict. Created
// once by the analyzer and never mutated afterwards.
type ScoredOperation struct {
	Descriptor      *OperationDescriptor `json:"descriptor"`
	ComplexityScore float64              `json:"complexityScore"` // clamped to [1.0, 10.0]
	TokenEstimate   int                  `json:"tokenEstimate"`
	SemanticWeight  float64              `json:"semanticWeight"` // clamped to [1.0, 2.0]
	Priority        PriorityTier         `json:"priority"`
}

// ComplexityHistogram buckets a chunk's members by complexity score.
type ComplexityHistogram struct {
	Simple   int `json:"simple"`   // score < 3
	Moderate int `json:"moderate"` // 3 <= score < 6
	Complex  int `json:"complex"`  // score >= 6
}

// Chunk is a bounded batch of scored operations submitted as one
// generation-service call. Chunks are immutable after construction; the
// split pass replaces an oversized chunk with two children rather than
// mutating it in place.
type Chunk struct {
	ID              string              `json:"id"`
	Operations      []ScoredOperation   `json:"operations"`
	EstimatedTokens int                 `json:"estimatedTokens"`
	Histogram       ComplexityHistogram `json:"histogram"`
	Coherence       float64             `json:"coherence"` // tag mentions / distinct tags, >= 1.0
	Priority        PriorityTier        `json:"priority"`  // min member tier
}

// EndpointCount returns the number of operations in the chunk.
func (c *Chunk) EndpointCount() int { return len(c.Operations) }

// AverageComplexity returns the mean complexity score of the chunk's members.
func (c *Chunk) AverageComplexity() float64 {
	if len(c.Operations) == 0 {
		return 0
	}
	var sum float64
	for i := range c.Operations {
		sum += c.Operations[i].ComplexityScore
	}
	return sum / float64(len(c.Operations))
}

// Task is one schedulable unit of generation work. RetryCount is the only
// mutable field; the scheduler owns it.
type Task struct {
	ID                string        `json:"id"`
	Chunk             *Chunk        `json:"chunk"`
	Priority          PriorityTier  `json:"priority"`
	EstimatedDuration time.Duration `json:"estimatedDuration"`
	RetryCount        int           `json:"retryCount"`
	MaxRetries        int           `json:"maxRetries"`
}

// CanRetry reports whether the task has retry budget left.
func (t *Task) CanRetry() bool { return t.RetryCount < t.MaxRetries }

// TaskResult captures the outcome of one task. Artifact is set iff Success;
// ErrorCode and ErrorDetail are set iff the task failed.
type TaskResult struct {
	TaskID         string        `json:"taskId"`
	Success        bool          `json:"success"`
	Artifact       string        `json:"artifact,omitempty"`
	ErrorCode      ErrorCode     `json:"errorCode,omitempty"`
	ErrorDetail    string        `json:"errorDetail,omitempty"`
	Elapsed        time.Duration `json:"elapsed"`
	TokensConsumed int           `json:"tokensConsumed"`
	AttemptsUsed   int           `json:"attemptsUsed"`
}

// BatchStats aggregates a finished batch for reporting.
type BatchStats struct {
	RunID          string        `json:"runId"`
	TotalTasks     int           `json:"totalTasks"`
	Succeeded      int           `json:"succeeded"`
	Failed         int           `json:"failed"`
	TokensConsumed int           `json:"tokensConsumed"`
	TotalElapsed   time.Duration `json:"totalElapsed"`
	AverageLatency time.Duration `json:"averageLatency"`
}

package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/specmint/specmint/types"
)

// Duration-estimate coefficients: a flat per-call cost plus terms scaling
// with token volume, mean complexity and member count.
const (
	baseCallSeconds      = 30.0
	secondsPerKiloToken  = 1.0
	secondsPerComplexity = 2.0
	secondsPerEndpoint   = 1.5
)

// NewTasks wraps chunks in scheduler tasks with stable ids assigned at
// creation so that merge order never depends on completion order.
func NewTasks(chunks []types.Chunk, maxRetries int) []*types.Task {
	tasks := make([]*types.Task, 0, len(chunks))
	for i := range chunks {
		chunk := &chunks[i]
		tasks = append(tasks, &types.Task{
			ID:                fmt.Sprintf("task_%03d_%s", i, chunk.ID),
			Chunk:             chunk,
			Priority:          chunk.Priority,
			EstimatedDuration: estimateDuration(chunk),
			MaxRetries:        maxRetries,
		})
	}
	return tasks
}

// estimateDuration predicts how long one chunk's generation call will take.
func estimateDuration(chunk *types.Chunk) time.Duration {
	seconds := baseCallSeconds +
		float64(chunk.EstimatedTokens)/1000.0*secondsPerKiloToken +
		chunk.AverageComplexity()*secondsPerComplexity +
		float64(chunk.EndpointCount())*secondsPerEndpoint
	return time.Duration(seconds * float64(time.Second))
}

// sortTasks orders tasks for submission: high priority first, shorter
// estimates first within a tier.
func sortTasks(tasks []*types.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Priority != tasks[j].Priority {
			return tasks[i].Priority < tasks[j].Priority
		}
		return tasks[i].EstimatedDuration < tasks[j].EstimatedDuration
	})
}

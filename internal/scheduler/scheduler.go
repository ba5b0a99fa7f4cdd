package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/specmint/specmint/internal/llm"
	"github.com/specmint/specmint/internal/ratelimit"
	"github.com/specmint/specmint/types"
)

// retryDelay is the base wait between attempts for transient failures that
// carry no server-advised delay. It grows linearly with the attempt number.
const retryDelay = 2 * time.Second

// Scheduler drives chunk tasks through the generation service under a
// bounded worker pool, with the rate limiter gating every call.
type Scheduler struct {
	service llm.Service
	limiter *ratelimit.Limiter
	cfg     types.SchedulerConfig
	log     *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithSleeper replaces the retry wait, used by tests to avoid real delays.
func WithSleeper(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Scheduler) { s.sleep = fn }
}

// New builds a Scheduler over the given service and limiter.
func New(service llm.Service, limiter *ratelimit.Limiter, cfg types.SchedulerConfig, log *slog.Logger, opts ...Option) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	s := &Scheduler{
		service: service,
		limiter: limiter,
		cfg:     cfg,
		log:     log,
		sleep:   sleepCtx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes all tasks and returns whatever results completed. When the
// parallel path fails unexpectedly and graceful degradation is enabled, it
// reruns the tasks one at a time instead of giving up.
func (s *Scheduler) Run(ctx context.Context, tasks []*types.Task, domainContext string) (results []types.TaskResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			if !s.cfg.GracefulDegradation {
				err = types.NewPipelineError(types.ErrCodeFatal, fmt.Sprintf("scheduler panic: %v", r), nil)
				return
			}
			s.log.Warn("parallel execution failed, falling back to sequential", "cause", r)
			results = s.runSequential(ctx, tasks, domainContext)
			err = nil
		}
	}()
	return s.execute(ctx, tasks, domainContext), nil
}

// execute fans tasks out to a fixed pool of workers. Submission order is
// priority first, then the shorter duration estimate. Once the global
// deadline expires, unstarted tasks are abandoned and in-flight results are
// not waited on.
func (s *Scheduler) execute(ctx context.Context, tasks []*types.Task, domainContext string) []types.TaskResult {
	sortTasks(tasks)

	workers := s.cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.GlobalTimeoutSeconds)*time.Second)
	defer cancel()

	taskCh := make(chan *types.Task)
	// Buffered so in-flight workers can always hand off their result and
	// exit, even after the collector has stopped listening.
	resultCh := make(chan types.TaskResult, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				resultCh <- s.runTask(ctx, task, domainContext)
			}
		}()
	}

	go func() {
		defer close(taskCh)
		for _, task := range tasks {
			select {
			case taskCh <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	results := make([]types.TaskResult, 0, len(tasks))
	for {
		select {
		case res := <-resultCh:
			results = append(results, res)
			if len(results) == len(tasks) {
				return results
			}
		case <-done:
			// Drain anything handed off between the last receive and
			// the pool winding down.
			for {
				select {
				case res := <-resultCh:
					results = append(results, res)
				default:
					return results
				}
			}
		case <-ctx.Done():
			s.log.Warn("global deadline reached, abandoning outstanding tasks",
				"completed", len(results), "total", len(tasks))
			return results
		}
	}
}

// runSequential is the degradation path: one task at a time, no pool, same
// retry and rate-limit behavior.
func (s *Scheduler) runSequential(ctx context.Context, tasks []*types.Task, domainContext string) []types.TaskResult {
	sortTasks(tasks)
	results := make([]types.TaskResult, 0, len(tasks))
	for _, task := range tasks {
		if ctx.Err() != nil {
			break
		}
		results = append(results, s.runTask(ctx, task, domainContext))
	}
	return results
}

// runTask runs a single task to completion, retrying transient failures up
// to the task's retry budget. It always returns a result; a panicking
// service surfaces as a fatal result rather than tearing down the pool.
func (s *Scheduler) runTask(ctx context.Context, task *types.Task, domainContext string) (result types.TaskResult) {
	start := time.Now()
	attempts := 0

	defer func() {
		if r := recover(); r != nil {
			result = s.failed(task, types.ErrCodeFatal, fmt.Sprintf("generation panic: %v", r), start, attempts)
		}
	}()

	for {
		attempts++
		if err := ctx.Err(); err != nil {
			return s.failed(task, types.ErrCodeDeadline, err.Error(), start, attempts)
		}

		code, detail, suggested := s.attempt(ctx, task, domainContext)
		if code == "" {
			s.log.Debug("task succeeded", "task", task.ID, "attempts", attempts)
			return types.TaskResult{
				TaskID:         task.ID,
				Success:        true,
				Artifact:       detail,
				Elapsed:        time.Since(start),
				TokensConsumed: task.Chunk.EstimatedTokens,
				AttemptsUsed:   attempts,
			}
		}
		if !code.Retryable() || !task.CanRetry() {
			return s.failed(task, code, detail, start, attempts)
		}

		task.RetryCount++
		delay := max(retryDelay*time.Duration(task.RetryCount), suggested)
		s.log.Debug("retrying task", "task", task.ID, "code", code, "delay", delay)
		if err := s.sleep(ctx, delay); err != nil {
			return s.failed(task, types.ErrCodeDeadline, err.Error(), start, attempts)
		}
	}
}

// attempt performs one acquire-and-generate round. An empty code means
// success and detail holds the artifact; otherwise detail describes the
// failure and delay carries any server-advised wait before the next try.
func (s *Scheduler) attempt(ctx context.Context, task *types.Task, domainContext string) (types.ErrorCode, string, time.Duration) {
	timeout := time.Duration(s.cfg.PerTaskTimeoutSeconds) * time.Second
	if !s.limiter.Acquire(ctx, task.Chunk.EstimatedTokens, timeout) {
		return types.ErrCodeAcquireTimeout,
			fmt.Sprintf("budget for %d tokens not available within %s", task.Chunk.EstimatedTokens, timeout), 0
	}

	artifact, err := s.service.Generate(ctx, task.Chunk, domainContext)
	if err == nil {
		return "", artifact, 0
	}

	switch {
	case llm.IsRateLimit(err):
		delay := s.limiter.ReportError(err)
		s.log.Warn("provider rate limit", "task", task.ID, "delay", delay)
		return types.ErrCodeRateLimit, err.Error(), delay
	case llm.IsTransient(err):
		return types.ErrCodeTransient, err.Error(), 0
	default:
		return types.ErrCodeFatal, err.Error(), 0
	}
}

func (s *Scheduler) failed(task *types.Task, code types.ErrorCode, detail string, start time.Time, attempts int) types.TaskResult {
	s.log.Warn("task failed", "task", task.ID, "code", code, "attempts", attempts, "error", detail)
	return types.TaskResult{
		TaskID:       task.ID,
		Success:      false,
		ErrorCode:    code,
		ErrorDetail:  detail,
		Elapsed:      time.Since(start),
		AttemptsUsed: attempts,
	}
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

// Package retry re-runs recoverable submission failures with a fixed
// backoff. Fixed delay was chosen over exponential: the dominant
// recoverable failure is presumed rate limiting, and a short constant
// pause spreads retries as well as a growing one at this scale.
package retry

import (
	"context"
	"log/slog"
	"time"

	"formsmith/internal/core"
)

// Default policy values. New applies DefaultBackoff when the policy
// carries no backoff; MaxRetries is taken as given, so a zero-value
// Policy performs no retries. DefaultMaxRetries is the callers'
// conventional retry budget (the CLI flag default).
const (
	DefaultMaxRetries = 2
	DefaultBackoff    = 2 * time.Second
)

// Policy bounds re-attempts of a recoverable failure.
type Policy struct {
	MaxRetries int           // re-runs after the first attempt
	Backoff    time.Duration // fixed wait between attempts
}

// Runner wraps an inner core.TaskRunner with the retry policy. A fresh
// answer set per attempt is the inner runner's responsibility (the
// session generates one per Run).
type Runner struct {
	policy Policy
	inner  core.TaskRunner
	log    *slog.Logger
}

// New wraps inner with the policy. log may be nil.
func New(policy Policy, inner core.TaskRunner, log *slog.Logger) *Runner {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.Backoff <= 0 {
		policy.Backoff = DefaultBackoff
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{policy: policy, inner: inner, log: log}
}

// Run executes the task until success, a non-recoverable failure, or
// retry exhaustion. Success is never retried; non-recoverable failures
// are returned unchanged with zero re-attempts.
func (r *Runner) Run(ctx context.Context, task core.Task) core.Outcome {
	for {
		out := r.inner.Run(ctx, task)
		if out.Success || !out.Class.Recoverable() || task.Attempt >= r.policy.MaxRetries {
			return out
		}

		r.log.Info("retrying submission",
			"task", task.ID, "index", task.Index,
			"attempt", task.Attempt, "class", string(out.Class), "backoff", r.policy.Backoff)

		select {
		case <-ctx.Done():
			cancelled := core.Failure(task, core.ClassCancelled, "run cancelled during retry backoff")
			cancelled.Duration = out.Duration
			return cancelled
		case <-time.After(r.policy.Backoff):
		}
		task.Attempt++
	}
}

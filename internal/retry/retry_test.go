package retry

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formsmith/internal/core"
)

// scriptedRunner returns canned outcomes in order, then repeats the last.
type scriptedRunner struct {
	outcomes []core.Outcome
	calls    atomic.Int32
	attempts []int // task.Attempt seen per call
}

func (s *scriptedRunner) Run(ctx context.Context, task core.Task) core.Outcome {
	n := int(s.calls.Add(1)) - 1
	s.attempts = append(s.attempts, task.Attempt)
	if n >= len(s.outcomes) {
		n = len(s.outcomes) - 1
	}
	out := s.outcomes[n]
	out.Task = task
	out.Attempts = task.Attempt + 1
	return out
}

func failure(class core.Class) core.Outcome {
	return core.Outcome{Class: class, Reason: string(class)}
}

func success() core.Outcome {
	return core.Outcome{Success: true}
}

func fastPolicy(maxRetries int) Policy {
	return Policy{MaxRetries: maxRetries, Backoff: time.Millisecond}
}

func TestSuccessIsNeverRetried(t *testing.T) {
	inner := &scriptedRunner{outcomes: []core.Outcome{success()}}
	r := New(fastPolicy(3), inner, nil)

	out := r.Run(context.Background(), core.NewTask(0))

	require.True(t, out.Success)
	assert.EqualValues(t, 1, inner.calls.Load())
	assert.Equal(t, 1, out.Attempts)
}

func TestRecoverableFailureRetriedUpToLimit(t *testing.T) {
	inner := &scriptedRunner{outcomes: []core.Outcome{failure(core.ClassUnconfirmed)}}
	r := New(fastPolicy(2), inner, nil)

	out := r.Run(context.Background(), core.NewTask(0))

	require.False(t, out.Success)
	assert.EqualValues(t, 3, inner.calls.Load(), "1 initial + 2 retries")
	assert.Equal(t, []int{0, 1, 2}, inner.attempts, "attempt counter must increment per retry")
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, core.ClassUnconfirmed, out.Class)
}

func TestNonRecoverableFailureNeverRetried(t *testing.T) {
	inner := &scriptedRunner{outcomes: []core.Outcome{failure(core.ClassSchemaAbsent)}}
	r := New(fastPolicy(5), inner, nil)

	out := r.Run(context.Background(), core.NewTask(0))

	require.False(t, out.Success)
	assert.EqualValues(t, 1, inner.calls.Load(), "zero retries for non-recoverable failure")
	assert.Equal(t, core.ClassSchemaAbsent, out.Class)
}

func TestRetrySucceedsMidway(t *testing.T) {
	inner := &scriptedRunner{outcomes: []core.Outcome{
		failure(core.ClassNavigation),
		failure(core.ClassFieldNotFound),
		success(),
	}}
	r := New(fastPolicy(4), inner, nil)

	out := r.Run(context.Background(), core.NewTask(7))

	require.True(t, out.Success)
	assert.EqualValues(t, 3, inner.calls.Load())
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, 7, out.Task.Index)
}

func TestBackoffIsCancellable(t *testing.T) {
	inner := &scriptedRunner{outcomes: []core.Outcome{failure(core.ClassResource)}}
	r := New(Policy{MaxRetries: 3, Backoff: time.Minute}, inner, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	out := r.Run(ctx, core.NewTask(0))

	require.False(t, out.Success)
	assert.Equal(t, core.ClassCancelled, out.Class)
	assert.Less(t, time.Since(start), 5*time.Second, "backoff wait must abort on cancellation")
	assert.EqualValues(t, 1, inner.calls.Load())
}

func TestZeroValuePolicyGetsDefaults(t *testing.T) {
	r := New(Policy{MaxRetries: -1}, &scriptedRunner{outcomes: []core.Outcome{success()}}, nil)
	assert.Equal(t, 0, r.policy.MaxRetries)
	assert.Equal(t, DefaultBackoff, r.policy.Backoff)
}

func TestZeroMaxRetriesNeverRetries(t *testing.T) {
	inner := &scriptedRunner{outcomes: []core.Outcome{failure(core.ClassUnconfirmed)}}
	r := New(Policy{Backoff: time.Millisecond}, inner, nil)

	out := r.Run(context.Background(), core.NewTask(0))

	require.False(t, out.Success)
	assert.EqualValues(t, 1, inner.calls.Load(), "zero MaxRetries means a single attempt")
	assert.Equal(t, 1, out.Attempts)
}

// Package pool schedules submission tasks over a bounded set of
// concurrent workers. The pool is a bulkhead: a panic or failure in one
// worker iteration is converted into a failed outcome and never
// terminates sibling workers or the pool itself.
package pool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"formsmith/internal/core"
	"formsmith/internal/ratelimit"
)

// Summary is the final tally of one run.
type Summary struct {
	Succeeded int
	Failed    int
	Total     int
	ByClass   map[core.Class]int
}

// State holds the pool's shared counters. All mutation goes through
// atomic operations; workers never touch the counts directly.
//
// Invariant: Completed + Failed + Active == Dispatched <= count.
type State struct {
	dispatched atomic.Int32
	active     atomic.Int32
	completed  atomic.Int32
	failed     atomic.Int32
}

func (s *State) Dispatched() int { return int(s.dispatched.Load()) }
func (s *State) Active() int     { return int(s.active.Load()) }
func (s *State) Completed() int  { return int(s.completed.Load()) }
func (s *State) Failed() int     { return int(s.failed.Load()) }

// Pool dispatches count tasks over at most workers concurrent slots.
type Pool struct {
	workers  int
	runner   core.TaskRunner
	reporter core.Reporter
	limiter  *ratelimit.Limiter // nil = unpaced
	log      *slog.Logger

	state State
	wg    sync.WaitGroup

	mu      sync.Mutex
	byClass map[core.Class]int
}

// Option configures a Pool.
type Option func(*Pool)

// WithReporter publishes terminal outcome events to r.
func WithReporter(r core.Reporter) Option {
	return func(p *Pool) { p.reporter = r }
}

// WithLimiter paces task starts.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(p *Pool) { p.limiter = l }
}

// WithLogger sets the pool's logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pool) { p.log = log }
}

// New creates a pool. workers < 1 is clamped to 1.
func New(workers int, runner core.TaskRunner, opts ...Option) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		workers:  workers,
		runner:   runner,
		reporter: core.NullReporter,
		log:      slog.New(slog.DiscardHandler),
		byClass:  make(map[core.Class]int),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State exposes the pool's counters for observation. Read-only use.
func (p *Pool) State() *State {
	return &p.state
}

// Run dispatches exactly count tasks and blocks until every task has a
// terminal outcome. Task indices enter the queue in FIFO order;
// completion order is unspecified. On cancellation, queued tasks drain
// as Cancelled failures without executing, so the tally always accounts
// for all count tasks.
func (p *Pool) Run(ctx context.Context, count int) Summary {
	if count <= 0 {
		return Summary{ByClass: map[core.Class]int{}}
	}

	queue := make(chan core.Task, count)
	for i := 0; i < count; i++ {
		queue <- core.NewTask(i)
	}
	close(queue)

	workers := p.workers
	if workers > count {
		workers = count
	}

	for w := 0; w < workers; w++ {
		p.wg.Add(1)
		go func(worker int) {
			defer p.wg.Done()
			for task := range queue {
				p.record(p.execute(ctx, worker, task))
			}
		}(w)
	}
	p.wg.Wait()

	return p.summary()
}

// execute runs one unit-iteration: pace, run, and fence off panics.
func (p *Pool) execute(ctx context.Context, worker int, task core.Task) (out core.Outcome) {
	p.state.dispatched.Add(1)
	p.state.active.Add(1)
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("worker iteration panicked",
				"worker", worker, "task", task.ID, "panic", fmt.Sprint(r))
			out = core.Failure(task, core.ClassInternal, fmt.Sprintf("panic: %v", r))
			out.Duration = time.Since(started)
		}
	}()

	if ctx.Err() != nil {
		return core.Failure(task, core.ClassCancelled, "run cancelled before dispatch")
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return core.Failure(task, core.ClassCancelled, "run cancelled while pacing")
		}
	}

	return p.runner.Run(ctx, task)
}

// record is the single synchronization point for outcome accounting.
// The active slot is released only after the outcome is tallied, so
// completed + failed + active never undercounts dispatched.
func (p *Pool) record(out core.Outcome) {
	if out.Success {
		p.state.completed.Add(1)
	} else {
		p.state.failed.Add(1)
		p.mu.Lock()
		p.byClass[out.Class]++
		p.mu.Unlock()
	}
	p.state.active.Add(-1)

	p.reporter.Report(core.Event{
		TaskID:    out.Task.ID,
		Index:     out.Task.Index,
		Attempt:   out.Attempts - 1,
		Timestamp: time.Now(),
		State:     "done",
		Terminal:  true,
		Success:   out.Success,
		Class:     out.Class,
		Error:     out.Reason,
		Duration:  out.Duration,
	})
}

func (p *Pool) summary() Summary {
	p.mu.Lock()
	byClass := make(map[core.Class]int, len(p.byClass))
	for k, v := range p.byClass {
		byClass[k] = v
	}
	p.mu.Unlock()

	succeeded := p.state.Completed()
	failed := p.state.Failed()
	return Summary{
		Succeeded: succeeded,
		Failed:    failed,
		Total:     succeeded + failed,
		ByClass:   byClass,
	}
}

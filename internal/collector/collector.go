// Package collector aggregates submission events and produces the final
// run summary.
package collector

import (
	"sync"
	"sync/atomic"
	"time"

	"formsmith/internal/core"
)

// Collector consumes events from workers. Terminal-outcome counters are
// updated synchronously so progress observations are always consistent;
// the event log behind the detailed metrics is fed through a buffered
// channel and may drop under extreme pressure.
type Collector struct {
	events    []core.Event
	ch        chan core.Event
	done      chan struct{}
	mu        sync.Mutex
	closed    atomic.Bool
	startTime time.Time
	endTime   time.Time

	succeeded atomic.Int32
	failed    atomic.Int32
	retries   atomic.Int32
}

// Snapshot is a consistent view of the live counters.
type Snapshot struct {
	Completed int // Succeeded + Failed
	Succeeded int
	Failed    int
	Retries   int
}

// NewCollector creates a Collector and starts its collection goroutine.
func NewCollector() *Collector {
	c := &Collector{
		ch:        make(chan core.Event, 1000),
		done:      make(chan struct{}),
		startTime: time.Now(),
	}
	go c.collect()
	return c
}

func (c *Collector) collect() {
	for event := range c.ch {
		c.mu.Lock()
		c.events = append(c.events, event)
		c.mu.Unlock()
	}
	close(c.done)
}

// Report ingests an event. Thread-safe.
func (c *Collector) Report(event core.Event) {
	if event.Terminal {
		if event.Success {
			c.succeeded.Add(1)
		} else {
			c.failed.Add(1)
		}
		if event.Attempt > 0 {
			c.retries.Add(int32(event.Attempt))
		}
	}
	if c.closed.Load() {
		return
	}
	select {
	case c.ch <- event:
	default:
	}
}

// Snapshot returns the live tally. Completed is monotonically
// non-decreasing and always equals Succeeded + Failed.
func (c *Collector) Snapshot() Snapshot {
	succeeded := int(c.succeeded.Load())
	failed := int(c.failed.Load())
	return Snapshot{
		Completed: succeeded + failed,
		Succeeded: succeeded,
		Failed:    failed,
		Retries:   int(c.retries.Load()),
	}
}

// Close stops accepting events and waits for the log to drain.
func (c *Collector) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.endTime = time.Now()
	close(c.ch)
	<-c.done
}

// Events returns a copy of the collected event log.
func (c *Collector) Events() []core.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]core.Event, len(c.events))
	copy(result, c.events)
	return result
}

// Duration returns the run duration so far, or the final duration after Close.
func (c *Collector) Duration() time.Duration {
	if !c.endTime.IsZero() {
		return c.endTime.Sub(c.startTime)
	}
	return time.Since(c.startTime)
}

// Compute builds detailed metrics from the event log.
func (c *Collector) Compute() *Metrics {
	return ComputeMetrics(c.Events(), c.Duration())
}

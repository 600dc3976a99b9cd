// Package progress renders a live submission counter on stderr. It
// observes the collector's counters and never gates control flow.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"formsmith/internal/collector"
	"formsmith/internal/core"
)

type Progress struct {
	clock     core.Clock
	startTime time.Time
	collector *collector.Collector
	total     int
	activeFn  func() int // optional live worker count
	ticker    *time.Ticker
	stopCh    chan struct{}
	stopped   atomic.Bool
	quiet     bool
	output    io.Writer
	mu        sync.Mutex
}

func NewProgress(c *collector.Collector, total int, quiet bool) *Progress {
	return &Progress{
		clock:     core.RealClock{},
		collector: c,
		total:     total,
		quiet:     quiet,
		output:    os.Stderr,
	}
}

func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = w
}

// SetClock replaces the wall clock, for tests.
func (p *Progress) SetClock(clock core.Clock) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = clock
}

// SetActiveFunc wires in a live active-session count for the ticker line.
func (p *Progress) SetActiveFunc(fn func() int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activeFn = fn
}

func (p *Progress) Start() {
	if p.quiet {
		return
	}
	p.startTime = p.clock.Now()
	p.stopCh = make(chan struct{})
	p.ticker = time.NewTicker(1 * time.Second)
	go p.run()
}

func (p *Progress) run() {
	for {
		select {
		case <-p.stopCh:
			return
		case <-p.ticker.C:
			p.printProgress()
		}
	}
}

func (p *Progress) printProgress() {
	snap := p.collector.Snapshot()
	elapsed := p.clock.Since(p.startTime).Round(time.Second)
	mins := int(elapsed.Minutes())
	secs := int(elapsed.Seconds()) % 60

	p.mu.Lock()
	defer p.mu.Unlock()
	line := fmt.Sprintf("\033[K[%02d:%02d] %d/%d submitted | ok %d | failed %d | retries %d",
		mins, secs, snap.Completed, p.total, snap.Succeeded, snap.Failed, snap.Retries)
	if p.activeFn != nil {
		line += fmt.Sprintf(" | active %d", p.activeFn())
	}
	fmt.Fprint(p.output, line)
}

func (p *Progress) Stop() {
	if p.quiet || p.stopped.Swap(true) {
		return
	}
	if p.ticker != nil {
		p.ticker.Stop()
	}
	if p.stopCh != nil {
		close(p.stopCh)
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\033[K")
	p.mu.Unlock()
}

func (p *Progress) Print(message string) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\033[K%s\n", message)
	p.mu.Unlock()
}

func (p *Progress) Printf(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\033[K"+format+"\n", args...)
	p.mu.Unlock()
}

package progress

import (
	"strings"
	"sync"
	"testing"
	"time"

	"formsmith/internal/collector"
	"formsmith/internal/core"
)

// syncWriter is a thread-safe io.Writer for assertions.
type syncWriter struct {
	mu   sync.Mutex
	data []byte
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return string(w.data)
}

func TestProgressRendersCounts(t *testing.T) {
	c := collector.NewCollector()
	defer c.Close()
	c.Report(core.Event{Terminal: true, Success: true})
	c.Report(core.Event{Terminal: true, Success: false, Class: core.ClassNavigation})

	p := NewProgress(c, 10, false)
	w := &syncWriter{}
	p.SetOutput(w)
	p.SetActiveFunc(func() int { return 3 })

	clock := core.NewFakeClock(time.Unix(1000, 0))
	p.SetClock(clock)
	p.startTime = clock.Now()
	clock.Advance(65 * time.Second)

	p.printProgress()

	out := w.String()
	for _, want := range []string{"[01:05]", "2/10 submitted", "ok 1", "failed 1", "active 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("progress line missing %q: %q", want, out)
		}
	}
}

func TestQuietSuppressesOutput(t *testing.T) {
	c := collector.NewCollector()
	defer c.Close()

	p := NewProgress(c, 5, true)
	w := &syncWriter{}
	p.SetOutput(w)

	p.Start()
	p.Print("hello")
	p.Printf("count %d", 1)
	p.Stop()

	if w.String() != "" {
		t.Errorf("quiet progress produced output: %q", w.String())
	}
}

func TestStartStopTicksWithoutRace(t *testing.T) {
	c := collector.NewCollector()
	defer c.Close()

	p := NewProgress(c, 100, false)
	w := &syncWriter{}
	p.SetOutput(w)

	p.Start()
	c.Report(core.Event{Terminal: true, Success: true})
	time.Sleep(1100 * time.Millisecond)
	p.Stop()
	p.Stop() // idempotent

	if !strings.Contains(w.String(), "1/100 submitted") {
		t.Errorf("expected at least one tick, got %q", w.String())
	}
}

func TestPrintfWritesMessage(t *testing.T) {
	c := collector.NewCollector()
	defer c.Close()

	p := NewProgress(c, 5, false)
	w := &syncWriter{}
	p.SetOutput(w)

	p.Printf("starting %d workers", 4)
	if !strings.Contains(w.String(), "starting 4 workers") {
		t.Errorf("got %q", w.String())
	}
}

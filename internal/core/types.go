// Package core defines the fundamental interfaces and types for Formsmith.
package core

import (
	"time"

	"github.com/google/uuid"
)

// Task is one logical submission of the target form.
type Task struct {
	ID      string // unique per task, stable across retries
	Index   int    // position in [0, count)
	Attempt int    // 0 on first run, incremented by the retry policy
}

// NewTask creates a task for the given queue index.
func NewTask(index int) Task {
	return Task{ID: uuid.NewString(), Index: index}
}

// Outcome is the terminal result of a task after the retry policy has
// finished with it. Exactly one Outcome exists per task.
type Outcome struct {
	Task     Task
	Success  bool
	Class    Class  // failure class, ClassNone on success
	Reason   string // human-readable failure reason
	Attempts int    // total session runs, >= 1
	Duration time.Duration
}

// Failure builds a failed Outcome for the task.
func Failure(task Task, class Class, reason string) Outcome {
	return Outcome{
		Task:     task,
		Class:    class,
		Reason:   reason,
		Attempts: task.Attempt + 1,
	}
}

// Event represents a single measurement from a form session: one state
// transition or one terminal outcome.
type Event struct {
	TaskID    string
	Index     int
	Attempt   int
	Timestamp time.Time
	State     string // "navigate", "fill:Participant Information", "submit", ...
	Terminal  bool   // true for the task's final outcome event
	Success   bool
	Class     Class
	Error     string
	Duration  time.Duration
}

// Reporter is the interface sessions and the pool use to publish events.
// Implementations must be safe for concurrent use.
type Reporter interface {
	Report(Event)
}

// NullReporter discards all events.
var NullReporter Reporter = nullReporter{}

type nullReporter struct{}

func (nullReporter) Report(Event) {}

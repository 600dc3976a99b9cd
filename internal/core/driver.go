package core

import (
	"context"
	"time"
)

// FormDriver is one isolated browser instance driving the target form.
// Implementations classify every error they return (see Fault); callers
// branch on the class, never on driver-specific error types.
//
// A FormDriver is owned by exactly one session attempt and must be
// closed before the owning worker begins its next iteration.
type FormDriver interface {
	// Navigate loads the form URL and waits for the form to render.
	Navigate(ctx context.Context, url string) error

	// ProbeSchema verifies the current page carries a fillable form.
	// Returns a ClassSchemaAbsent fault when it does not.
	ProbeSchema(ctx context.Context) error

	// FillText writes value into the text input belonging to the
	// question with the given visible prompt.
	FillText(ctx context.Context, prompt, value string) error

	// SelectChoice selects one enumerated option of a choice question.
	SelectChoice(ctx context.Context, prompt, option string) error

	// SetCheckbox checks or unchecks the checkbox with the given label.
	SetCheckbox(ctx context.Context, label string, checked bool) error

	// NextSection advances to the next form section.
	NextSection(ctx context.Context) error

	// Submit triggers the submission action.
	Submit(ctx context.Context) error

	// AwaitConfirmation waits up to timeout for the post-submit
	// confirmation signal. Returns a ClassUnconfirmed fault on absence.
	AwaitConfirmation(ctx context.Context, timeout time.Duration) error

	// Close releases the browser instance. Safe to call more than once.
	Close() error
}

// DriverFactory acquires fresh FormDriver instances, one per session
// attempt. Acquisition failures are ClassResource faults.
type DriverFactory interface {
	Acquire(ctx context.Context) (FormDriver, error)
	Shutdown() error
}

// TaskRunner executes one task to a terminal outcome. The retry policy
// and the form session both implement it, which lets the pool stay
// ignorant of retry semantics.
type TaskRunner interface {
	Run(ctx context.Context, task Task) Outcome
}

// RunnerFunc adapts a function to the TaskRunner interface.
type RunnerFunc func(ctx context.Context, task Task) Outcome

func (f RunnerFunc) Run(ctx context.Context, task Task) Outcome {
	return f(ctx, task)
}

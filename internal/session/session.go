// Package session executes the fill-and-submit state machine for a
// single form submission: acquire a browser, navigate, fill every
// section, submit, and verify the confirmation signal.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"formsmith/internal/answers"
	"formsmith/internal/core"
	"formsmith/internal/schema"
)

// State names, reported once per transition.
const (
	StateInit     = "init"
	StateNavigate = "navigate"
	StateFill     = "fill" // suffixed with the section name
	StateSubmit   = "submit"
	StateConfirm  = "confirm"
	StateDone     = "done"
)

// Config bounds the session's waits.
type Config struct {
	URL            string
	ConfirmTimeout time.Duration // wait for the post-submit confirmation
}

const defaultConfirmTimeout = 15 * time.Second

// Session runs one submission attempt per call. It implements
// core.TaskRunner and is safe for concurrent use; each Run owns a
// private browser instance for its whole lifetime.
type Session struct {
	factory  core.DriverFactory
	gen      *answers.Generator
	reporter core.Reporter
	log      *slog.Logger
	cfg      Config
}

// New creates a session runner. reporter and log may be nil.
func New(factory core.DriverFactory, gen *answers.Generator, reporter core.Reporter, log *slog.Logger, cfg Config) *Session {
	if reporter == nil {
		reporter = core.NullReporter
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = defaultConfirmTimeout
	}
	return &Session{factory: factory, gen: gen, reporter: reporter, log: log, cfg: cfg}
}

// Run drives one attempt to a terminal outcome. All errors are caught
// here and converted into classified failures; callers never see them.
func (s *Session) Run(ctx context.Context, task core.Task) core.Outcome {
	start := time.Now()

	if ctx.Err() != nil {
		return s.fail(ctx, task, StateInit, start, core.Faultf(core.ClassCancelled, "run cancelled"))
	}

	// Fresh answers every attempt; retried submissions must not repeat
	// the previous attempt's values.
	set, err := s.gen.Generate()
	if err != nil {
		return s.fail(ctx, task, StateInit, start, fmt.Errorf("generating answers: %w", err))
	}

	drv, err := s.factory.Acquire(ctx)
	if err != nil {
		return s.fail(ctx, task, StateInit, start, err)
	}
	defer drv.Close()
	s.transition(task, StateInit, start)

	stepStart := time.Now()
	if err := drv.Navigate(ctx, s.cfg.URL); err != nil {
		return s.fail(ctx, task, StateNavigate, start, err)
	}
	if err := drv.ProbeSchema(ctx); err != nil {
		return s.fail(ctx, task, StateNavigate, start, err)
	}
	s.transition(task, StateNavigate, stepStart)

	last := len(set.Sections) - 1
	for i, sec := range set.Sections {
		stepStart = time.Now()
		state := StateFill + ":" + sec.Name

		if err := s.fillSection(ctx, drv, sec); err != nil {
			return s.fail(ctx, task, state, start, err)
		}
		if i < last {
			if err := drv.NextSection(ctx); err != nil {
				return s.fail(ctx, task, state, start, err)
			}
		}
		s.transition(task, state, stepStart)
	}

	stepStart = time.Now()
	if err := drv.Submit(ctx); err != nil {
		return s.fail(ctx, task, StateSubmit, start, err)
	}
	s.transition(task, StateSubmit, stepStart)

	stepStart = time.Now()
	if err := drv.AwaitConfirmation(ctx, s.cfg.ConfirmTimeout); err != nil {
		return s.fail(ctx, task, StateConfirm, start, err)
	}
	s.transition(task, StateConfirm, stepStart)

	s.log.Info("submission confirmed", "task", task.ID, "index", task.Index, "attempt", task.Attempt)
	return core.Outcome{
		Task:     task,
		Success:  true,
		Attempts: task.Attempt + 1,
		Duration: time.Since(start),
	}
}

func (s *Session) fillSection(ctx context.Context, drv core.FormDriver, sec answers.SectionAnswers) error {
	for _, ans := range sec.Answers {
		var err error
		switch ans.Field.Kind {
		case schema.KindText:
			err = drv.FillText(ctx, ans.Field.Prompt, ans.Value)
		case schema.KindChoice:
			err = drv.SelectChoice(ctx, ans.Field.Prompt, ans.Value)
		case schema.KindCheckbox:
			err = drv.SetCheckbox(ctx, ans.Field.Prompt, ans.Checked)
		default:
			err = core.Faultf(core.ClassInternal, "unknown field kind %q", ans.Field.Kind)
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", ans.Field.Prompt, err)
		}
	}
	return nil
}

func (s *Session) transition(task core.Task, state string, since time.Time) {
	s.log.Debug("state complete", "task", task.ID, "attempt", task.Attempt, "state", state)
	s.reporter.Report(core.Event{
		TaskID:    task.ID,
		Index:     task.Index,
		Attempt:   task.Attempt,
		Timestamp: time.Now(),
		State:     state,
		Success:   true,
		Duration:  time.Since(since),
	})
}

func (s *Session) fail(ctx context.Context, task core.Task, state string, start time.Time, err error) core.Outcome {
	class := core.Classify(err)
	// A cancellation that surfaces as a driver timeout is still a
	// cancellation at the run level.
	if ctx.Err() != nil {
		class = core.ClassCancelled
	}
	s.log.Warn("attempt failed",
		"task", task.ID, "attempt", task.Attempt, "state", state,
		"class", string(class), "error", err)
	s.reporter.Report(core.Event{
		TaskID:    task.ID,
		Index:     task.Index,
		Attempt:   task.Attempt,
		Timestamp: time.Now(),
		State:     state,
		Success:   false,
		Class:     class,
		Error:     err.Error(),
		Duration:  time.Since(start),
	})

	out := core.Failure(task, class, err.Error())
	out.Duration = time.Since(start)
	return out
}

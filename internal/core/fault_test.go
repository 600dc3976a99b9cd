package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassRecoverable(t *testing.T) {
	tests := []struct {
		class       Class
		recoverable bool
	}{
		{ClassResource, true},
		{ClassNavigation, true},
		{ClassFieldNotFound, true},
		{ClassUnconfirmed, true},
		{ClassSchemaAbsent, false},
		{ClassCancelled, false},
		{ClassInternal, false},
		{ClassNone, false},
	}

	for _, tt := range tests {
		if got := tt.class.Recoverable(); got != tt.recoverable {
			t.Errorf("Class(%q).Recoverable() = %v, want %v", tt.class, got, tt.recoverable)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"nil", nil, ClassNone},
		{"fault", NewFault(ClassNavigation, errors.New("timeout")), ClassNavigation},
		{"wrapped fault", fmt.Errorf("attempt 2: %w", Faultf(ClassSchemaAbsent, "no form")), ClassSchemaAbsent},
		{"context canceled", context.Canceled, ClassCancelled},
		{"deadline exceeded", context.DeadlineExceeded, ClassCancelled},
		{"plain error", errors.New("boom"), ClassInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestFaultErrorAndUnwrap(t *testing.T) {
	inner := errors.New("element not visible")
	f := NewFault(ClassFieldNotFound, inner)

	if !errors.Is(f, inner) {
		t.Error("expected errors.Is to reach the wrapped error")
	}
	if f.Error() != "field_not_found: element not visible" {
		t.Errorf("unexpected Error(): %q", f.Error())
	}
}

func TestFailureCountsAttempts(t *testing.T) {
	task := NewTask(3)
	task.Attempt = 2

	out := Failure(task, ClassUnconfirmed, "no confirmation")
	if out.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", out.Attempts)
	}
	if out.Success {
		t.Error("failure outcome marked successful")
	}
}

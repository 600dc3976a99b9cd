package core

import (
	"context"
	"errors"
	"fmt"
)

// Class partitions failures into the taxonomy the retry policy branches on.
type Class string

const (
	// ClassNone marks a successful outcome.
	ClassNone Class = ""
	// ClassResource: browser instance could not be acquired.
	ClassResource Class = "resource"
	// ClassNavigation: the form URL did not load in time.
	ClassNavigation Class = "navigation"
	// ClassFieldNotFound: a schema field could not be located on the page
	// within the bounded wait (selector drift, slow render).
	ClassFieldNotFound Class = "field_not_found"
	// ClassSchemaAbsent: the page carries no form at all (wrong URL,
	// form removed). Never retried.
	ClassSchemaAbsent Class = "schema_absent"
	// ClassUnconfirmed: submission triggered but no confirmation signal
	// appeared. Presumed transient rate limiting.
	ClassUnconfirmed Class = "unconfirmed"
	// ClassCancelled: the run-level cancellation signal fired.
	ClassCancelled Class = "cancelled"
	// ClassInternal: a fault outside the taxonomy (bug, panic).
	ClassInternal Class = "internal"
)

// Recoverable reports whether the class is eligible for retry.
func (c Class) Recoverable() bool {
	switch c {
	case ClassResource, ClassNavigation, ClassFieldNotFound, ClassUnconfirmed:
		return true
	}
	return false
}

// Fault is a classified error. Drivers classify at their boundary; the
// session converts faults into Outcomes; nothing above the session sees
// raw errors.
type Fault struct {
	Class Class
	Err   error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %v", f.Class, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// NewFault wraps err with a failure class.
func NewFault(class Class, err error) *Fault {
	return &Fault{Class: class, Err: err}
}

// Faultf builds a classified error from a format string.
func Faultf(class Class, format string, args ...any) *Fault {
	return &Fault{Class: class, Err: fmt.Errorf(format, args...)}
}

// Classify extracts the failure class from err. Context cancellation maps
// to ClassCancelled, unclassified errors to ClassInternal.
func Classify(err error) Class {
	if err == nil {
		return ClassNone
	}
	var f *Fault
	if errors.As(err, &f) {
		return f.Class
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassCancelled
	}
	return ClassInternal
}

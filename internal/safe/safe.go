// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package safe contains utilities for executing user-provided
// functions.
package safe

import (
	"errors"
	"fmt"
	"iter"
	"runtime"
	"strings"
)

const captureDepth = 32

// A RecoveredError associates an error with a stack trace.
type RecoveredError struct {
	Err   error
	Stack []uintptr
}

// Error implements error.
func (e *RecoveredError) Error() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "recovered: %v\n", e.Err)
	frames := runtime.CallersFrames(e.Stack)
	for {
		frame, more := frames.Next()
		_, _ = fmt.Fprintf(&sb, "%s ( %s:%d )\n", frame.Function, frame.File, frame.Line)

		if !more {
			return sb.String()
		}
	}
}

// String is for debugging use only.
func (e *RecoveredError) String() string {
	return e.Error()
}

// Unwrap return the enclosed error.
func (e *RecoveredError) Unwrap() error { return e.Err }

// recovered converts a value returned from recover into a
// RecoveredError.
func recovered(r any, err error) error {
	switch t := r.(type) {
	case error:
		err = errors.Join(err, t)
	default:
		err = errors.Join(err, fmt.Errorf("panic: %v", t))
	}
	stack := make([]uintptr, captureDepth)
	stack = stack[:runtime.Callers(3, stack)]
	return &RecoveredError{
		Err:   err,
		Stack: stack,
	}
}

// Call executes the function. If the function panics, an error will be
// returned.
func Call(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r, nil)
		}
	}()
	fn()
	return
}

// CallRE executes the function, returning some result value. If the
// function panics, the recovered value will be added to the returned
// error.
func CallRE[R any](fn func() (R, error)) (ret R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r, err)
		}
	}()
	ret, err = fn()
	return
}

// Each invokes the callback for every element of the sequence, even if
// an earlier invocation panicked. Recovered panics are joined, in
// sequence order, into the returned error.
func Each[T any](items iter.Seq[T], fn func(T)) error {
	var errs []error
	for item := range items {
		if err := Call(func() { fn(item) }); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seque

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocationFailed is wrapped by every [AllocationError].
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrLinked is the panic value when a node that already has a
	// successor is linked again.
	ErrLinked = errors.New("replacing existing node")

	// ErrPointerElem is returned when a Seque is constructed for an
	// element type that contains Go pointers.
	ErrPointerElem = errors.New("element type contains pointers")

	// ErrReleased is the panic value when a Seque is used after
	// [Seque.Release].
	ErrReleased = errors.New("use of released seque")
)

// An AllocationError reports that the [alloc.MemoryResource] refused a
// request. No state visible to the caller changes when it is returned.
type AllocationError struct {
	What  string  // "segment", "node", or "chain"
	Size  uintptr // Requested bytes.
	Align uintptr
}

// Error implements error.
func (e *AllocationError) Error() string {
	return fmt.Sprintf("%s: %v (%d bytes, align %d)",
		e.What, ErrAllocationFailed, e.Size, e.Align)
}

// Unwrap returns [ErrAllocationFailed].
func (e *AllocationError) Unwrap() error { return ErrAllocationFailed }

// An IndexError is the panic value for an out-of-range access.
type IndexError struct {
	Len   int
	Index int
}

// Error implements error.
func (e *IndexError) Error() string {
	return fmt.Sprintf("index out of bounds: the len is %d but the index is %d",
		e.Len, e.Index)
}

// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"errors"
	"fmt"
	"unsafe"

	"vawter.tech/seque/internal/borrow"
	"vawter.tech/seque/internal/layout"
)

// ErrBorrowed is reported via a [BorrowError] when a MemoryResource is
// entered while another call into it is still active.
var ErrBorrowed = borrow.ErrBorrowed

// A BorrowError is the panic value for reentrant use of an [Allocator].
type BorrowError struct {
	Op       string         // The operation that was refused.
	Resource MemoryResource // The resource that was already borrowed.
	Err      error          // The value raised by the borrow check.
}

// Error implements error.
func (e *BorrowError) Error() string {
	return fmt.Sprintf("%s: %T: %v", e.Op, e.Resource, e.Unwrap())
}

// Unwrap returns the enclosed error, which is [ErrBorrowed] for any
// BorrowError raised by an Allocator.
func (e *BorrowError) Unwrap() error {
	if e.Err == nil {
		return ErrBorrowed
	}
	return e.Err
}

// An Allocator is a shared handle to a single [MemoryResource]. The
// zero value is not usable; construct handles with [New].
//
// Copying an Allocator, or calling [Allocator.Clone], yields another
// handle to the same resource. An Allocator is not safe for concurrent
// use.
type Allocator struct {
	cell *borrow.Cell[MemoryResource]
}

// New constructs a handle around the resource.
func New(res MemoryResource) Allocator {
	if res == nil {
		panic(errors.New("nil MemoryResource"))
	}
	return Allocator{cell: borrow.New(res)}
}

// Clone returns another handle to the same resource.
func (a Allocator) Clone() Allocator { return a }

// Same returns true if both handles refer to the same resource.
func (a Allocator) Same(other Allocator) bool { return a.cell == other.cell }

// Valid returns false for the zero value.
func (a Allocator) Valid() bool { return a.cell != nil }

// Borrow grants the callback exclusive access to the resource.
func (a Allocator) Borrow(fn func(MemoryResource)) {
	a.with("borrow", func(res MemoryResource) unsafe.Pointer {
		fn(res)
		return nil
	})
}

// AllocateBytes delegates to [MemoryResource.AllocateBytes].
func (a Allocator) AllocateBytes(size, align uintptr) unsafe.Pointer {
	return a.with("allocate", func(res MemoryResource) unsafe.Pointer {
		return res.AllocateBytes(size, align)
	})
}

// DeallocateBytes delegates to [MemoryResource.DeallocateBytes].
func (a Allocator) DeallocateBytes(p unsafe.Pointer, size, align uintptr) {
	a.with("deallocate", func(res MemoryResource) unsafe.Pointer {
		res.DeallocateBytes(p, size, align)
		return nil
	})
}

// with converts a borrow failure into a BorrowError.
func (a Allocator) with(op string, fn func(MemoryResource) unsafe.Pointer) unsafe.Pointer {
	if a.cell == nil {
		panic(errors.New("use of zero-value Allocator"))
	}
	if a.cell.Active() {
		// Let the cell record the rejection.
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if err, ok := r.(error); ok && errors.Is(err, ErrBorrowed) {
				panic(&BorrowError{Op: op, Resource: a.cell.Peek(), Err: err})
			}
			panic(r)
		}()
	}
	return borrow.With(a.cell, fn)
}

// Allocate returns uninitialized storage for count values of type T,
// or nil if the resource is exhausted or the size would overflow.
func Allocate[T any](a Allocator, count int) *T {
	size, align := layout.Of[T]()
	n, ok := layout.Array(size, count)
	if !ok {
		return nil
	}
	return (*T)(a.AllocateBytes(n, align))
}

// Deallocate releases storage returned by [Allocate]. The count must
// match the original request.
func Deallocate[T any](a Allocator, p *T, count int) {
	size, align := layout.Of[T]()
	n, ok := layout.Array(size, count)
	if !ok {
		panic(fmt.Errorf("deallocate: size overflow for %d values", count))
	}
	a.DeallocateBytes(unsafe.Pointer(p), n, align)
}

// AllocateSlice is a convenience wrapper around [Allocate] that
// returns a slice of length count, or nil on exhaustion.
func AllocateSlice[T any](a Allocator, count int) []T {
	p := Allocate[T](a, count)
	if p == nil {
		return nil
	}
	return unsafe.Slice(p, count)
}

// DeallocateSlice releases a slice returned by [AllocateSlice].
func DeallocateSlice[T any](a Allocator, s []T) {
	Deallocate(a, unsafe.SliceData(s), len(s))
}

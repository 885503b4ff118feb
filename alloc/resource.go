// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package alloc defines the [MemoryResource] capability and the
// [Allocator] handle through which containers obtain raw memory.
//
// A MemoryResource satisfies and releases alignment-respecting byte
// ranges. Exhaustion is an ordinary outcome, reported by returning a
// nil pointer. The [Heap] and [Bump] types are the two reference
// backing strategies. Decorators that add accounting, quotas, or
// observability live in sibling packages and wrap any MemoryResource.
//
// An [Allocator] is a cheap, copyable handle to exactly one
// MemoryResource. Copies made with [Allocator.Clone] refer to the same
// resource. Only one call may be inside the resource at a time; a
// resource that re-enters a handle to itself will panic with a
// [BorrowError].
package alloc

import "unsafe"

// A MemoryResource provides raw, aligned memory.
//
// Implementations must keep every region they issue reachable until it
// has been passed to DeallocateBytes and must never move an issued
// region. Regions issued by a MemoryResource should be treated as
// containing no Go pointers that the garbage collector can see.
type MemoryResource interface {
	// AllocateBytes returns a pointer to at least size bytes aligned to
	// align, or nil if the request cannot be satisfied. The align
	// value must be a power of two. A zero-sized request returns a
	// non-nil pointer which must still be deallocated.
	AllocateBytes(size, align uintptr) unsafe.Pointer

	// DeallocateBytes releases a region previously returned by
	// AllocateBytes. The size and align must match the original
	// request. Implementations are free to ignore the call.
	DeallocateBytes(p unsafe.Pointer, size, align uintptr)
}

// zeroBase is handed out for zero-sized requests.
var zeroBase uint64

// ZeroSized returns the pointer that the reference resources use to
// satisfy zero-sized requests.
func ZeroSized() unsafe.Pointer { return unsafe.Pointer(&zeroBase) }

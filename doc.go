// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package seque provides a growable, segmented sequence container that
// obtains all of its memory from a pluggable allocator.
//
// A [Seque] never touches a default allocator. Its storage comes from
// an [alloc.Allocator] handle, which wraps an [alloc.MemoryResource]
// such as a heap-backed [alloc.Heap] or a fixed-buffer [alloc.Bump].
// This makes the container usable in settings where every byte must be
// accounted for or drawn from a pre-sized region.
//
// # Creating a Seque
//
// The segment length is a type parameter. The N types in this package
// cover common sizes; any zero-sized type implementing [SegmentLen]
// may be used instead.
//
//	a := alloc.New(alloc.NewBump(4096))
//	s, err := seque.WithCapacityIn[int64, seque.N16](0, a)
//	if err != nil { return err }
//	defer s.Release()
//
// A request for up to N elements allocates one segment. Larger
// requests allocate the smallest number of segments that can hold
// them.
//
// # Growth
//
// [Seque.PushBack] adds exactly one segment when the container is
// full. Growth is additive rather than geometric: the sequence of
// capacities observed by a caller is N, 2N, 3N, and so on. Locating a
// segment walks the chain from the head, so indexing costs O(i/N) and
// pushing does not have amortized O(1) cost.
//
// Exhaustion of the allocator is not fatal. [WithCapacityIn] and
// [Seque.PushBack] return an [AllocationError] and leave the container
// unchanged, so a caller may retry with a different resource (see the
// fallback package).
//
// # Accessing elements
//
// [Seque.At], [Seque.Ptr], and [Seque.Set] are bounds-checked against
// [Seque.Len], not [Seque.Cap]. An out-of-range index is a programming
// error and panics with an [IndexError] reporting both the length and
// the index.
//
// [Seque.All], [Seque.Pointers], and [Seque.Values] are lazy,
// restartable iterators in index order. [Seque.Segments] exposes the
// underlying contiguous storage one segment at a time.
//
// # Element types and teardown
//
// Segments live in memory whose contents the garbage collector does not
// scan, so element types must not contain Go pointers (including
// strings, slices, maps, and interfaces). [WithCapacityIn] returns
// [ErrPointerElem] for such types.
//
// [Seque.Release] returns every segment to the allocator, tail first.
// It does not run any per-element teardown unless a function was
// installed with [WithDrop], in which case that function is invoked on
// each element before any memory is released.
//
// # Allocator handles
//
// An [alloc.Allocator] may be shared by any number of containers. Only
// one call may be inside the underlying resource at a time. A resource
// that calls back into a handle for itself panics with an
// [alloc.BorrowError]. Handles are not safe for concurrent use.
//
// # Decorators
//
// The tracked, linger, limit, fallback, metrics, and logged packages
// provide [alloc.MemoryResource] decorators for leak detection, quotas,
// failover, and observability. The config package builds a decorated
// resource from a YAML description.
package seque

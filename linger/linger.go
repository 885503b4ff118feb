// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package linger contains a utility for reporting on where lingering
// allocations were originally made.
package linger

import (
	"cmp"
	"runtime"
	"slices"
	"unsafe"

	"vawter.tech/seque/alloc"
)

// This value is sensitive to the code structure.
const callersOffset = 2

// NewRecorder constructs a [Recorder] around the resource that samples
// the call stack at the requested depth. A depth of 1 will record the
// location from which [Recorder.AllocateBytes] was called.
func NewRecorder(inner alloc.MemoryResource, depth int) *Recorder {
	return &Recorder{
		inner: inner,
		depth: depth,
		data:  make(map[unsafe.Pointer][]sample),
	}
}

// A Recorder is an [alloc.MemoryResource] decorator that records the
// call stack of every outstanding allocation. It is primarily useful
// for testing scenarios, to ensure that a container has released all
// of its memory.
//
// Resources may issue the same pointer more than once for zero-sized
// requests; each issue is recorded separately.
type Recorder struct {
	counter uint64
	data    map[unsafe.Pointer][]sample
	depth   int
	inner   alloc.MemoryResource
	live    int
}

type sample struct {
	seq   uint64
	stack []uintptr
}

var _ alloc.MemoryResource = (*Recorder)(nil)

// AllocateBytes implements [alloc.MemoryResource].
func (r *Recorder) AllocateBytes(size, align uintptr) unsafe.Pointer {
	p := r.inner.AllocateBytes(size, align)
	if p == nil {
		return nil
	}
	pc := make([]uintptr, r.depth)
	pc = pc[:runtime.Callers(callersOffset, pc)]

	r.counter++
	r.data[p] = append(r.data[p], sample{seq: r.counter, stack: pc})
	r.live++
	return p
}

// DeallocateBytes implements [alloc.MemoryResource].
func (r *Recorder) DeallocateBytes(p unsafe.Pointer, size, align uintptr) {
	if found := r.data[p]; len(found) > 0 {
		if len(found) == 1 {
			delete(r.data, p)
		} else {
			r.data[p] = found[:len(found)-1]
		}
		r.live--
	}
	r.inner.DeallocateBytes(p, size, align)
}

// Callers returns a snapshot of the caller stacks associated with any
// outstanding allocations, in allocation order.
func (r *Recorder) Callers() [][]uintptr {
	samples := make([]sample, 0, r.live)
	for _, found := range r.data {
		samples = append(samples, found...)
	}
	slices.SortFunc(samples, func(a, b sample) int {
		return cmp.Compare(a.seq, b.seq)
	})
	ret := make([][]uintptr, len(samples))
	for i, s := range samples {
		ret[i] = s.stack
	}
	return ret
}

// Len returns the number of outstanding allocations.
func (r *Recorder) Len() int { return r.live }

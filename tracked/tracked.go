// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package tracked contains a [alloc.MemoryResource] decorator that
// accounts for outstanding bytes in order to detect leaks.
package tracked

import (
	"fmt"
	"unsafe"

	"github.com/dustin/go-humanize"
	"vawter.tech/seque/alloc"
)

// LeakError is returned from [Tracked.Close] if memory is outstanding.
type LeakError struct {
	Bytes  int64 // Allocated minus deallocated bytes.
	Blocks int64 // Allocations minus deallocations.
}

// Error implements error.
func (e *LeakError) Error() string {
	return fmt.Sprintf("leaked %s in %d blocks",
		humanize.IBytes(uint64(max(e.Bytes, 0))), e.Blocks)
}

// Tracked wraps another resource and accumulates the number of bytes
// that have been allocated but not yet deallocated.
type Tracked struct {
	inner  alloc.MemoryResource
	bytes  int64
	blocks int64
	peak   int64
}

var _ alloc.MemoryResource = (*Tracked)(nil)

// New wraps the resource.
func New(inner alloc.MemoryResource) *Tracked {
	return &Tracked{inner: inner}
}

// AllocateBytes implements [alloc.MemoryResource]. Failed allocations
// are not counted.
func (t *Tracked) AllocateBytes(size, align uintptr) unsafe.Pointer {
	p := t.inner.AllocateBytes(size, align)
	if p != nil {
		t.bytes += int64(size)
		t.blocks++
		t.peak = max(t.peak, t.bytes)
	}
	return p
}

// DeallocateBytes implements [alloc.MemoryResource]. Nil pointers are
// not counted.
func (t *Tracked) DeallocateBytes(p unsafe.Pointer, size, align uintptr) {
	if p != nil {
		t.bytes -= int64(size)
		t.blocks--
	}
	t.inner.DeallocateBytes(p, size, align)
}

// Close reports a [LeakError] if any bytes are outstanding. The
// wrapped resource is not closed.
func (t *Tracked) Close() error {
	if t.bytes == 0 && t.blocks == 0 {
		return nil
	}
	return &LeakError{Bytes: t.bytes, Blocks: t.blocks}
}

// Count returns the number of outstanding bytes.
func (t *Tracked) Count() int64 { return t.bytes }

// Blocks returns the number of outstanding allocations.
func (t *Tracked) Blocks() int64 { return t.blocks }

// Inner returns the wrapped resource.
func (t *Tracked) Inner() alloc.MemoryResource { return t.inner }

// Peak returns the high-water mark of outstanding bytes.
func (t *Tracked) Peak() int64 { return t.peak }

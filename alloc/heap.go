// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"unsafe"

	"vawter.tech/seque/internal/layout"
	"vawter.tech/seque/internal/safe"
)

// Heap is a [MemoryResource] that delegates to the Go runtime. Issued
// blocks are retained in a live table until they are deallocated.
type Heap struct {
	live map[unsafe.Pointer]heapBlock
}

type heapBlock struct {
	backing     []byte
	size, align uintptr
}

var _ MemoryResource = (*Heap)(nil)

// NewHeap constructs an empty Heap.
func NewHeap() *Heap {
	return &Heap{live: make(map[unsafe.Pointer]heapBlock)}
}

// AllocateBytes implements [MemoryResource].
func (h *Heap) AllocateBytes(size, align uintptr) unsafe.Pointer {
	if !layout.IsPow2(align) {
		return nil
	}
	if size == 0 {
		return ZeroSized()
	}
	total := size + align - 1
	if total < size {
		return nil
	}
	// The runtime panics rather than failing for impossible requests.
	backing, err := safe.CallRE(func() ([]byte, error) {
		return make([]byte, total), nil
	})
	if err != nil {
		return nil
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(backing)))
	p := unsafe.Add(unsafe.Pointer(unsafe.SliceData(backing)), layout.AlignUp(base, align)-base)
	h.live[p] = heapBlock{backing: backing, size: size, align: align}
	return p
}

// DeallocateBytes implements [MemoryResource]. Unknown pointers and
// mismatched layouts are ignored.
func (h *Heap) DeallocateBytes(p unsafe.Pointer, size, align uintptr) {
	blk, ok := h.live[p]
	if !ok || blk.size != size || blk.align != align {
		return
	}
	clear(blk.backing)
	delete(h.live, p)
}

// Len returns the number of outstanding blocks.
func (h *Heap) Len() int { return len(h.live) }

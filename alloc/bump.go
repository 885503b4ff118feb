// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"fmt"
	"unsafe"

	"github.com/dustin/go-humanize"
	"vawter.tech/seque/internal/layout"
)

// BumpAlign is the alignment of the first byte of a Bump's buffer.
const BumpAlign = 64

// Bump is a [MemoryResource] backed by a fixed buffer. Allocation
// advances a cursor; individual regions are never reclaimed.
type Bump struct {
	buf  []byte
	used int
}

var _ MemoryResource = (*Bump)(nil)

// NewBump constructs a Bump with the given capacity in bytes.
func NewBump(capacity int) *Bump {
	if capacity < 0 {
		panic(fmt.Errorf("negative capacity: %d", capacity))
	}
	backing := make([]byte, capacity+BumpAlign-1)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(backing)))
	off := int(layout.AlignUp(base, BumpAlign) - base)
	return &Bump{buf: backing[off : off+capacity : off+capacity]}
}

// AllocateBytes implements [MemoryResource]. It returns nil once the
// buffer cannot hold the request and any alignment padding.
func (b *Bump) AllocateBytes(size, align uintptr) unsafe.Pointer {
	if !layout.IsPow2(align) {
		return nil
	}
	start := unsafe.Pointer(unsafe.SliceData(b.buf))
	cursor := uintptr(start) + uintptr(b.used)
	pad := layout.AlignUp(cursor, align) - cursor
	avail := uintptr(len(b.buf) - b.used)
	if pad > avail || size > avail-pad {
		return nil
	}
	p := unsafe.Add(start, uintptr(b.used)+pad)
	b.used += int(pad + size)
	if size == 0 && b.used == len(b.buf) {
		// Don't hand out a pointer past the end of the buffer.
		return ZeroSized()
	}
	return p
}

// DeallocateBytes implements [MemoryResource] as a no-op.
func (b *Bump) DeallocateBytes(unsafe.Pointer, uintptr, uintptr) {}

// Bytes returns the used prefix of the buffer.
func (b *Bump) Bytes() []byte { return b.buf[:b.used] }

// Cap returns the size of the buffer.
func (b *Bump) Cap() int { return len(b.buf) }

// Reset rewinds the cursor and zeroes the buffer. Every region issued
// by the Bump becomes invalid.
func (b *Bump) Reset() {
	clear(b.buf[:b.used])
	b.used = 0
}

// Used returns the number of bytes consumed, including padding.
func (b *Bump) Used() int { return b.used }

// String is for debugging use only.
func (b *Bump) String() string {
	return fmt.Sprintf("bump: %s of %s used",
		humanize.IBytes(uint64(b.used)), humanize.IBytes(uint64(len(b.buf))))
}

// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package fallback

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"vawter.tech/seque/alloc"
	"vawter.tech/seque/tracked"
)

func TestChain(t *testing.T) {
	r := require.New(t)

	bump := alloc.NewBump(64)
	heap := tracked.New(alloc.NewHeap())
	c := New([]alloc.MemoryResource{bump, heap})

	p1 := c.AllocateBytes(48, 8)
	r.NotNil(p1)
	p2 := c.AllocateBytes(48, 8)
	r.NotNil(p2)
	r.Equal([]int{1, 1}, c.Served())
	r.Equal(int64(48), heap.Count())

	// Deallocations are routed to the owner.
	c.DeallocateBytes(p2, 48, 8)
	r.Zero(heap.Count())
	c.DeallocateBytes(p1, 48, 8)
	r.Equal(48, bump.Used())

	// Unknown pointers are ignored.
	var x int
	c.DeallocateBytes(unsafe.Pointer(&x), 8, 8)
	r.NoError(heap.Close())
}

func TestChainExhausted(t *testing.T) {
	r := require.New(t)

	c := New([]alloc.MemoryResource{alloc.NewBump(8), alloc.NewBump(8)})
	r.NotNil(c.AllocateBytes(8, 8))
	r.NotNil(c.AllocateBytes(8, 8))
	r.Nil(c.AllocateBytes(8, 8))
}

func TestChainRetryable(t *testing.T) {
	r := require.New(t)

	heap := alloc.NewHeap()
	c := New([]alloc.MemoryResource{alloc.NewBump(16), heap},
		Retryable(func(size, _ uintptr) bool { return size <= 32 }))

	r.Nil(c.AllocateBytes(64, 8))
	r.NotNil(c.AllocateBytes(32, 8))
	r.Equal(1, heap.Len())
}

func TestChainEmpty(t *testing.T) {
	require.Panics(t, func() { New(nil) })
}

func TestChainRepeatedPointer(t *testing.T) {
	r := require.New(t)

	heap := tracked.New(alloc.NewHeap())
	c := New([]alloc.MemoryResource{alloc.NewBump(0), heap})

	// The bump hands out the same zero-sized region every time.
	p1 := c.AllocateBytes(0, 1)
	p2 := c.AllocateBytes(0, 1)
	r.Equal(p1, p2)
	p3 := c.AllocateBytes(8, 8)
	r.Equal([]int{2, 1}, c.Served())

	// Only the heap tracks zero-sized blocks once the bump is bypassed.
	c = New([]alloc.MemoryResource{heap})
	z1 := c.AllocateBytes(0, 1)
	z2 := c.AllocateBytes(0, 1)
	r.Equal(z1, z2)
	r.Equal(int64(3), heap.Blocks())

	c.DeallocateBytes(z1, 0, 1)
	r.Equal(int64(2), heap.Blocks())
	c.DeallocateBytes(z2, 0, 1)
	r.Equal(int64(1), heap.Blocks())
	c.DeallocateBytes(z2, 0, 1)
	r.Equal(int64(1), heap.Blocks(), "no longer owned")

	heap.DeallocateBytes(p3, 8, 8)
	r.NoError(heap.Close())
}

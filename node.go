// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seque

import (
	"errors"
	"math"
	"unsafe"

	"vawter.tech/seque/alloc"
	"vawter.tech/seque/internal/layout"
)

// A node is one fixed-size segment of a Seque. The head node is
// embedded in the Seque; every successor, struct and data block alike,
// lives in memory obtained from the Seque's Allocator.
//
// Slots beyond the Seque's length are allocated but uninitialized.
type node[T any] struct {
	data []T      // Always of the segment length while allocated.
	next *node[T] // Nil only at the tail.
}

// newNode allocates the data block for a node with n slots.
func newNode[T any](a alloc.Allocator, n int) (node[T], error) {
	data := alloc.AllocateSlice[T](a, n)
	if data == nil {
		return node[T]{}, allocationError[T]("segment", n)
	}
	return node[T]{data: data}, nil
}

// allocationError describes a refused request for count values of T.
func allocationError[T any](what string, count int) error {
	size, align := layout.Of[T]()
	total, _ := layout.Array(size, count)
	return &AllocationError{What: what, Size: total, Align: align}
}

// checkChain refuses a chain of k segments of n slots whose capacity
// or total size in bytes cannot be represented.
func checkChain[T any](n, k int) error {
	size, align := layout.Of[T]()
	data, ok := layout.Array(size, n)
	if ok && k <= math.MaxInt/n {
		perNode := data + unsafe.Sizeof(node[T]{})
		if _, ok := layout.Array(perNode, k); ok {
			return nil
		}
	}
	return &AllocationError{What: "chain", Size: math.MaxUint, Align: align}
}

// tail walks to the end of the chain.
func (nd *node[T]) tail() *node[T] {
	for nd.next != nil {
		nd = nd.next
	}
	return nd
}

// link attaches a successor. A node that is already linked indicates
// a corrupted chain.
func (nd *node[T]) link(next *node[T]) {
	if nd.next != nil {
		panic(ErrLinked)
	}
	nd.next = next
}

// allocateChain appends amount freshly allocated nodes of n slots after
// the true tail of the chain. If any allocation fails, the nodes added
// by this call are released and the chain is left as it was.
func (nd *node[T]) allocateChain(a alloc.Allocator, n, amount int) error {
	tail := nd.tail()
	cur := tail
	for range amount {
		next := alloc.Allocate[node[T]](a, 1)
		if next == nil {
			tail.releaseAfter(a)
			return allocationError[node[T]]("node", 1)
		}
		// The struct holds pointers, so scrub whatever the resource left
		// behind before the first typed write.
		clear(unsafe.Slice((*byte)(unsafe.Pointer(next)), unsafe.Sizeof(*next)))

		fresh, err := newNode[T](a, n)
		if err != nil {
			alloc.Deallocate(a, next, 1)
			tail.releaseAfter(a)
			return err
		}
		*next = fresh
		cur.link(next)
		cur = next
	}
	return nil
}

// slot resolves a logical index to its storage. The caller guarantees
// that the target segment has been allocated.
func (nd *node[T]) slot(idx, n int) *T {
	cur := nd
	for range idx / n {
		cur = cur.next
		if cur == nil {
			panic(errors.New("accessing unallocated segment"))
		}
	}
	return &cur.data[idx%n]
}

// write stores the value at a logical index without reading the
// previous contents.
func (nd *node[T]) write(idx, n int, v T) {
	*nd.slot(idx, n) = v
}

// deallocate releases every successor, then this node's data block.
// The node struct itself is left to its owner.
func (nd *node[T]) deallocate(a alloc.Allocator) {
	nd.releaseAfter(a)
	if nd.data != nil {
		alloc.DeallocateSlice(a, nd.data)
		nd.data = nil
	}
}

// releaseAfter frees the chain that follows this node, struct and data,
// from the tail backwards.
func (nd *node[T]) releaseAfter(a alloc.Allocator) {
	next := nd.next
	if next == nil {
		return
	}
	next.deallocate(a)
	nd.next = nil
	alloc.Deallocate(a, next, 1)
}

// count returns the number of nodes in the chain.
func (nd *node[T]) count() int {
	ret := 0
	for ; nd != nil; nd = nd.next {
		ret++
	}
	return ret
}

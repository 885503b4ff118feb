// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seque

import (
	"fmt"
	"reflect"

	"github.com/dustin/go-humanize"
	"vawter.tech/seque/alloc"
	"vawter.tech/seque/internal/layout"
	"vawter.tech/seque/internal/safe"
)

// A Seque is a growable sequence stored in a singly-linked chain of
// equally-sized segments. Every byte of storage is obtained from the
// [alloc.Allocator] passed to [WithCapacityIn].
//
// Logical index i is stored in segment i / N, slot i % N. Elements in
// [0, Len()) are initialized; slots in [Len(), Cap()) are not.
//
// A Seque must not be copied after construction and is not safe for
// concurrent use. Call [Seque.Release] to return its memory.
type Seque[T any, N SegmentLen] struct {
	alloc    alloc.Allocator
	capacity int
	drop     func(*T)
	head     node[T]
	length   int
	released bool
}

// WithCapacityIn constructs a Seque with room for at least capacity
// elements. A request of up to N elements allocates a single segment;
// larger requests allocate the smallest number of segments k ≥ 2 such
// that N·k ≥ capacity. Element types containing Go pointers are
// rejected with [ErrPointerElem].
//
// An [AllocationError] is returned if the allocator is exhausted or if
// the chain could not be addressed, in which case any memory allocated
// by this call has been released.
func WithCapacityIn[T any, N SegmentLen](
	capacity int, a alloc.Allocator, opts ...Option[T],
) (*Seque[T, N], error) {
	if capacity < 0 {
		panic(fmt.Errorf("negative capacity: %d", capacity))
	}
	if typ := reflect.TypeFor[T](); layout.HasPointers(typ) {
		return nil, fmt.Errorf("%s: %w", typ, ErrPointerElem)
	}
	cfg := &config[T]{}
	for _, opt := range opts {
		opt(cfg)
	}

	n := segmentLen[N]()
	k := max(capacity/n+min(capacity%n, 1), 1)
	if err := checkChain[T](n, k); err != nil {
		return nil, err
	}
	head, err := newNode[T](a, n)
	if err != nil {
		return nil, err
	}
	ret := &Seque[T, N]{
		alloc:    a,
		capacity: n,
		drop:     cfg.drop,
		head:     head,
	}
	if k > 1 {
		if err := ret.head.allocateChain(a, n, k-1); err != nil {
			ret.head.deallocate(a)
			return nil, err
		}
		ret.capacity = n * k
	}
	return ret, nil
}

// Allocator returns a handle to the allocator that owns the Seque's
// memory.
func (s *Seque[T, N]) Allocator() alloc.Allocator {
	return s.alloc.Clone()
}

// At returns the element at index i. It panics with an [IndexError] if
// i is not less than [Seque.Len].
func (s *Seque[T, N]) At(i int) T {
	return *s.Ptr(i)
}

// Cap returns the number of allocated slots, which is always a multiple
// of the segment length.
func (s *Seque[T, N]) Cap() int { return s.capacity }

// Len returns the number of initialized elements.
func (s *Seque[T, N]) Len() int { return s.length }

// Ptr returns a pointer to the element at index i, which may be used to
// modify the element in place. It panics with an [IndexError] if i is
// not less than [Seque.Len]. The pointer must not be used after
// [Seque.Release].
func (s *Seque[T, N]) Ptr(i int) *T {
	s.checkLive()
	if i < 0 || i >= s.length {
		panic(&IndexError{Len: s.length, Index: i})
	}
	return s.head.slot(i, segmentLen[N]())
}

// PushBack appends the value. If every slot is in use, the chain grows
// by exactly one segment; growth is additive, so the cost of a push
// that grows the chain is proportional to the number of segments.
//
// If the allocator is exhausted, an [AllocationError] is returned and
// neither the length nor the capacity changes.
func (s *Seque[T, N]) PushBack(v T) error {
	s.checkLive()
	n := segmentLen[N]()
	if s.length == s.capacity {
		// The length equals the capacity here, so this is always one.
		amount := s.length / s.capacity
		if err := checkChain[T](n, s.capacity/n+amount); err != nil {
			return err
		}
		if err := s.head.allocateChain(s.alloc, n, amount); err != nil {
			return err
		}
		s.capacity += n * amount
	}
	s.head.write(s.length, n, v)
	s.length++
	return nil
}

// Release runs the drop function installed with [WithDrop], if any,
// over every element and then returns all segments to the allocator,
// starting from the tail. Without a drop function, elements are simply
// forgotten.
//
// Panics raised by the drop function are recovered and returned after
// the memory has been released. Calling Release more than once has no
// effect. Any other use of a released Seque panics with [ErrReleased].
func (s *Seque[T, N]) Release() error {
	if s.released {
		return nil
	}
	var err error
	if s.drop != nil {
		err = safe.Each(s.Pointers(), s.drop)
	}
	s.released = true
	s.head.deallocate(s.alloc)
	s.length, s.capacity = 0, 0
	return err
}

// SegmentLen returns the number of slots per segment.
func (s *Seque[T, N]) SegmentLen() int { return segmentLen[N]() }

// Set replaces the element at index i. It panics with an [IndexError]
// if i is not less than [Seque.Len].
func (s *Seque[T, N]) Set(i int, v T) {
	*s.Ptr(i) = v
}

// String is for debugging use only.
func (s *Seque[T, N]) String() string {
	if s.released {
		return "seque: released"
	}
	size, _ := layout.Of[T]()
	return fmt.Sprintf("seque: %d/%d elements in %d segments (%s)",
		s.length, s.capacity, s.head.count(),
		humanize.IBytes(uint64(size)*uint64(s.capacity)))
}

func (s *Seque[T, N]) checkLive() {
	if s.released {
		panic(ErrReleased)
	}
}

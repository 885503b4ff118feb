// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seque

import (
	"iter"

	"vawter.tech/seque/seq"
)

// All returns a sequence of indexes and pointers to every element, in
// increasing index order. Elements may be modified through the
// pointers. The Seque must not be grown or released while the sequence
// is being ranged over.
func (s *Seque[T, N]) All() iter.Seq2[int, *T] {
	return seq.Enumerate(s.Pointers())
}

// Pointers returns a sequence of pointers to every element, in
// increasing index order.
func (s *Seque[T, N]) Pointers() iter.Seq[*T] {
	return seq.Flatten(s.Segments())
}

// Segments returns the contiguous storage of each segment that holds
// at least one element. Every slice has the segment length, except
// the last, which holds only the initialized elements. The slices have
// no spare capacity.
func (s *Seque[T, N]) Segments() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		s.checkLive()
		n := segmentLen[N]()
		remaining := s.length
		for nd := &s.head; nd != nil && remaining > 0; nd = nd.next {
			span := min(remaining, n)
			if !yield(nd.data[:span:span]) {
				return
			}
			remaining -= span
		}
	}
}

// Values returns a sequence of copies of every element, in increasing
// index order.
func (s *Seque[T, N]) Values() iter.Seq[T] {
	return seq.Deref(s.Pointers())
}

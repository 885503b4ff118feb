// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq

import "iter"

// Flatten returns a sequence of pointers to every element of every
// slice produced by the segments sequence, in order. The pointers
// alias the slices' backing storage.
func Flatten[T any](segments iter.Seq[[]T]) iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for segment := range segments {
			for i := range segment {
				if !yield(&segment[i]) {
					return
				}
			}
		}
	}
}

// Enumerate pairs each element of the sequence with its ordinal.
func Enumerate[T any](items iter.Seq[T]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		idx := 0
		for item := range items {
			if !yield(idx, item) {
				return
			}
			idx++
		}
	}
}

// Deref converts a sequence of pointers into a sequence of values.
func Deref[T any](items iter.Seq[*T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range items {
			if !yield(*item) {
				return
			}
		}
	}
}

// Count consumes the sequence and returns the number of elements.
func Count[T any](items iter.Seq[T]) int {
	n := 0
	for range items {
		n++
	}
	return n
}

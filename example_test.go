// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seque_test

import (
	"fmt"

	"vawter.tech/seque"
	"vawter.tech/seque/alloc"
	"vawter.tech/seque/fallback"
	"vawter.tech/seque/tracked"
)

func Example() {
	// A fixed buffer with room for exactly one segment of 16 int64s.
	buf := alloc.NewBump(128)
	a := alloc.New(buf)

	s, err := seque.WithCapacityIn[int64, seque.N16](1, a)
	if err != nil {
		panic(err)
	}
	for i := range 16 {
		_ = s.PushBack(int64(i * i))
	}
	fmt.Println(s.At(15), s.Len(), s.Cap())
	fmt.Println(buf)

	// The buffer is exhausted, so growth fails without changing s.
	err = s.PushBack(256)
	fmt.Println(err)
	fmt.Println(s.Len(), s.Cap())

	// Output:
	// 225 16 16
	// bump: 128 B of 128 B used
	// node: allocation failed (32 bytes, align 8)
	// 16 16
}

func Example_fallback() {
	heap := tracked.New(alloc.NewHeap())
	chain := fallback.New([]alloc.MemoryResource{alloc.NewBump(128), heap})

	s, err := seque.WithCapacityIn[float64, seque.N16](0, alloc.New(chain))
	if err != nil {
		panic(err)
	}
	for i := range 20 {
		if err := s.PushBack(float64(i) / 2); err != nil {
			panic(err)
		}
	}
	sum := 0.0
	for v := range s.Values() {
		sum += v
	}
	fmt.Println(sum, s)
	fmt.Println(heap.Count(), chain.Served())

	if err := s.Release(); err != nil {
		panic(err)
	}
	fmt.Println(heap.Close())

	// Output:
	// 95 seque: 20/32 elements in 2 segments (256 B)
	// 160 [1 2]
	// <nil>
}

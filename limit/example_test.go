// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package limit_test

import (
	"fmt"

	"vawter.tech/seque/alloc"
	"vawter.tech/seque/limit"
)

func Example() {
	// Decorators compose. In general, the byte quota should wrap the
	// block quota so that a refused request consumes neither.
	res := limit.WithMaxBytes(
		limit.WithMaxBlocks(alloc.NewHeap(), 2),
		1024,
	)
	a := alloc.New(res)

	first := alloc.AllocateSlice[int64](a, 64)  // 512 bytes
	second := alloc.AllocateSlice[int64](a, 64) // 512 bytes
	third := alloc.AllocateSlice[int64](a, 1)   // Over both quotas.
	fmt.Println(len(first), len(second), third == nil)

	alloc.DeallocateSlice(a, first)
	alloc.DeallocateSlice(a, second)
	fmt.Println(res.Remaining())
	// Output:
	// 64 64 true
	// 1024
}

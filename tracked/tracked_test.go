// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package tracked

import (
	"testing"

	"github.com/stretchr/testify/require"
	"vawter.tech/seque/alloc"
)

func TestTracked(t *testing.T) {
	r := require.New(t)

	heap := alloc.NewHeap()
	tr := New(heap)
	r.Same(heap, tr.Inner())
	a := alloc.New(tr)

	p := alloc.Allocate[int64](a, 16)
	q := alloc.Allocate[byte](a, 3)
	r.Equal(int64(131), tr.Count())
	r.Equal(int64(2), tr.Blocks())

	err := tr.Close()
	r.EqualError(err, "leaked 131 B in 2 blocks")
	var leak *LeakError
	r.ErrorAs(err, &leak)
	r.Equal(int64(131), leak.Bytes)

	alloc.Deallocate(a, p, 16)
	alloc.Deallocate(a, q, 3)
	r.Zero(tr.Count())
	r.Equal(int64(131), tr.Peak())
	r.NoError(tr.Close())
	r.Zero(heap.Len())
}

func TestTrackedIgnoresFailures(t *testing.T) {
	r := require.New(t)

	tr := New(alloc.NewBump(8))
	r.Nil(tr.AllocateBytes(16, 8))
	r.Zero(tr.Count())

	tr.DeallocateBytes(nil, 16, 8)
	r.Zero(tr.Count())
	r.NoError(tr.Close())
}

// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seque

import "fmt"

// SegmentLen fixes the number of element slots in every segment of a
// [Seque]. Implementations should be zero-sized value types whose
// method does not depend on the receiver, since it is invoked on the
// zero value.
type SegmentLen interface {
	SegmentLen() int
}

// Segment lengths provided for convenience. N16 matches the segment
// length most callers want.
type (
	N4   struct{}
	N8   struct{}
	N16  struct{}
	N32  struct{}
	N64  struct{}
	N128 struct{}
	N256 struct{}
)

func (N4) SegmentLen() int   { return 4 }
func (N8) SegmentLen() int   { return 8 }
func (N16) SegmentLen() int  { return 16 }
func (N32) SegmentLen() int  { return 32 }
func (N64) SegmentLen() int  { return 64 }
func (N128) SegmentLen() int { return 128 }
func (N256) SegmentLen() int { return 256 }

// segmentLen returns the validated slot count for N.
func segmentLen[N SegmentLen]() int {
	var n N
	ret := n.SegmentLen()
	if ret <= 0 {
		panic(fmt.Errorf("%T: segment length must be positive, got %d", n, ret))
	}
	return ret
}

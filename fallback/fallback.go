// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package fallback contains an [alloc.MemoryResource] that retries
// exhausted requests against a sequence of resources.
//
// A common arrangement places a small, fast [alloc.Bump] in front of an
// [alloc.Heap] so that a container keeps growing once the buffer has
// been used up.
package fallback

import (
	"errors"
	"unsafe"

	"vawter.tech/seque/alloc"
)

// Chain tries each of its resources in order until one succeeds.
// Deallocations are routed to the resource that issued the region.
//
// A pointer may be issued more than once while outstanding, as happens
// with zero-sized requests, so ownership is kept as a stack per pointer.
type Chain struct {
	resources []alloc.MemoryResource
	retryable func(size, align uintptr) bool
	owners    map[unsafe.Pointer][]int
	served    []int
}

var _ alloc.MemoryResource = (*Chain)(nil)

// An Option configures a Chain.
type Option func(*Chain)

// Retryable restricts which requests may fall through to the next
// resource. By default, all requests are retried.
func Retryable(fn func(size, align uintptr) bool) Option {
	return func(c *Chain) { c.retryable = fn }
}

// New constructs a Chain over the resources.
func New(resources []alloc.MemoryResource, opts ...Option) *Chain {
	if len(resources) == 0 {
		panic(errors.New("at least one resource is required"))
	}
	ret := &Chain{
		resources: resources,
		owners:    make(map[unsafe.Pointer][]int),
		served:    make([]int, len(resources)),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.retryable == nil {
		ret.retryable = func(uintptr, uintptr) bool { return true }
	}
	return ret
}

// AllocateBytes implements [alloc.MemoryResource].
func (c *Chain) AllocateBytes(size, align uintptr) unsafe.Pointer {
	for idx, res := range c.resources {
		if idx > 0 && !c.retryable(size, align) {
			return nil
		}
		if p := res.AllocateBytes(size, align); p != nil {
			c.owners[p] = append(c.owners[p], idx)
			c.served[idx]++
			return p
		}
	}
	return nil
}

// DeallocateBytes implements [alloc.MemoryResource]. Regions that were
// not issued by the Chain are ignored.
func (c *Chain) DeallocateBytes(p unsafe.Pointer, size, align uintptr) {
	owners := c.owners[p]
	if len(owners) == 0 {
		return
	}
	idx := owners[len(owners)-1]
	if len(owners) == 1 {
		delete(c.owners, p)
	} else {
		c.owners[p] = owners[:len(owners)-1]
	}
	c.resources[idx].DeallocateBytes(p, size, align)
}

// Served returns the number of allocations satisfied by each resource.
func (c *Chain) Served() []int {
	return append([]int(nil), c.served...)
}

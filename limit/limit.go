// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package limit provides [alloc.MemoryResource] decorators that impose
// quotas on another resource.
//
// A quota that has been reached is reported as ordinary exhaustion: the
// decorator returns a nil pointer without consulting the wrapped
// resource. None of the decorators block.
package limit

import (
	"errors"
	"time"
	"unsafe"

	"golang.org/x/time/rate"
	"vawter.tech/seque/alloc"
)

// Bytes bounds the number of outstanding bytes.
type Bytes struct {
	inner alloc.MemoryResource
	limit uintptr
	used  uintptr
}

var _ alloc.MemoryResource = (*Bytes)(nil)

// WithMaxBytes limits the total number of bytes that may be outstanding
// in the wrapped resource. Deallocations return budget.
func WithMaxBytes(inner alloc.MemoryResource, limit uintptr) *Bytes {
	return &Bytes{inner: inner, limit: limit}
}

// AllocateBytes implements [alloc.MemoryResource].
func (b *Bytes) AllocateBytes(size, align uintptr) unsafe.Pointer {
	if size > b.limit-b.used {
		return nil
	}
	p := b.inner.AllocateBytes(size, align)
	if p != nil {
		b.used += size
	}
	return p
}

// DeallocateBytes implements [alloc.MemoryResource].
func (b *Bytes) DeallocateBytes(p unsafe.Pointer, size, align uintptr) {
	if p != nil {
		b.used -= min(size, b.used)
	}
	b.inner.DeallocateBytes(p, size, align)
}

// Remaining returns the unused budget.
func (b *Bytes) Remaining() uintptr { return b.limit - b.used }

// Blocks bounds the number of outstanding allocations.
type Blocks struct {
	inner alloc.MemoryResource
	slots chan struct{}
}

var _ alloc.MemoryResource = (*Blocks)(nil)

// WithMaxBlocks limits the number of allocations that may be
// outstanding at once, regardless of their size.
func WithMaxBlocks(inner alloc.MemoryResource, limit int) *Blocks {
	if limit <= 0 {
		panic(errors.New("limit must be greater than zero"))
	}
	return &Blocks{inner: inner, slots: make(chan struct{}, limit)}
}

// AllocateBytes implements [alloc.MemoryResource].
func (b *Blocks) AllocateBytes(size, align uintptr) unsafe.Pointer {
	select {
	case b.slots <- struct{}{}:
	default:
		return nil
	}
	p := b.inner.AllocateBytes(size, align)
	if p == nil {
		<-b.slots
	}
	return p
}

// DeallocateBytes implements [alloc.MemoryResource].
func (b *Blocks) DeallocateBytes(p unsafe.Pointer, size, align uintptr) {
	if p != nil {
		select {
		case <-b.slots:
		default:
		}
	}
	b.inner.DeallocateBytes(p, size, align)
}

// Len returns the number of outstanding allocations.
func (b *Blocks) Len() int { return len(b.slots) }

// Rate bounds the rate of allocation calls using a token bucket.
type Rate struct {
	inner   alloc.MemoryResource
	limiter *rate.Limiter
	now     func() time.Time
}

var _ alloc.MemoryResource = (*Rate)(nil)

// WithMaxRate is a wrapper around a [rate.Limiter] that permits r
// allocations per second with bursts of up to b. Requests in excess of
// the rate fail immediately. A rate of zero permits exactly b
// allocations over the lifetime of the decorator.
func WithMaxRate(inner alloc.MemoryResource, r float64, b int) *Rate {
	return &Rate{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(r), b),
		now:     time.Now,
	}
}

// AllocateBytes implements [alloc.MemoryResource]. Every attempt that
// reaches the wrapped resource consumes a token, whether or not it
// succeeds.
func (l *Rate) AllocateBytes(size, align uintptr) unsafe.Pointer {
	if !l.limiter.AllowN(l.now(), 1) {
		return nil
	}
	return l.inner.AllocateBytes(size, align)
}

// DeallocateBytes implements [alloc.MemoryResource]. Deallocations are
// not rate-limited.
func (l *Rate) DeallocateBytes(p unsafe.Pointer, size, align uintptr) {
	l.inner.DeallocateBytes(p, size, align)
}

// Limiter returns the underlying token bucket, which may be adjusted
// at runtime.
func (l *Rate) Limiter() *rate.Limiter { return l.limiter }

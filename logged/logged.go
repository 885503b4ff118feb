// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package logged contains an [alloc.MemoryResource] decorator that
// writes every request to a [zap.Logger].
package logged

import (
	"unsafe"

	"go.uber.org/zap"
	"vawter.tech/seque/alloc"
)

// Resource logs the traffic through a wrapped resource. Successful
// requests are logged at debug level and refused allocations at warn
// level.
type Resource struct {
	inner alloc.MemoryResource
	log   *zap.Logger
}

var _ alloc.MemoryResource = (*Resource)(nil)

// Wrap decorates the resource. A nil logger is replaced with a no-op
// logger.
func Wrap(inner alloc.MemoryResource, log *zap.Logger) *Resource {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resource{inner: inner, log: log}
}

// AllocateBytes implements [alloc.MemoryResource].
func (r *Resource) AllocateBytes(size, align uintptr) unsafe.Pointer {
	p := r.inner.AllocateBytes(size, align)
	if p == nil {
		r.log.Warn("allocation refused",
			zap.Uintptr("size", size),
			zap.Uintptr("align", align))
		return nil
	}
	if ce := r.log.Check(zap.DebugLevel, "allocate"); ce != nil {
		ce.Write(
			zap.Uintptr("size", size),
			zap.Uintptr("align", align),
			zap.Uintptr("addr", uintptr(p)))
	}
	return p
}

// DeallocateBytes implements [alloc.MemoryResource].
func (r *Resource) DeallocateBytes(p unsafe.Pointer, size, align uintptr) {
	if ce := r.log.Check(zap.DebugLevel, "deallocate"); ce != nil {
		ce.Write(
			zap.Uintptr("size", size),
			zap.Uintptr("align", align),
			zap.Uintptr("addr", uintptr(p)))
	}
	r.inner.DeallocateBytes(p, size, align)
}

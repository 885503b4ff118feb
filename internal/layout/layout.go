// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package layout contains size and alignment arithmetic shared by the
// allocator and the container.
package layout

import (
	"fmt"
	"math"
	"math/bits"
	"reflect"
	"unsafe"
)

// Of returns the size and alignment of T.
func Of[T any]() (size, align uintptr) {
	var zero T
	return unsafe.Sizeof(zero), unsafe.Alignof(zero)
}

// Array returns the number of bytes needed for count values of the
// given element size. The boolean is false if the product overflows.
func Array(elemSize uintptr, count int) (uintptr, bool) {
	if count < 0 {
		panic(fmt.Errorf("negative count: %d", count))
	}
	hi, lo := bits.Mul64(uint64(elemSize), uint64(count))
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return uintptr(lo), true
}

// IsPow2 reports whether align is a usable alignment.
func IsPow2(align uintptr) bool {
	return align != 0 && align&(align-1) == 0
}

// AlignUp rounds addr up to the next multiple of align, which must be
// a power of two.
func AlignUp(addr, align uintptr) uintptr {
	return (addr + align - 1) &^ (align - 1)
}

// HasPointers reports whether values of type t contain memory that the
// garbage collector must scan.
func HasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && HasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if HasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package borrow defines a runtime-checked exclusive borrow of a value.
package borrow

import "errors"

// ErrBorrowed is reported when a Cell is borrowed while another borrow
// is still active.
var ErrBorrowed = errors.New("already mutably borrowed")

// A Cell grants at most one active borrow of its value. A Cell may be
// shared by any number of handles, but it is not safe for concurrent
// use.
type Cell[T any] struct {
	value  T
	active bool
	depth  int // Number of rejected reentrant attempts, for diagnostics.
}

// New constructs a Cell around the value.
func New[T any](value T) *Cell[T] {
	return &Cell[T]{value: value}
}

// With borrows the value for the duration of the callback. A reentrant
// call panics with [ErrBorrowed]. The borrow is released even if the
// callback panics.
func With[T, R any](c *Cell[T], fn func(T) R) R {
	if c.active {
		c.depth++
		panic(ErrBorrowed)
	}
	c.active = true
	defer func() { c.active = false }()
	return fn(c.value)
}

// Active reports whether the value is currently borrowed.
func (c *Cell[T]) Active() bool { return c.active }

// Rejected returns the number of reentrant borrows that were refused.
func (c *Cell[T]) Rejected() int { return c.depth }

// Peek returns the value without borrowing it. It must only be used
// for identity comparisons.
func (c *Cell[T]) Peek() T { return c.value }

// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seque

type config[T any] struct {
	drop func(*T)
}

// An Option configures a [Seque] at construction.
type Option[T any] func(*config[T])

// WithDrop installs a function that [Seque.Release] invokes on every
// initialized element, in index order, before any memory is returned
// to the allocator. Use it when elements refer to resources outside of
// the Seque, such as descriptors or handles.
func WithDrop[T any](fn func(*T)) Option[T] {
	return func(cfg *config[T]) {
		cfg.drop = fn
	}
}

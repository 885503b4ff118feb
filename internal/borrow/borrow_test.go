// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package borrow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWith(t *testing.T) {
	r := require.New(t)

	c := New(42)
	r.False(c.Active())
	got := With(c, func(v int) int {
		r.True(c.Active())
		return v + 1
	})
	r.Equal(43, got)
	r.False(c.Active())
}

func TestReentrant(t *testing.T) {
	r := require.New(t)

	c := New("value")
	r.PanicsWithError(ErrBorrowed.Error(), func() {
		With(c, func(string) struct{} {
			return With(c, func(string) struct{} { return struct{}{} })
		})
	})
	r.False(c.Active())
	r.Equal(1, c.Rejected())
}

func TestReleasedAfterPanic(t *testing.T) {
	r := require.New(t)

	boom := errors.New("boom")
	c := New(1)
	r.PanicsWithError(boom.Error(), func() {
		With(c, func(int) int { panic(boom) })
	})
	r.False(c.Active())

	// The cell is usable again.
	r.Equal(2, With(c, func(v int) int { return v * 2 }))
}

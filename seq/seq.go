// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package seq contains helpers for composing [iter.Seq] sequences over
// segmented storage.
//
// The functions in this package are lazy: no element is visited until
// the returned sequence is ranged over, and every range restarts from
// the beginning of the input.
package seq

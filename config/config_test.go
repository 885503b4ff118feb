// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/require"
	"vawter.tech/seque/alloc"
	"vawter.tech/seque/fallback"
	"vawter.tech/seque/limit"
	"vawter.tech/seque/tracked"
)

func TestParse(t *testing.T) {
	r := require.New(t)

	cfg, err := Parse([]byte(`
kind: bump
size: 4KB
track: true
max_bytes: 2KB
max_rate: 10
burst: 5
fallback:
  kind: heap
  max_bytes: 1MB
`))
	r.NoError(err)
	r.Equal(&Resource{
		Kind:     KindBump,
		Size:     4 * datasize.KB,
		Track:    true,
		MaxBytes: 2 * datasize.KB,
		MaxRate:  10,
		Burst:    5,
		Fallback: &Resource{
			Kind:     KindHeap,
			MaxBytes: datasize.MB,
		},
	}, cfg)

	cfg, err = Parse(nil)
	r.NoError(err)
	r.Equal(&Resource{}, cfg)

	cfg, err = Parse([]byte("kind: bump\nsize: 512\n"))
	r.NoError(err)
	r.Equal(datasize.ByteSize(512), cfg.Size)
}

func TestParseErrors(t *testing.T) {
	tcs := []struct {
		name string
		yaml string
		err  string
	}{
		{"unknown field", "kind: heap\nsiz: 4KB\n", "siz"},
		{"unknown kind", "kind: arena\n", `kind: unknown resource kind "arena"`},
		{"bump without size", "kind: bump\n", `size: required for kind "bump"`},
		{"heap with size", "size: 1KB\n", `size: only valid for kind "bump"`},
		{"bad size", "kind: bump\nsize: lots\n", "could not decode resource"},
		{"negative rate", "max_rate: -1\nburst: 1\n", "max_rate: must not be negative"},
		{"negative burst", "burst: -1\n", "burst: must not be negative"},
		{"rate without burst", "max_rate: 5\n", "burst: required when max_rate is set"},
		{"nested", "fallback:\n  kind: bump\n", `fallback.size: required for kind "bump"`},
		{"nested track", "fallback:\n  track: true\n", "fallback.track: only valid at the top level"},
		{"deep", "fallback:\n  fallback:\n    burst: -2\n", "fallback.fallback.burst: must not be negative"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			r := require.New(t)
			_, err := Parse([]byte(tc.yaml))
			r.ErrorContains(err, tc.err)
		})
	}
}

func TestBuild(t *testing.T) {
	r := require.New(t)

	cfg := &Resource{
		Kind:     KindBump,
		Size:     256,
		Track:    true,
		Fallback: &Resource{MaxBytes: 64},
	}
	res, tr, err := cfg.Build()
	r.NoError(err)
	r.Same(tr, res)

	a := alloc.New(res)
	first := alloc.AllocateSlice[byte](a, 256)
	r.Len(first, 256)
	second := alloc.AllocateSlice[byte](a, 64)
	r.Len(second, 64, "served by the heap")
	r.Nil(alloc.AllocateSlice[byte](a, 1), "both layers exhausted")
	r.Equal(int64(320), tr.Count())

	a.Borrow(func(res alloc.MemoryResource) {
		chain := res.(*tracked.Tracked).Inner().(*fallback.Chain)
		r.Equal([]int{1, 1}, chain.Served())
	})

	alloc.DeallocateSlice(a, second)
	alloc.DeallocateSlice(a, first)
	r.NoError(tr.Close())
}

func TestBuildLayers(t *testing.T) {
	r := require.New(t)

	res, tr, err := (&Resource{MaxBytes: datasize.KB, MaxRate: 1, Burst: 2}).Build()
	r.NoError(err)
	r.Nil(tr)

	rl, ok := res.(*limit.Rate)
	r.True(ok)
	r.Equal(2, rl.Limiter().Burst())

	a := alloc.New(res)
	r.NotNil(alloc.Allocate[int64](a, 1))
	r.NotNil(alloc.Allocate[int64](a, 1))
	r.Nil(alloc.Allocate[int64](a, 1), "burst exhausted")

	_, _, err = (&Resource{Kind: "slab"}).Build()
	r.ErrorContains(err, "kind")
}

// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package config builds a decorated [alloc.MemoryResource] from a YAML
// description.
//
//	kind: bump
//	size: 4KB
//	track: true
//	max_bytes: 2KB
//	fallback:
//	  kind: heap
//
// Sizes accept unit suffixes such as KB or MB, which are interpreted as
// powers of 1024.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/c2h5oh/datasize"
	"gopkg.in/yaml.v3"
	"vawter.tech/seque/alloc"
	"vawter.tech/seque/fallback"
	"vawter.tech/seque/limit"
	"vawter.tech/seque/tracked"
)

// Resource kinds.
const (
	KindBump = "bump"
	KindHeap = "heap"
)

// Resource describes one layer of a resource stack.
type Resource struct {
	// Kind is either "heap" or "bump". The default is "heap".
	Kind string `yaml:"kind"`
	// Size is the capacity of a bump buffer.
	Size datasize.ByteSize `yaml:"size"`
	// Track wraps the whole stack in a [tracked.Tracked]. Only valid at
	// the top level.
	Track bool `yaml:"track"`
	// MaxBytes bounds the bytes outstanding in this layer, if non-zero.
	MaxBytes datasize.ByteSize `yaml:"max_bytes"`
	// MaxRate bounds the allocations per second for this layer.
	MaxRate float64 `yaml:"max_rate"`
	// Burst is the token bucket size that accompanies MaxRate. With a
	// zero MaxRate, it is a lifetime allocation count.
	Burst int `yaml:"burst"`
	// Fallback receives requests that this layer refuses.
	Fallback *Resource `yaml:"fallback"`
}

// Parse decodes and validates a description. Unknown fields are
// rejected. An empty document describes a plain heap.
func Parse(data []byte) (*Resource, error) {
	ret := &Resource{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(ret); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not decode resource: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Validate checks the description for consistency. The returned error
// names the offending field.
func (r *Resource) Validate() error {
	return r.validate("", true)
}

func (r *Resource) validate(path string, top bool) error {
	field := func(name string) string { return path + name }

	switch r.Kind {
	case "", KindHeap:
		if r.Size != 0 {
			return fmt.Errorf("%s: only valid for kind %q", field("size"), KindBump)
		}
	case KindBump:
		if r.Size == 0 {
			return fmt.Errorf("%s: required for kind %q", field("size"), KindBump)
		}
		if r.Size.Bytes() > math.MaxInt {
			return fmt.Errorf("%s: %s is too large", field("size"), r.Size)
		}
	default:
		return fmt.Errorf("%s: unknown resource kind %q", field("kind"), r.Kind)
	}
	if r.Track && !top {
		return fmt.Errorf("%s: only valid at the top level", field("track"))
	}
	if r.MaxRate < 0 || math.IsNaN(r.MaxRate) {
		return fmt.Errorf("%s: must not be negative", field("max_rate"))
	}
	if r.Burst < 0 {
		return fmt.Errorf("%s: must not be negative", field("burst"))
	}
	if r.MaxRate > 0 && r.Burst == 0 {
		return fmt.Errorf("%s: required when max_rate is set", field("burst"))
	}
	if r.Fallback != nil {
		return r.Fallback.validate(field("fallback."), false)
	}
	return nil
}

// Build constructs the resource stack. Layers are applied inside-out:
// the base resource, then the byte quota, then the rate limit. If a
// fallback is present, it is consulted when this layer refuses a
// request. The returned Tracked is non-nil only if Track was set.
func (r *Resource) Build() (alloc.MemoryResource, *tracked.Tracked, error) {
	if err := r.Validate(); err != nil {
		return nil, nil, err
	}
	res := r.build()
	if !r.Track {
		return res, nil, nil
	}
	tr := tracked.New(res)
	return tr, tr, nil
}

func (r *Resource) build() alloc.MemoryResource {
	var res alloc.MemoryResource
	if r.Kind == KindBump {
		res = alloc.NewBump(int(r.Size.Bytes()))
	} else {
		res = alloc.NewHeap()
	}
	if r.MaxBytes != 0 {
		res = limit.WithMaxBytes(res, uintptr(min(r.MaxBytes.Bytes(), math.MaxUint)))
	}
	if r.MaxRate > 0 || r.Burst > 0 {
		res = limit.WithMaxRate(res, r.MaxRate, r.Burst)
	}
	if r.Fallback != nil {
		res = fallback.New([]alloc.MemoryResource{res, r.Fallback.build()})
	}
	return res
}

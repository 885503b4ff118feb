// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package metrics contains an [alloc.MemoryResource] decorator that
// exports Prometheus metrics.
package metrics

import (
	"errors"
	"unsafe"

	"github.com/prometheus/client_golang/prometheus"
	"vawter.tech/seque/alloc"
)

// Resource counts the traffic through a wrapped resource.
type Resource struct {
	inner alloc.MemoryResource

	allocations   prometheus.Counter
	deallocations prometheus.Counter
	failures      prometheus.Counter
	outstanding   prometheus.Gauge
}

var _ alloc.MemoryResource = (*Resource)(nil)

// Wrap decorates the resource and registers its collectors with the
// registerer. The name is used as the metric namespace. A nil
// registerer leaves the collectors unregistered.
func Wrap(inner alloc.MemoryResource, reg prometheus.Registerer, name string) (*Resource, error) {
	ret := &Resource{
		inner: inner,
		allocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: name,
			Name:      "allocations_total",
			Help:      "the number of successful allocations",
		}),
		deallocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: name,
			Name:      "deallocations_total",
			Help:      "the number of deallocations",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: name,
			Name:      "allocation_failures_total",
			Help:      "the number of allocations refused by the resource",
		}),
		outstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: name,
			Name:      "outstanding_bytes",
			Help:      "allocated minus deallocated bytes",
		}),
	}
	if reg == nil {
		return ret, nil
	}
	var errs []error
	for _, c := range ret.Collectors() {
		errs = append(errs, reg.Register(c))
	}
	return ret, errors.Join(errs...)
}

// AllocateBytes implements [alloc.MemoryResource].
func (r *Resource) AllocateBytes(size, align uintptr) unsafe.Pointer {
	p := r.inner.AllocateBytes(size, align)
	if p == nil {
		r.failures.Inc()
		return nil
	}
	r.allocations.Inc()
	r.outstanding.Add(float64(size))
	return p
}

// DeallocateBytes implements [alloc.MemoryResource].
func (r *Resource) DeallocateBytes(p unsafe.Pointer, size, align uintptr) {
	if p != nil {
		r.deallocations.Inc()
		r.outstanding.Sub(float64(size))
	}
	r.inner.DeallocateBytes(p, size, align)
}

// Collectors returns the metrics maintained by the Resource.
func (r *Resource) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		r.allocations, r.deallocations, r.failures, r.outstanding,
	}
}

// Package status holds named runtime metrics written by the frame loop and read on exit
package status

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// Registry groups typed metric maps
// Writers cache the pointers they need once, then update atomics directly
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns the number of metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot renders every metric as "key=value", grouped by type and sorted by key
func (r *Registry) Snapshot() []string {
	out := make([]string, 0, r.TotalCount())
	r.Bools.Range(func(k string, v *atomic.Bool) {
		out = append(out, k+"="+strconv.FormatBool(v.Load()))
	})
	r.Ints.Range(func(k string, v *atomic.Int64) {
		out = append(out, k+"="+strconv.FormatInt(v.Load(), 10))
	})
	r.Floats.Range(func(k string, v *AtomicFloat) {
		out = append(out, fmt.Sprintf("%s=%.3f", k, v.Get()))
	})
	r.Strings.Range(func(k string, v *AtomicString) {
		out = append(out, k+"="+v.Load())
	})
	return out
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package verify provides bounded randomized property checking of chipsim
// parts.
//
// A Bench bundles a part constructor with a set of properties. Check drives
// fresh instances of the part with all-zero, all-one, then random inputs and
// evaluates every property against the sampled history of its ports after
// each settled step.
//
package verify

import (
	"github.com/db47h/chipsim"
)

// Kind is the kind of a Property.
//
type Kind int

// Property kinds.
//
const (
	// Assert properties must hold on every sample.
	Assert Kind = iota
	// Assume properties filter stimulus: a run ends on the first sample
	// where an assumption does not hold.
	Assume
	// Cover properties must hold on at least one sample.
	Cover
)

func (k Kind) String() string {
	switch k {
	case Assert:
		return "assert"
	case Assume:
		return "assume"
	case Cover:
		return "cover"
	}
	return "unknown"
}

// A Property is a named predicate on the sample history of a part.
//
type Property struct {
	Name  string
	Kind  Kind
	Check func(h *History) bool
}

// A Bench is a part under verification.
//
type Bench struct {
	Name string
	// New returns a new instance of the part. It is called once per run.
	New        func() (*chipsim.PartSpec, error)
	Properties []Property
	// Values lists interesting values for input ports. Random stimulus
	// picks from these most of the time.
	Values map[string][]uint64
}

// History is the sample history of a run. Sample 0 is the first settled step.
//
type History struct {
	ports   chipsim.Ports
	index   map[string]int
	samples [][]uint64
}

func newHistory(ports chipsim.Ports) *History {
	h := &History{ports: ports, index: make(map[string]int, len(ports))}
	for i, p := range ports {
		h.index[p.Name] = i
	}
	return h
}

func (h *History) push(values []uint64) { h.samples = append(h.samples, values) }

// Len returns the number of samples.
//
func (h *History) Len() int { return len(h.samples) }

// Ports returns the sampled ports.
//
func (h *History) Ports() chipsim.Ports { return h.ports }

// Get returns the current value of port.
//
func (h *History) Get(port string) uint64 { return h.Past(port, 0) }

// Past returns the value of port n samples ago. Values before the first
// sample are 0. It panics if port does not exist.
//
func (h *History) Past(port string, n int) uint64 {
	i, ok := h.index[port]
	if !ok {
		panic("unknown port " + port)
	}
	k := len(h.samples) - 1 - n
	if k < 0 {
		return 0
	}
	return h.samples[k][i]
}

// Rose reports whether bit 0 of port went from 0 to 1 on the current sample.
// It is always false on the first sample.
//
func (h *History) Rose(port string) bool {
	return h.Len() > 1 && h.Past(port, 1)&1 == 0 && h.Get(port)&1 == 1
}

// Fell reports whether bit 0 of port went from 1 to 0 on the current sample.
// It is always false on the first sample.
//
func (h *History) Fell(port string) bool {
	return h.Len() > 1 && h.Past(port, 1)&1 == 1 && h.Get(port)&1 == 0
}

// Stable reports whether port has the same value as on the previous sample.
//
func (h *History) Stable(port string) bool {
	return h.Past(port, 1) == h.Get(port)
}

// Trace returns a copy of the samples.
//
func (h *History) Trace() Trace {
	t := Trace{Ports: h.ports, Samples: make([][]uint64, len(h.samples))}
	for i, s := range h.samples {
		t.Samples[i] = append([]uint64(nil), s...)
	}
	return t
}

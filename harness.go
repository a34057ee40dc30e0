// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chipsim

import (
	"strings"

	"github.com/pkg/errors"
)

// A Harness wraps a single part into a circuit where every input port is
// driven from a Go value and every output port is captured into one.
// Wires are named after the part's ports.
//
type Harness struct {
	c      *Circuit
	spec   *PartSpec
	index  map[string]int
	values []uint64 // port values, in spec.Ports order
	settle int
	init   bool
}

// NewHarness mounts spec into a new circuit. All inputs start at 0.
//
func NewHarness(workers int, spec *PartSpec) (*Harness, error) {
	if spec == nil {
		return nil, errors.New("nil part specification")
	}
	h := &Harness{
		spec:   spec,
		index:  make(map[string]int, len(spec.Ports)),
		values: make([]uint64, len(spec.Ports)),
	}
	parts := make(Parts, 0, len(spec.Ports)+1)
	var conns []string
	for i, p := range spec.Ports {
		h.index[p.Name] = i
		conns = append(conns, p.Name+"="+p.Name)
		v := &h.values[i]
		if p.Dir == DirIn {
			parts = append(parts, PortInput(p, func() uint64 { return *v }))
		} else {
			parts = append(parts, PortOutput(p, func(n uint64) { *v = n }))
		}
	}
	dut, err := spec.Part(strings.Join(conns, ", "))
	if err != nil {
		return nil, err
	}
	parts = append(parts, dut)

	h.c, err = NewCircuit(workers, parts...)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Spec returns the specification of the part under test.
//
func (h *Harness) Spec() *PartSpec { return h.spec }

// Circuit returns the underlying circuit.
//
func (h *Harness) Circuit() *Circuit { return h.c }

// SetSettleSteps sets the step budget of Settle. See Circuit.Settle.
//
func (h *Harness) SetSettleSteps(n int) { h.settle = n }

// Set sets the value of an input port. The value is truncated to the port
// width. It takes effect on the next call to Settle.
//
func (h *Harness) Set(port string, v uint64) error {
	i, ok := h.index[port]
	if !ok {
		return errors.New("unknown port " + port + " for part " + h.spec.Name)
	}
	p := h.spec.Ports[i]
	if p.Dir != DirIn {
		return errors.New("port " + port + " of part " + h.spec.Name + " is not an input")
	}
	h.values[i] = v & Mask(p.Bits)
	return nil
}

// Get returns the current value of a port. Output values are those observed
// by the last call to Settle.
//
func (h *Harness) Get(port string) (uint64, error) {
	i, ok := h.index[port]
	if !ok {
		return 0, errors.New("unknown port " + port + " for part " + h.spec.Name)
	}
	return h.values[i], nil
}

// Settle propagates the current input values through the circuit. The first
// call initializes the circuit with the input values, see Circuit.Init.
//
func (h *Harness) Settle() error {
	if !h.init {
		h.c.Init()
		h.init = true
	}
	return h.c.Settle(h.settle)
}

// Values returns a copy of all port values in port order.
//
func (h *Harness) Values() []uint64 {
	out := make([]uint64, len(h.values))
	copy(out, h.values)
	return out
}

// Dispose releases the circuit resources.
//
func (h *Harness) Dispose() { h.c.Dispose() }

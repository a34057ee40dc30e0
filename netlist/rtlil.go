// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netlist emits elaborated chipsim circuits as Yosys RTLIL text.
//
// Wires driven by input probes become top module inputs, wires observed by
// output probes become top module outputs. Every other part instance is
// emitted as a cell of its part name, with the part parameters as cell
// parameters. Each part is also declared as a black box module so that the
// netlist loads on its own.
//
package netlist

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/db47h/chipsim"
	"github.com/pkg/errors"
)

type direction int

const (
	internal direction = iota
	input
	output
)

// wire is a named group of circuit wires: name[0], name[1], ... or a single
// wire.
type wire struct {
	name  string
	width int
	bus   bool
	dir   direction
}

type module struct {
	name    string
	wires   []*wire
	byName  map[string]*wire
	private []*wire
	cells   []*chipsim.Instance
}

// splitWire splits a circuit wire name into its bus name and bit index.
//
func splitWire(name string) (base string, bit int, bus bool) {
	i := strings.LastIndexByte(name, '[')
	if i <= 0 || !strings.HasSuffix(name, "]") {
		return name, 0, false
	}
	n, err := strconv.Atoi(name[i+1 : len(name)-1])
	if err != nil {
		return name, 0, false
	}
	return name[:i], n, true
}

func newModule(nl *chipsim.Netlist) (*module, error) {
	m := &module{byName: make(map[string]*wire)}
	for _, n := range nl.Wires {
		base, bit, bus := splitWire(n)
		w := m.byName[base]
		if w == nil {
			w = &wire{name: base, bus: bus}
			m.byName[base] = w
			m.wires = append(m.wires, w)
		}
		if w.bus != bus {
			return nil, errors.Errorf("wire %s used both as a bus and a single wire", base)
		}
		if bit+1 > w.width {
			w.width = bit + 1
		}
	}

	for i := range nl.Instances {
		inst := &nl.Instances[i]
		if !inst.Spec.Probe {
			m.cells = append(m.cells, inst)
			continue
		}
		for _, p := range inst.Spec.Ports {
			for _, pin := range p.Pins() {
				n, ok := inst.Pins[pin]
				if !ok || n == chipsim.True || n == chipsim.False {
					continue
				}
				base, _, _ := splitWire(n)
				w := m.byName[base]
				switch {
				case p.Dir == chipsim.DirOut:
					w.dir = input
				case w.dir == internal:
					w.dir = output
				}
			}
		}
	}

	m.name = "top"
	if len(m.cells) == 1 {
		m.name = m.cells[0].Spec.Name + "_bench"
	}
	// the top module must not instantiate itself.
	for m.isCellType(m.name) {
		m.name += "_"
	}
	return m, nil
}

func (m *module) isCellType(name string) bool {
	for _, inst := range m.cells {
		if inst.Spec.Name == name {
			return true
		}
	}
	return false
}

// blackboxes returns the distinct cell part specs in order of first use.
//
func (m *module) blackboxes() []*chipsim.PartSpec {
	var out []*chipsim.PartSpec
	seen := make(map[string]bool)
	for _, inst := range m.cells {
		if !seen[inst.Spec.Name] {
			seen[inst.Spec.Name] = true
			out = append(out, inst.Spec)
		}
	}
	return out
}

func params(sp *chipsim.PartSpec) []string {
	keys := make([]string, 0, len(sp.Params))
	for k := range sp.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeBlackbox declares the parameters and ports of sp as an empty module.
// Port widths are those of the first instance.
//
func writeBlackbox(b *strings.Builder, sp *chipsim.PartSpec) {
	fmt.Fprintf(b, "attribute \\blackbox 1\nmodule \\%s\n", sp.Name)
	for _, k := range params(sp) {
		fmt.Fprintf(b, "  parameter \\%s %d\n", k, sp.Params[k])
	}
	for i, p := range sp.Ports {
		w := &wire{name: p.Name, width: p.Bits, bus: p.Bus, dir: input}
		if p.Dir == chipsim.DirOut {
			w.dir = output
		}
		writeWire(b, w, i+1)
	}
	b.WriteString("end\n")
}

func (m *module) bit(n string) string {
	switch n {
	case chipsim.True:
		return "1'1"
	case chipsim.False:
		return "1'0"
	}
	base, bit, bus := splitWire(n)
	if !bus {
		return `\` + base
	}
	return `\` + base + " [" + strconv.Itoa(bit) + "]"
}

// sigspec returns the RTLIL signal connected to port p of inst.
//
func (m *module) sigspec(inst *chipsim.Instance, p chipsim.Port) string {
	pins := p.Pins()
	bits := make([]string, len(pins))
	whole := true
	var base string
	for i, pin := range pins {
		n, ok := inst.Pins[pin]
		if !ok {
			if p.Dir == chipsim.DirIn {
				n = chipsim.False
			} else {
				n = chipsim.BusPinName(m.privateWire(inst, p), i)
			}
		}
		bits[i] = m.bit(n)
		b, bit, bus := splitWire(n)
		if i == 0 {
			base = b
		}
		if n == chipsim.True || n == chipsim.False || b != base || bit != i || bus != p.Bus {
			whole = false
		}
	}
	if whole && m.width(base) == len(pins) {
		return `\` + base
	}
	if len(bits) == 1 {
		return bits[0]
	}
	// concatenations list the most significant bit first.
	for i, j := 0, len(bits)-1; i < j; i, j = i+1, j-1 {
		bits[i], bits[j] = bits[j], bits[i]
	}
	return "{ " + strings.Join(bits, " ") + " }"
}

func (m *module) width(name string) int {
	if w := m.byName[name]; w != nil {
		return w.width
	}
	for _, w := range m.private {
		if w.name == name {
			return w.width
		}
	}
	return 0
}

// privateWire returns the name of the wire holding the unconnected bits of
// output port p.
//
func (m *module) privateWire(inst *chipsim.Instance, p chipsim.Port) string {
	name := inst.Name + "." + p.Name
	for _, w := range m.private {
		if w.name == name {
			return name
		}
	}
	m.private = append(m.private, &wire{name: name, width: p.Bits, bus: true})
	return name
}

func writeWire(b *strings.Builder, w *wire, port int) {
	b.WriteString("  wire ")
	if w.width > 1 {
		fmt.Fprintf(b, "width %d ", w.width)
	}
	switch w.dir {
	case input:
		fmt.Fprintf(b, "input %d ", port)
	case output:
		fmt.Fprintf(b, "output %d ", port)
	}
	b.WriteString(`\` + w.name + "\n")
}

// WriteRTLIL writes nl as a black box module per part type followed by the
// top module. The top module is named after the only non-probe part of the
// circuit with a "_bench" suffix, or "top" if there are several.
//
func WriteRTLIL(w io.Writer, nl *chipsim.Netlist) error {
	if nl == nil {
		return errors.New("nil netlist")
	}
	m, err := newModule(nl)
	if err != nil {
		return err
	}

	// cells first, so that private wires are known.
	var cells strings.Builder
	for _, inst := range m.cells {
		fmt.Fprintf(&cells, "  cell \\%s \\%s\n", inst.Spec.Name, inst.Name)
		for _, k := range params(inst.Spec) {
			fmt.Fprintf(&cells, "    parameter \\%s %d\n", k, inst.Spec.Params[k])
		}
		for _, p := range inst.Spec.Ports {
			fmt.Fprintf(&cells, "    connect \\%s %s\n", p.Name, m.sigspec(inst, p))
		}
		cells.WriteString("  end\n")
	}

	var b strings.Builder
	b.WriteString("# Generated by chipsim.\nautoidx 1\n")
	for _, sp := range m.blackboxes() {
		writeBlackbox(&b, sp)
	}
	fmt.Fprintf(&b, "attribute \\top 1\nmodule \\%s\n", m.name)
	port := 0
	for _, w := range m.wires {
		if w.dir != internal {
			port++
		}
		writeWire(&b, w, port)
	}
	for _, w := range m.private {
		writeWire(&b, w, 0)
	}
	b.WriteString(cells.String())
	b.WriteString("end\n")

	_, err = io.WriteString(w, b.String())
	return errors.Wrap(err, "failed to write netlist")
}

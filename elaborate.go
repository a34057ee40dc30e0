// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chipsim

import (
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// A PinID identifies a pin of a part instance in a netlist.
//
type PinID struct {
	Instance int // index in Netlist.Instances
	Pin      string
}

// An Instance is a part mounted in a circuit.
//
type Instance struct {
	Name string // unique instance name, derived from the part name
	Spec *PartSpec
	// Pins maps the part's pin names to wire names. Constant inputs map to
	// True or False. Unconnected pins are not listed.
	Pins map[string]string
}

// Netlist is the elaborated structure of a circuit: part instances and the
// wires connecting them.
//
type Netlist struct {
	Instances []Instance
	// Wires lists the names of all wires in order of first use. Constant
	// wires are not listed.
	Wires []string
	// Drivers maps a wire to the output pin driving it.
	Drivers map[string]PinID
	// Readers maps a wire to the input pins reading it.
	Readers map[string][]PinID
}

// Pin returns the printable name of a pin in the netlist.
//
func (nl *Netlist) Pin(id PinID) string {
	return nl.Instances[id.Instance].Name + "." + id.Pin
}

// elaborate builds a flat netlist from parts and checks its wiring.
//
func elaborate(parts []Part) (*Netlist, error) {
	nl := &Netlist{
		Drivers: make(map[string]PinID),
		Readers: make(map[string][]PinID),
	}
	names := make(map[string]int)
	seen := make(map[string]bool)

	for i, p := range parts {
		if p.PartSpec == nil {
			return nil, errors.Errorf("part #%d has no specification", i)
		}
		inst := Instance{
			Name: instanceName(names, p.Name),
			Spec: p.PartSpec,
			Pins: make(map[string]string),
		}
		for _, c := range p.Conns {
			port, pins, err := expandPin(p.PartSpec, c.Pin)
			if err != nil {
				return nil, err
			}
			wires, err := expandWire(c.Wire, len(pins), port.Bus && !c.Pin.Indexed)
			if err != nil {
				return nil, errors.Wrap(err, inst.Name+"."+c.String())
			}
			for k, pin := range pins {
				if _, ok := inst.Pins[pin]; ok {
					return nil, errors.New(inst.Name + "." + pin + " connected more than once")
				}
				inst.Pins[pin] = wires[k]
			}
		}

		// wire usage, in port order for deterministic wire numbering.
		for _, port := range p.Ports {
			for _, pin := range port.Pins() {
				w, ok := inst.Pins[pin]
				if !ok {
					continue
				}
				id := PinID{i, pin}
				if port.Dir == DirOut {
					if isConstant(w) {
						return nil, errors.New(inst.Name + "." + pin + ":" + w + ": output pin connected to constant " + w + " input")
					}
					if d, ok := nl.Drivers[w]; ok {
						return nil, errors.New(inst.Name + "." + pin + ":" + w + ": wire already driven by " + nl.Pin(d))
					}
					nl.Drivers[w] = id
				} else if !isConstant(w) {
					nl.Readers[w] = append(nl.Readers[w], id)
				}
				if !isConstant(w) && !seen[w] {
					seen[w] = true
					nl.Wires = append(nl.Wires, w)
				}
			}
		}
		nl.Instances = append(nl.Instances, inst)
	}

	// Error on wires with no driver. Sorted for stable error messages.
	var undriven []string
	for w := range nl.Readers {
		if _, ok := nl.Drivers[w]; !ok {
			undriven = append(undriven, w)
		}
	}
	if len(undriven) > 0 {
		sort.Strings(undriven)
		return nil, errors.New("wire " + undriven[0] + " not connected to any output")
	}
	return nl, nil
}

// instanceName returns name followed by an instance count. Names ending with
// a digit get an underscore separator.
//
func instanceName(names map[string]int, name string) string {
	n := names[name]
	names[name] = n + 1
	if l := len(name); l > 0 && name[l-1] >= '0' && name[l-1] <= '9' {
		name += "_"
	}
	return name + strconv.Itoa(n)
}

// expandPin returns the port referenced by r and the individual pin names.
//
func expandPin(sp *PartSpec, r PinRef) (Port, []string, error) {
	port, ok := sp.Ports.Find(r.Name)
	if !ok {
		return port, nil, errors.New("invalid pin name " + r.Name + " for part " + sp.Name)
	}
	if !r.Indexed {
		return port, port.Pins(), nil
	}
	if !port.Bus {
		return port, nil, errors.New("pin " + r.Name + " of part " + sp.Name + " is not a bus")
	}
	bits := r.bits()
	pins := make([]string, len(bits))
	for i, b := range bits {
		if b >= port.Bits {
			return port, nil, errors.New("pin " + r.String() + " out of range for part " + sp.Name)
		}
		pins[i] = BusPinName(port.Name, b)
	}
	return port, pins, nil
}

// expandWire returns n wire names for wire reference r. A bare wire name
// expands to a wire bus if n > 1 or if the pin side is a whole bus.
//
func expandWire(r PinRef, n int, bus bool) ([]string, error) {
	out := make([]string, n)
	if isConstant(r.Name) {
		if r.Indexed {
			return nil, errors.New("constant " + r.Name + " cannot be indexed")
		}
		for i := range out {
			out[i] = r.Name
		}
		return out, nil
	}
	if !r.Indexed {
		if n == 1 && !bus {
			out[0] = r.Name
			return out, nil
		}
		for i := range out {
			out[i] = BusPinName(r.Name, i)
		}
		return out, nil
	}
	bits := r.bits()
	if len(bits) != n {
		return nil, errors.New("pin count mismatch in pin mapping")
	}
	for i, b := range bits {
		out[i] = BusPinName(r.Name, b)
	}
	return out, nil
}

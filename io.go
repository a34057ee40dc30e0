// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chipsim

import (
	"strconv"
)

// common pin names
const (
	pIn  = "in"
	pOut = "out"
)

// Input creates a function based input.
//
//	Outputs: out
//	Function: out = f()
//
func Input(f func() bool) NewPartFn {
	p := &PartSpec{
		Name:  "Input",
		Ports: Out(pOut),
		Probe: true,
		Mount: func(s *Socket) []Component {
			pin := s.Pin(pOut)
			return []Component{
				func(c *Circuit) {
					c.Set(pin, f())
				},
			}
		},
	}
	return p.NewPart
}

// Output creates an output or probe. The fn function is
// called with the named pin state on every circuit update.
//
//	Inputs: in
//	Function: f(in)
//
func Output(f func(bool)) NewPartFn {
	p := &PartSpec{
		Name:  "Output",
		Ports: In(pIn),
		Probe: true,
		Mount: func(s *Socket) []Component {
			in := s.Pin(pIn)
			return []Component{
				func(c *Circuit) { f(c.Get(in)) },
			}
		},
	}
	return p.NewPart
}

// InputN creates an input bus of the given bits size.
//
//	Outputs: out[bits]
//	Function: out = f()
//
func InputN(bits int, f func() uint64) NewPartFn {
	return (&PartSpec{
		Name:  "Input" + strconv.Itoa(bits),
		Ports: Ports{{Name: pOut, Bits: bits, Bus: true, Dir: DirOut}},
		Probe: true,
		Mount: func(s *Socket) []Component {
			pins := s.Bus(pOut, bits)
			return []Component{func(c *Circuit) {
				c.SetBus(pins, f())
			}}
		}}).NewPart
}

// OutputN creates an output bus of the given bits size.
//
//	Inputs: in[bits]
//	Function: f(in)
//
func OutputN(bits int, f func(uint64)) NewPartFn {
	return (&PartSpec{
		Name:  "Output" + strconv.Itoa(bits),
		Ports: Ports{{Name: pIn, Bits: bits, Bus: true, Dir: DirIn}},
		Probe: true,
		Mount: func(s *Socket) []Component {
			pins := s.Bus(pIn, bits)
			return []Component{func(c *Circuit) {
				f(c.GetBus(pins))
			}}
		}}).NewPart
}

// PortInput returns an input probe driving the wires named after port p.
// Single pins are driven with the lowest bit of f().
//
func PortInput(p Port, f func() uint64) Part {
	if !p.Bus {
		return Input(func() bool { return f()&1 != 0 })("out=" + p.Name)
	}
	return InputN(p.Bits, f)("out=" + p.Name)
}

// PortOutput returns an output probe observing the wires named after port p.
//
func PortOutput(p Port, f func(uint64)) Part {
	if !p.Bus {
		return Output(func(b bool) {
			if b {
				f(1)
			} else {
				f(0)
			}
		})("in=" + p.Name)
	}
	return OutputN(p.Bits, f)("in=" + p.Name)
}

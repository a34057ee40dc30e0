// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chipsim

import "strconv"

// A Socket maps a part's pin names to pin numbers in a circuit.
//
type Socket struct {
	m map[string]int
	c *Circuit
}

func newSocket(c *Circuit) *Socket {
	return &Socket{
		m: map[string]int{False: cstFalse, True: cstTrue},
		c: c,
	}
}

// Pin returns the pin number allocated to the given pin name.
// This function panics if the pin does not exist.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic("pin " + name + " does not exist")
	}
	return n
}

// Bus returns the pin numbers allocated to the given bus name.
// This function panics if the bus has less than bits pins.
//
func (s *Socket) Bus(name string, bits int) []int {
	out := make([]int, bits)
	for i := range out {
		n, ok := s.m[BusPinName(name, i)]
		if !ok {
			panic("bus " + name + " has no pin " + strconv.Itoa(i))
		}
		out[i] = n
	}
	return out
}

// Port returns the pin numbers allocated to the pins of p, least significant
// bit first.
//
func (s *Socket) Port(p Port) []int {
	if !p.Bus {
		return []int{s.Pin(p.Name)}
	}
	return s.Bus(p.Name, p.Bits)
}

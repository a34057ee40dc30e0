// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chipsim

// MaxBusBits is the width of the widest bus whose value fits in a uint64.
//
const MaxBusBits = 64

// Mask returns a value with the lowest bits bits set.
//
func Mask(bits int) uint64 {
	switch {
	case bits <= 0:
		return 0
	case bits >= MaxBusBits:
		return ^uint64(0)
	}
	return 1<<uint(bits) - 1
}

// GetBus returns the state of the given pins as an integer. pins[0] is the
// least significant bit.
//
func (c *Circuit) GetBus(pins []int) uint64 {
	var v uint64
	for bit, n := range pins {
		if c.s0[n] {
			v |= 1 << uint(bit)
		}
	}
	return v
}

// SetBus sets the state of the given pins to v. pins[0] is the least
// significant bit. Bits of v above len(pins) are ignored.
//
func (c *Circuit) SetBus(pins []int, v uint64) {
	for bit, n := range pins {
		c.s1[n] = v&(1<<uint(bit)) != 0
	}
}

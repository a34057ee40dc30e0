// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ic

// A FillFn returns the content of a memory cell that has never been written.
//
type FillFn func(addr uint64) uint64

// ConstFill returns a FillFn that fills memory with v. Use
// ConstFill(^uint64(0)) for an erased EEPROM.
//
func ConstFill(v uint64) FillFn {
	return func(uint64) uint64 { return v }
}

// RandomFill returns a FillFn that mimics uninitialized memory with pseudo
// random contents. The value of a cell only depends on seed and its address.
//
func RandomFill(seed uint64) FillFn {
	return func(addr uint64) uint64 {
		// splitmix64
		z := seed + (addr+1)*0x9e3779b97f4a7c15
		z = (z ^ z>>30) * 0xbf58476d1ce4e5b9
		z = (z ^ z>>27) * 0x94d049bb133111eb
		return z ^ z>>31
	}
}

// denseLimit is the widest address bus for which all cells are allocated
// up front.
//
const denseLimit = 16

type cells interface {
	get(addr uint64) uint64
	set(addr, v uint64)
}

func newCells(addrBits int, fill FillFn, mask uint64) cells {
	if addrBits > denseLimit {
		return &sparseCells{m: make(map[uint64]uint64), fill: fill, mask: mask}
	}
	c := make(denseCells, 1<<uint(addrBits))
	if fill != nil {
		for i := range c {
			c[i] = fill(uint64(i)) & mask
		}
	}
	return c
}

type denseCells []uint64

func (c denseCells) get(addr uint64) uint64 { return c[addr] }
func (c denseCells) set(addr, v uint64)     { c[addr] = v }

// sparseCells only stores written cells.
type sparseCells struct {
	m    map[uint64]uint64
	fill FillFn
	mask uint64
}

func (c *sparseCells) get(addr uint64) uint64 {
	if v, ok := c.m[addr]; ok {
		return v
	}
	if c.fill == nil {
		return 0
	}
	return c.fill(addr) & c.mask
}

func (c *sparseCells) set(addr, v uint64) { c.m[addr] = v }

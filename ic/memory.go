// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ic

import (
	"github.com/db47h/chipsim"
	"github.com/pkg/errors"
)

// DefaultMaxAddrBits is the default and largest supported address bus width.
//
const DefaultMaxAddrBits = 32

// MemoryPins names the pins of a Memory.
//
type MemoryPins struct {
	Addr    string // address bus
	DataIn  string // data bus, written on the rising edge of WE
	DataOut string // data bus, read
	OE      string // output enable, active low
	WE      string // write enable, active low
}

// Pin naming conventions.
//
var (
	// SRAMPins follows the 62xx datasheet naming.
	SRAMPins = MemoryPins{"addr", "data_in", "data_out", "oe_n", "we_n"}
	// EEPROMPins follows the 28C64 datasheet naming.
	EEPROMPins = MemoryPins{"a", "io_in", "io_out", "oe_n", "we_n"}
)

// MemoryConfig is the construction configuration of a Memory.
//
type MemoryConfig struct {
	Name     string // part name, defaults to "SRAM"
	DataBits int    // data bus width, 1 to 64
	AddrBits int    // address bus width, 1 to MaxAddrBits
	// MaxAddrBits caps AddrBits. Zero means DefaultMaxAddrBits. It can be
	// lowered to reject devices larger than the host bus but never raised
	// above DefaultMaxAddrBits.
	MaxAddrBits int
	Pins        MemoryPins // zero value means SRAMPins
	// Fill gives the initial content of cells. nil means zero. The initial
	// content of a real chip is undefined and should not be relied upon.
	Fill FillFn
}

// Memory is an addressable memory device with separate data input and output
// buses, an active low output enable and an active low write enable.
//
//	Inputs: addr[AddrBits], data_in[DataBits], oe_n, we_n
//	Outputs: data_out[DataBits]
//	Function: data_out = !oe_n && we_n ? mem[addr] : 0
//	          on we_n 0 -> 1: mem[addr] = data_in
//
// Writes follow the "~WE controlled" write cycle of the datasheets: data is
// latched into memory when the write enable line is released, from the
// address and data present at that instant. The data output is not driven
// while ~WE is asserted.
//
type Memory struct {
	name     string
	dataBits int
	addrBits int
	pins     MemoryPins
	addrMask uint64
	dataMask uint64
	cells    cells
	we       edge
	writes   uint64
	mounted  bool
}

// NewMemory returns a new memory device. Bus widths are checked before
// anything is allocated.
//
func NewMemory(cfg MemoryConfig) (*Memory, error) {
	max := cfg.MaxAddrBits
	if max == 0 {
		max = DefaultMaxAddrBits
	}
	if max < 0 || max > DefaultMaxAddrBits {
		return nil, errors.Wrapf(ErrInvalidWidth, "address width limit %d out of range 1 to %d", max, DefaultMaxAddrBits)
	}
	if err := checkBits("data bus", cfg.DataBits, chipsim.MaxBusBits); err != nil {
		return nil, err
	}
	if err := checkBits("address bus", cfg.AddrBits, max); err != nil {
		return nil, err
	}
	if cfg.Pins == (MemoryPins{}) {
		cfg.Pins = SRAMPins
	}
	if cfg.Name == "" {
		cfg.Name = "SRAM"
	}
	m := &Memory{
		name:     cfg.Name,
		dataBits: cfg.DataBits,
		addrBits: cfg.AddrBits,
		pins:     cfg.Pins,
		addrMask: chipsim.Mask(cfg.AddrBits),
		dataMask: chipsim.Mask(cfg.DataBits),
	}
	m.cells = newCells(cfg.AddrBits, cfg.Fill, m.dataMask)
	return m, nil
}

// NewSRAM returns a static RAM similar to a 62xx IC.
// https://www.cs.uml.edu/~fredm/courses/91.305/files/cy6264.pdf
//
func NewSRAM(dataBits, addrBits int) (*Memory, error) {
	return NewMemory(MemoryConfig{
		Name:     "SRAM",
		DataBits: dataBits,
		AddrBits: addrBits,
		Pins:     SRAMPins,
	})
}

// NewEEPROM returns a memory similar to a 28C64 IC.
// https://ww1.microchip.com/downloads/en/DeviceDoc/doc0270.pdf
//
// Only the "~WE controlled" byte write cycle is modeled; there is no page
// mode and no write cycle time.
//
func NewEEPROM(dataBits, addrBits int) (*Memory, error) {
	return NewMemory(MemoryConfig{
		Name:     "EEPROM",
		DataBits: dataBits,
		AddrBits: addrBits,
		Pins:     EEPROMPins,
	})
}

// Name returns the part name.
//
func (m *Memory) Name() string { return m.name }

// DataBits returns the width of the data buses.
//
func (m *Memory) DataBits() int { return m.dataBits }

// AddrBits returns the width of the address bus.
//
func (m *Memory) AddrBits() int { return m.addrBits }

// Pins returns the pin naming of the device.
//
func (m *Memory) Pins() MemoryPins { return m.pins }

// Writes returns the number of committed writes.
//
func (m *Memory) Writes() uint64 { return m.writes }

// Read returns the value driven on the data output for the given inputs. It
// does not change the device state.
//
func (m *Memory) Read(addr uint64, oeN, weN bool) uint64 {
	if oeN || !weN {
		return 0
	}
	return m.cells.get(addr & m.addrMask)
}

// Eval evaluates the device for one observation of its inputs and returns
// the data output. If we_n went from 0 to 1 since the previous call, dataIn
// is stored at addr before computing the output.
//
func (m *Memory) Eval(addr, dataIn uint64, oeN, weN bool) uint64 {
	addr &= m.addrMask
	if rose, _ := m.we.update(weN); rose {
		m.cells.set(addr, dataIn&m.dataMask)
		m.writes++
	}
	return m.Read(addr, oeN, weN)
}

// Peek returns the content of the cell at addr, bypassing the control lines.
//
func (m *Memory) Peek(addr uint64) uint64 {
	return m.cells.get(addr & m.addrMask)
}

// Poke sets the content of the cell at addr, bypassing the control lines.
// This is how a programmer would preload an EEPROM.
//
func (m *Memory) Poke(addr, v uint64) {
	m.cells.set(addr&m.addrMask, v&m.dataMask)
}

// Ports returns the device ports in datasheet order: address, data in, data
// out, output enable, write enable.
//
func (m *Memory) Ports() chipsim.Ports {
	return chipsim.Ports{
		{Name: m.pins.Addr, Bits: m.addrBits, Bus: true, Dir: chipsim.DirIn},
		{Name: m.pins.DataIn, Bits: m.dataBits, Bus: true, Dir: chipsim.DirIn},
		{Name: m.pins.DataOut, Bits: m.dataBits, Bus: true, Dir: chipsim.DirOut},
		{Name: m.pins.OE, Bits: 1, Dir: chipsim.DirIn},
		{Name: m.pins.WE, Bits: 1, Dir: chipsim.DirIn},
	}
}

// Spec returns a part specification bound to this device. The part can be
// mounted in a single circuit.
//
func (m *Memory) Spec() *chipsim.PartSpec {
	return &chipsim.PartSpec{
		Name:   m.name,
		Ports:  m.Ports(),
		Params: map[string]int{"DATA_BITS": m.dataBits, "ADDR_BITS": m.addrBits},
		Mount:  m.mount,
	}
}

func (m *Memory) mount(s *chipsim.Socket) []chipsim.Component {
	if m.mounted {
		panic("device " + m.name + " already mounted")
	}
	m.mounted = true
	ps := m.Ports()
	addr, din, dout := s.Port(ps[0]), s.Port(ps[1]), s.Port(ps[2])
	oe, we := s.Pin(m.pins.OE), s.Pin(m.pins.WE)
	return []chipsim.Component{
		func(c *chipsim.Circuit) {
			c.SetBus(dout, m.Eval(c.GetBus(addr), c.GetBus(din), c.Get(oe), c.Get(we)))
		}}
}

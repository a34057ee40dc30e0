// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

import (
	"sort"
	"time"

	"github.com/db47h/chipsim"
	"github.com/db47h/chipsim/ic"
	"github.com/pkg/errors"
)

// Tick is the delay between scenario phases.
//
const Tick = time.Microsecond

// memoryWriteRead writes 0x1111 at address 0 and 0x2222 at address 1 with
// ~WE controlled write cycles, then reads both back with ~OE controlled read
// cycles.
//
func memoryWriteRead(name string, p ic.MemoryPins) *Scenario {
	s := NewScenario(name).Set(p.OE, 1)
	for a, v := range []uint64{0x1111, 0x2222} {
		s.Set(p.Addr, uint64(a)).
			Set(p.DataIn, v).
			Set(p.WE, 0).
			Delay(Tick).
			Expect(p.DataOut, 0).
			Set(p.WE, 1).
			Delay(Tick)
	}
	s.Set(p.DataIn, 0)
	for a, v := range []uint64{0x1111, 0x2222} {
		s.Set(p.Addr, uint64(a)).
			Set(p.OE, 0).
			Delay(Tick).
			Expect(p.DataOut, v).
			Set(p.OE, 1).
			Delay(Tick).
			Expect(p.DataOut, 0)
	}
	return s
}

// SRAMWriteRead simulates the "Write Cycle No. 1 (~WE controlled)" then "Read
// Cycle No. 2" waveforms of a 62xx datasheet.
//
func SRAMWriteRead() *Scenario {
	return memoryWriteRead("SRAMWriteRead", ic.SRAMPins)
}

// EEPROMWriteRead simulates the "AC Write Waveforms (~WE controlled)" then
// "AC Read Waveforms" of a 28C64 datasheet.
//
func EEPROMWriteRead() *Scenario {
	return memoryWriteRead("EEPROMWriteRead", ic.EEPROMPins)
}

// LatchCapture makes a 16 bits latch transparent, captures 0x5678, holds it
// while d changes, then goes back to transparent mode and disables the
// output.
//
func LatchCapture() *Scenario {
	return NewScenario("LatchCapture").
		Set("oe_n", 0).
		Set("le", 1).
		Delay(Tick).
		Set("d", 0x1234).
		Delay(Tick).
		Expect("q", 0x1234).
		Set("d", 0x5678).
		Delay(Tick).
		Expect("q", 0x5678).
		Set("le", 0).
		Delay(Tick).
		Expect("q", 0x5678).
		Set("d", 0x1234).
		Delay(Tick).
		Expect("q", 0x5678).
		Set("le", 1).
		Delay(Tick).
		Expect("q", 0x1234).
		Set("oe_n", 1).
		Delay(Tick).
		Expect("q", 0)
}

// DeviceOptions configures device construction.
//
type DeviceOptions struct {
	// MaxAddrBits caps memory address widths. 0 means ic.DefaultMaxAddrBits.
	MaxAddrBits int
}

// Device is a registered device model.
//
type Device struct {
	Name        string // command line name
	Base        string // base name of output files
	Description string
	New         func(o DeviceOptions) (*chipsim.PartSpec, error)
	Scenario    func() *Scenario
}

// Registry maps device names to devices.
//
type Registry map[string]Device

// Lookup returns the named device.
//
func (r Registry) Lookup(name string) (Device, error) {
	d, ok := r[name]
	if !ok {
		return d, errors.Errorf("unknown device %q", name)
	}
	return d, nil
}

// Devices returns all devices sorted by name.
//
func (r Registry) Devices() []Device {
	ds := make([]Device, 0, len(r))
	for _, d := range r {
		ds = append(ds, d)
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i].Name < ds[j].Name })
	return ds
}

func memory(name string, dataBits, addrBits int, pins ic.MemoryPins) func(DeviceOptions) (*chipsim.PartSpec, error) {
	return func(o DeviceOptions) (*chipsim.PartSpec, error) {
		m, err := ic.NewMemory(ic.MemoryConfig{
			Name:        name,
			DataBits:    dataBits,
			AddrBits:    addrBits,
			MaxAddrBits: o.MaxAddrBits,
			Pins:        pins,
		})
		if err != nil {
			return nil, err
		}
		return m.Spec(), nil
	}
}

// Devices is the registry of built-in devices.
//
var Devices = Registry{
	"sram": {
		Name:        "sram",
		Base:        "SRam",
		Description: "16x16 bits static RAM (62xx)",
		New:         memory("SRAM", 16, 4, ic.SRAMPins),
		Scenario:    SRAMWriteRead,
	},
	"eeprom": {
		Name:        "eeprom",
		Base:        "EEProm",
		Description: "16x16 bits EEPROM (28C64)",
		New:         memory("EEPROM", 16, 4, ic.EEPROMPins),
		Scenario:    EEPROMWriteRead,
	},
	"latch": {
		Name:        "latch",
		Base:        "TransparentLatch",
		Description: "16 bits transparent latch (74x373)",
		New: func(DeviceOptions) (*chipsim.PartSpec, error) {
			l, err := ic.NewLatch(16)
			if err != nil {
				return nil, err
			}
			return l.Spec(), nil
		},
		Scenario: LatchCapture,
	},
}

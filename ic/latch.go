// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ic

import (
	"github.com/db47h/chipsim"
)

// Latch pin names.
//
const (
	pD   = "d"
	pQ   = "q"
	pLE  = "le"
	pOEn = "oe_n"
)

// LatchState is the state of a transparent latch.
//
type LatchState int

// Latch states.
//
const (
	// Holding: q is the value captured on the last falling edge of le.
	Holding LatchState = iota
	// Transparent: q follows d.
	Transparent
)

func (s LatchState) String() string {
	if s == Transparent {
		return "transparent"
	}
	return "holding"
}

// Latch is a transparent latch similar to one of a 74x373.
// https://assets.nexperia.com/documents/data-sheet/74HC_HCT373.pdf
//
//	Inputs: d[bits], le, oe_n
//	Outputs: q[bits]
//	Function: on le 1 -> 0: reg = d
//	          q = oe_n ? 0 : le ? d : reg
//
// The register captures d on the falling edge of le whatever the state of
// oe_n. The register starts at 0.
//
type Latch struct {
	bits    int
	mask    uint64
	reg     uint64
	le      edge
	state   LatchState
	mounted bool
}

// NewLatch returns a new latch of the given width.
//
func NewLatch(bits int) (*Latch, error) {
	if err := checkBits("latch", bits, chipsim.MaxBusBits); err != nil {
		return nil, err
	}
	return &Latch{bits: bits, mask: chipsim.Mask(bits)}, nil
}

// Name returns the part name.
//
func (l *Latch) Name() string { return "TransparentLatch" }

// Bits returns the latch width.
//
func (l *Latch) Bits() int { return l.bits }

// Register returns the last captured value.
//
func (l *Latch) Register() uint64 { return l.reg }

// State returns the latch state as of the last evaluation.
//
func (l *Latch) State() LatchState { return l.state }

// Output returns the value driven on q for the given inputs and the current
// register value. It does not change the device state.
//
func (l *Latch) Output(d uint64, le, oeN bool) uint64 {
	switch {
	case oeN:
		return 0
	case le:
		return d & l.mask
	}
	return l.reg
}

// Eval evaluates the device for one observation of its inputs and returns
// q. If le went from 1 to 0 since the previous call, d is captured before
// computing the output.
//
func (l *Latch) Eval(d uint64, le, oeN bool) uint64 {
	d &= l.mask
	if _, fell := l.le.update(le); fell {
		l.reg = d
	}
	if le {
		l.state = Transparent
	} else {
		l.state = Holding
	}
	return l.Output(d, le, oeN)
}

// Ports returns the device ports: d, q, le, oe_n.
//
func (l *Latch) Ports() chipsim.Ports {
	return chipsim.Ports{
		{Name: pD, Bits: l.bits, Bus: true, Dir: chipsim.DirIn},
		{Name: pQ, Bits: l.bits, Bus: true, Dir: chipsim.DirOut},
		{Name: pLE, Bits: 1, Dir: chipsim.DirIn},
		{Name: pOEn, Bits: 1, Dir: chipsim.DirIn},
	}
}

// Spec returns a part specification bound to this device. The part can be
// mounted in a single circuit.
//
func (l *Latch) Spec() *chipsim.PartSpec {
	return &chipsim.PartSpec{
		Name:   l.Name(),
		Ports:  l.Ports(),
		Params: map[string]int{"WIDTH": l.bits},
		Mount:  l.mount,
	}
}

func (l *Latch) mount(s *chipsim.Socket) []chipsim.Component {
	if l.mounted {
		panic("device " + l.Name() + " already mounted")
	}
	l.mounted = true
	ps := l.Ports()
	d, q := s.Port(ps[0]), s.Port(ps[1])
	le, oe := s.Pin(pLE), s.Pin(pOEn)
	return []chipsim.Component{
		func(c *chipsim.Circuit) {
			c.SetBus(q, l.Eval(c.GetBus(d), c.Get(le), c.Get(oe)))
		}}
}

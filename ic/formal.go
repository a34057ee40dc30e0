// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ic

import (
	"github.com/db47h/chipsim"
	"github.com/db47h/chipsim/verify"
	"github.com/pkg/errors"
)

// Formal returns the verification bench of the named device model. Memory
// models have none and return an error wrapping ErrFormalNotSupported.
//
func Formal(device string) (*verify.Bench, error) {
	switch device {
	case "latch":
		return LatchBench(16)
	case "sram", "eeprom":
		return nil, errors.Wrap(ErrFormalNotSupported, device)
	}
	return nil, errors.Errorf("unknown device %q", device)
}

// LatchBench returns a verification bench for a Latch of the given width.
//
func LatchBench(bits int) (*verify.Bench, error) {
	if err := checkBits("latch", bits, chipsim.MaxBusBits); err != nil {
		return nil, err
	}
	mask := chipsim.Mask(bits)
	a, b := 0x1234&mask, 0x5678&mask
	return &verify.Bench{
		Name: "TransparentLatch",
		New: func() (*chipsim.PartSpec, error) {
			l, err := NewLatch(bits)
			if err != nil {
				return nil, err
			}
			return l.Spec(), nil
		},
		Properties: LatchProperties(a, b),
		Values:     map[string][]uint64{pD: {a, b}},
	}, nil
}

// LatchProperties returns the properties of a transparent latch. The cover
// property expects q to go from b to a through a capture.
//
func LatchProperties(a, b uint64) []verify.Property {
	enabled := func(h *verify.History) bool { return h.Get(pOEn) == 0 }
	return []verify.Property{
		{
			Name: "output disabled",
			Kind: verify.Assert,
			Check: func(h *verify.History) bool {
				return enabled(h) || h.Get(pQ) == 0
			},
		},
		{
			Name: "transparent",
			Kind: verify.Assert,
			Check: func(h *verify.History) bool {
				return !enabled(h) || h.Get(pLE) == 0 || h.Get(pQ) == h.Get(pD)
			},
		},
		{
			Name: "capture",
			Kind: verify.Assert,
			Check: func(h *verify.History) bool {
				return !enabled(h) || !h.Fell(pLE) || h.Get(pQ) == h.Get(pD)
			},
		},
		{
			Name: "hold",
			Kind: verify.Assert,
			Check: func(h *verify.History) bool {
				if h.Len() < 2 || !enabled(h) || h.Past(pOEn, 1) != 0 ||
					h.Get(pLE) != 0 || h.Past(pLE, 1) != 0 {
					return true
				}
				return h.Get(pQ) == h.Past(pQ, 1)
			},
		},
		{
			Name: "capture sequence",
			Kind: verify.Cover,
			Check: func(h *verify.History) bool {
				return h.Get(pQ) == a && h.Get(pLE) == 0 &&
					h.Past(pQ, 2) == b && h.Past(pLE, 2) == 0
			},
		},
	}
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package ic provides behavioral models of memory-mapped integrated circuits
// for chipsim: a static RAM similar to the 62xx family, an EEPROM similar to
// the 28C64 and a transparent latch similar to the 74x373.
//
// Every model can be used directly, through its Eval method, or mounted into
// a chipsim.Circuit through the PartSpec returned by its Spec method.
//
// Control lines suffixed with _n are active low. A device drives 0 on its
// outputs when it does not drive the bus: the tri-state "high impedance"
// condition is not distinguished from a real 0.
//
package ic

import (
	"github.com/pkg/errors"
)

// ErrInvalidWidth is returned by constructors when a bus width is out of
// range.
//
var ErrInvalidWidth = errors.New("invalid bus width")

// ErrFormalNotSupported is returned when asking a device model for a
// verification bench that it does not implement.
//
var ErrFormalNotSupported = errors.New("formal verification not supported")

// checkBits checks that 0 < bits <= max.
//
func checkBits(what string, bits, max int) error {
	if bits <= 0 || bits > max {
		return errors.Wrapf(ErrInvalidWidth, "%s: %d bits, want 1 to %d", what, bits, max)
	}
	return nil
}

// edge tracks the previous level of a clock-like control line. The first
// update only records the level, so an edge needs two observations.
//
type edge struct {
	prev   bool
	primed bool
}

func (e *edge) update(level bool) (rose, fell bool) {
	if e.primed {
		rose = !e.prev && level
		fell = e.prev && !level
	}
	e.prev, e.primed = level, true
	return rose, fell
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chipsim

import (
	"strconv"
	"text/scanner"

	"github.com/pkg/errors"
)

// Constant wire names. They can be connected to any input pin.
//
const (
	True  = "true"
	False = "false"
)

const (
	cstFalse = iota
	cstTrue
	cstCount
)

func isConstant(name string) bool {
	return name == True || name == False
}

// A PinRef references a pin, a bus, a single bus pin (name[i]) or a range of
// bus pins (name[start..end]) in a connection string.
//
type PinRef struct {
	Name       string
	Start, End int  // bit range, inclusive. Only valid if Indexed is true
	Indexed    bool // false if the reference is a bare name
}

func (r PinRef) String() string {
	switch {
	case !r.Indexed:
		return r.Name
	case r.Start == r.End:
		return BusPinName(r.Name, r.Start)
	}
	return r.Name + "[" + strconv.Itoa(r.Start) + ".." + strconv.Itoa(r.End) + "]"
}

// bits returns the bit indices referenced by r, in order.
//
func (r PinRef) bits() []int {
	step := 1
	if r.End < r.Start {
		step = -1
	}
	out := make([]int, 0, (r.End-r.Start)*step+1)
	for i := r.Start; ; i += step {
		out = append(out, i)
		if i == r.End {
			break
		}
	}
	return out
}

// A Connection connects a pin of a part (left hand side) to a wire of the
// enclosing circuit (right hand side).
//
type Connection struct {
	Pin  PinRef
	Wire PinRef
}

func (c Connection) String() string {
	return c.Pin.String() + "=" + c.Wire.String()
}

// ParseConnections parses a connection string. A connection string is a comma
// separated list of pin=wire assignments, where either side may be a pin
// name, a bus name, an indexed bus pin or a range of bus pins:
//
//	"addr=a, data_in[0..7]=bus[8..15], data_in[8..15]=false, oe_n=oe"
//
// A bare bus name on the left hand side connects all the bus pins to the
// same number of pins of the named wire bus.
//
func ParseConnections(conns string) ([]Connection, error) {
	var out []Connection

	l := newLexer(conns)
	tok := l.next()
	if tok == scanner.EOF {
		return nil, nil
	}
	for {
		pin, t, err := parsePinRef(l, tok)
		if err != nil {
			return nil, err
		}
		if t != '=' {
			return nil, l.errorf("expected '='")
		}
		wire, t, err := parsePinRef(l, l.next())
		if err != nil {
			return nil, err
		}
		out = append(out, Connection{pin, wire})
		switch t {
		case scanner.EOF:
			if l.err != nil {
				return nil, errors.Wrapf(l.err, "in %q", conns)
			}
			return out, nil
		case ',':
			tok = l.next()
		default:
			return nil, l.errorf("expected comma or end of input")
		}
	}
}

// parsePinRef parses a pin reference starting at token tok. It returns the
// reference and the token that follows it.
//
func parsePinRef(l *lexer, tok rune) (PinRef, rune, error) {
	if tok != scanner.Ident {
		return PinRef{}, tok, l.errorf("expected pin name")
	}
	r := PinRef{Name: l.text()}
	tok = l.next()
	if tok != '[' {
		return r, tok, nil
	}
	start, err := parseIndex(l)
	if err != nil {
		return r, tok, err
	}
	r.Indexed, r.Start, r.End = true, start, start
	tok = l.next()
	if tok == '.' {
		if l.next() != '.' {
			return r, tok, l.errorf("expected '..'")
		}
		if r.End, err = parseIndex(l); err != nil {
			return r, tok, err
		}
		tok = l.next()
	}
	if tok != ']' {
		return r, tok, l.errorf("closing ']' expected after index or range")
	}
	return r, l.next(), nil
}

func parseIndex(l *lexer) (int, error) {
	if l.next() != scanner.Int {
		return 0, l.errorf("integer value expected")
	}
	n, err := strconv.Atoi(l.text())
	if err != nil || n >= MaxBusBits {
		return 0, l.errorf("invalid pin index %s", l.text())
	}
	return n, nil
}

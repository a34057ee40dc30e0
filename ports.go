// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chipsim

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/pkg/errors"
)

// Direction tells whether a port is driven from outside the part or by the
// part itself.
//
type Direction int

// Port directions.
//
const (
	DirIn Direction = iota
	DirOut
)

func (d Direction) String() string {
	if d == DirOut {
		return "output"
	}
	return "input"
}

// A Port is a named pin or bus of a part.
//
type Port struct {
	Name string
	Bits int  // pin count, 1 for single pins
	Bus  bool // true if declared as name[bits]
	Dir  Direction
}

// Pins returns the individual pin names of a port. Single pins expand to
// their own name, buses to name[0]..name[Bits-1].
//
func (p Port) Pins() []string {
	if !p.Bus {
		return []string{p.Name}
	}
	out := make([]string, p.Bits)
	for i := range out {
		out[i] = BusPinName(p.Name, i)
	}
	return out
}

func (p Port) String() string {
	if p.Bus {
		return p.Name + "[" + strconv.Itoa(p.Bits) + "]"
	}
	return p.Name
}

// Ports is an ordered list of ports.
//
type Ports []Port

// Find returns the port with the given name.
//
func (ps Ports) Find(name string) (Port, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// Inputs returns the input ports in declaration order.
//
func (ps Ports) Inputs() Ports { return ps.filter(DirIn) }

// Outputs returns the output ports in declaration order.
//
func (ps Ports) Outputs() Ports { return ps.filter(DirOut) }

func (ps Ports) filter(d Direction) Ports {
	var out Ports
	for _, p := range ps {
		if p.Dir == d {
			out = append(out, p)
		}
	}
	return out
}

// Pins returns all pin names of all ports, in order.
//
func (ps Ports) Pins() []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Pins()...)
	}
	return out
}

// BusPinName returns the name of the i-th pin of the named bus.
//
func BusPinName(bus string, i int) string {
	return bus + "[" + strconv.Itoa(i) + "]"
}

// In parses an input port declaration and panics on error.
// See ParseIO for the syntax.
//
func In(decl string) Ports {
	return mustIO(decl, DirIn)
}

// Out parses an output port declaration and panics on error.
// See ParseIO for the syntax.
//
func Out(decl string) Ports {
	return mustIO(decl, DirOut)
}

func mustIO(decl string, d Direction) Ports {
	ps, err := ParseIO(decl, d)
	if err != nil {
		panic(err)
	}
	return ps
}

// ParseIO parses a comma separated list of port declarations. A declaration
// is either a pin name or a bus name followed by its width in brackets:
//
//	ParseIO("addr[4], oe_n", DirIn) // addr is a 4 bits bus, oe_n a single pin
//
func ParseIO(decl string, d Direction) (Ports, error) {
	var out Ports
	seen := make(map[string]bool)

	l := newLexer(decl)
	tok := l.next()
	if tok == scanner.EOF {
		return nil, nil
	}
	for {
		if tok != scanner.Ident {
			return nil, l.errorf("expected pin name")
		}
		p := Port{Name: l.text(), Bits: 1, Dir: d}
		if isConstant(p.Name) {
			return nil, l.errorf("%q is a reserved name", p.Name)
		}
		tok = l.next()
		if tok == '[' {
			if l.next() != scanner.Int {
				return nil, l.errorf("missing bus size")
			}
			n, err := strconv.Atoi(l.text())
			if err != nil || n < 1 || n > MaxBusBits {
				return nil, l.errorf("invalid bus size %s", l.text())
			}
			if l.next() != ']' {
				return nil, l.errorf("missing close bracket")
			}
			p.Bits, p.Bus = n, true
			tok = l.next()
		}
		if seen[p.Name] {
			return nil, l.errorf("duplicate port %q", p.Name)
		}
		seen[p.Name] = true
		out = append(out, p)

		switch tok {
		case scanner.EOF:
			return out, nil
		case ',':
			tok = l.next()
		default:
			return nil, l.errorf("expected comma or end of input")
		}
	}
}

// lexer wraps text/scanner for the small pin declaration and connection
// languages.
//
type lexer struct {
	s   scanner.Scanner
	in  string
	err error
}

func newLexer(in string) *lexer {
	l := &lexer{in: in}
	l.s.Init(strings.NewReader(in))
	l.s.Mode = scanner.ScanIdents | scanner.ScanInts
	l.s.Error = func(s *scanner.Scanner, msg string) {
		if l.err == nil {
			l.err = errors.New(msg)
		}
	}
	return l
}

func (l *lexer) next() rune { return l.s.Scan() }

func (l *lexer) text() string { return l.s.TokenText() }

func (l *lexer) errorf(format string, args ...interface{}) error {
	return errors.Errorf("in %q at pos %d: %s", l.in, l.s.Position.Offset+1, fmt.Sprintf(format, args...))
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chipsim

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// DefaultSettleSteps is the step budget used by Settle when called with a
// non-positive value.
//
const DefaultSettleSteps = 64

// ErrUnstable is returned by Settle when the circuit does not reach a stable
// state within the allowed number of steps.
//
var ErrUnstable = errors.New("circuit did not settle")

// A Component is an updatable component of a circuit. Components read wire
// states with Circuit.Get and write the next state with Circuit.Set.
//
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned pin numbers and return closures around
// these pin numbers.
//
// For example, a Not gate can be defined like this:
//
//	not := &PartSpec{
//		Name: "Not",
//		Ports: append(In("in"), Out("out")...),
//		Mount: func (s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func (c *Circuit) { c.Set(out, !c.Get(in)) },
//			}
//		}}
//
// State private to a part instance, like the cells of a memory, lives in
// variables captured by the returned closures.
//
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
type PartSpec struct {
	// Part name.
	Name string
	// Ports in declaration order. Use In() and Out() to build them from a
	// declaration string like "addr[4], oe_n".
	Ports Ports
	// Params are the construction parameters of the part, like bus widths.
	// They are informative only and exported as-is in netlists.
	Params map[string]int
	// Probe marks parts that only exist to drive or observe circuit wires
	// from Go code. Netlist emitters turn the wires they touch into
	// top-level ports instead of emitting a cell.
	Probe bool

	// Mount function (see MountFn).
	Mount MountFn
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string cannot be parsed.
//
func (p *PartSpec) NewPart(conns string) Part {
	part, err := p.Part(conns)
	if err != nil {
		panic(err)
	}
	return part
}

// Part is like NewPart but returns parse errors instead of panicking.
//
func (p *PartSpec) Part(conns string) (Part, error) {
	cs, err := ParseConnections(conns)
	if err != nil {
		return Part{}, errors.Wrap(err, p.Name)
	}
	return Part{p, cs}, nil
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part. See ParseConnections for the syntax of the connection configuration
// string.
//
type NewPartFn func(conns string) Part

// A Part wraps a part specification together with its connections within a
// circuit.
//
type Part struct {
	*PartSpec
	Conns []Connection
}

// Parts is a convenience wrapper for []Part.
//
type Parts []Part

// Circuit is a runnable circuit simulation.
//
type Circuit struct {
	s0    []bool // wire states frame #0
	s1    []bool // wire states frame #1
	cs    []Component
	ps    []Component // input probes
	count int // wire count
	steps uint
	nl    *Netlist

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewCircuit builds a new circuit based on the given parts.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used. With a single worker, components are updated by the goroutine
// calling Step.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(workers int, parts ...Part) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}
	nl, err := elaborate(parts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to elaborate circuit")
	}

	// new circuit with room for constant value pins.
	c := &Circuit{count: cstCount, nl: nl}
	wires := map[string]int{False: cstFalse, True: cstTrue}
	for _, w := range nl.Wires {
		wires[w] = c.allocPin()
	}
	for i := range nl.Instances {
		inst := &nl.Instances[i]
		s := newSocket(c)
		for pin, w := range inst.Pins {
			s.m[pin] = wires[w]
		}
		// unconnected inputs read False, unconnected outputs get a private wire.
		for _, p := range inst.Spec.Ports {
			for _, pin := range p.Pins() {
				if _, ok := s.m[pin]; ok {
					continue
				}
				if p.Dir == DirOut {
					s.m[pin] = c.allocPin()
				} else {
					s.m[pin] = cstFalse
				}
			}
		}
		cs, err := mount(inst, s)
		if err != nil {
			return nil, err
		}
		c.cs = append(c.cs, cs...)
		if inst.Spec.Probe && len(inst.Spec.Ports.Outputs()) > 0 {
			c.ps = append(c.ps, cs...)
		}
	}
	c.s0 = make([]bool, c.count)
	c.s1 = make([]bool, c.count)
	// init constant pins
	c.s0[cstTrue] = true
	c.s1[cstTrue] = true

	// workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers == 1 {
		return c, nil
	}
	ups := c.cs
	for len(ups) > 0 {
		size := len(ups) / workers
		if size*workers < len(ups) {
			size++
		}
		wc := make(chan struct{}, 1)
		c.wc = append(c.wc, wc)
		go worker(c, ups[:size], wc)
		ups = ups[size:]
	}

	return c, nil
}

func mount(inst *Instance, s *Socket) (cs []Component, err error) {
	if inst.Spec.Mount == nil {
		return nil, errors.Errorf("part %s has no mount function", inst.Spec.Name)
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("failed to mount %s: %v", inst.Name, r)
		}
	}()
	return inst.Spec.Mount(s), nil
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
//
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// allocPin allocates a pin and returns its number.
//
func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint {
	return c.steps
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) bool {
	return c.s0[n]
}

// Set sets the state s of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Set(n int, s bool) {
	c.s1[n] = s
}

// Step advances the simulation by one step.
//
func (c *Circuit) Step() {
	if len(c.wc) == 0 {
		for _, f := range c.cs {
			f(c)
		}
	} else {
		c.wg.Add(len(c.wc))
		for _, wc := range c.wc {
			wc <- struct{}{}
		}
		c.wg.Wait()
	}
	c.steps++
	c.s0, c.s1 = c.s1, c.s0
}

// Init runs the input probes once and makes the wires they drive part of the
// current frame. Parts then observe the probe values on the first Step instead
// of all-low wires, which would look like asserted active low control lines.
//
func (c *Circuit) Init() {
	for _, f := range c.ps {
		f(c)
	}
	copy(c.s0, c.s1)
}

// Settle steps the circuit until a whole step leaves every wire unchanged.
// Once Settle returns, outputs reflect the current inputs. It returns an error
// wrapping ErrUnstable if the circuit still changes after max steps.
//
func (c *Circuit) Settle(max int) error {
	if max <= 0 {
		max = DefaultSettleSteps
	}
	for i := 0; i < max; i++ {
		c.Step()
		if stable(c.s0, c.s1) {
			return nil
		}
	}
	return errors.Wrapf(ErrUnstable, "still changing after %d steps", max)
}

func stable(s0, s1 []bool) bool {
	for i := range s0 {
		if s0[i] != s1[i] {
			return false
		}
	}
	return true
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }

// Netlist returns the elaborated structure of the circuit.
//
func (c *Circuit) Netlist() *Netlist { return c.nl }

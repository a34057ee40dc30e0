// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chipsim_test

import (
	"testing"

	"github.com/db47h/chipsim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var not = &chipsim.PartSpec{
	Name:  "Not",
	Ports: append(chipsim.In("in"), chipsim.Out("out")...),
	Mount: func(s *chipsim.Socket) []chipsim.Component {
		in, out := s.Pin("in"), s.Pin("out")
		return []chipsim.Component{
			func(c *chipsim.Circuit) { c.Set(out, !c.Get(in)) },
		}
	},
}

// pass2 copies its 2 bits input bus to its output bus.
var pass2 = &chipsim.PartSpec{
	Name:  "Pass2",
	Ports: append(chipsim.In("in[2]"), chipsim.Out("out[2]")...),
	Mount: func(s *chipsim.Socket) []chipsim.Component {
		in, out := s.Bus("in", 2), s.Bus("out", 2)
		return []chipsim.Component{
			func(c *chipsim.Circuit) { c.SetBus(out, c.GetBus(in)) },
		}
	},
}

func TestNewCircuit_errors(t *testing.T) {
	input := chipsim.Input(func() bool { return true })
	bad := &chipsim.PartSpec{
		Name:  "Bad",
		Ports: chipsim.In("in"),
		Mount: func(s *chipsim.Socket) []chipsim.Component {
			s.Pin("nope")
			return nil
		},
	}
	noMount := &chipsim.PartSpec{Name: "NoMount", Ports: chipsim.In("in")}

	data := []struct {
		name  string
		parts chipsim.Parts
		err   string
	}{
		{"empty", nil, "empty part list"},
		{"true_out", chipsim.Parts{
			input("out=a"),
			not.NewPart("in=a, out=true"),
		}, "Not0.out:true: output pin connected to constant true input"},
		{"multi_out", chipsim.Parts{
			input("out=a"),
			not.NewPart("in=a, out=x"),
			not.NewPart("in=a, out=x"),
		}, "Not1.out:x: wire already driven by Not0.out"},
		{"undriven", chipsim.Parts{
			not.NewPart("in=w, out=o"),
		}, "wire w not connected to any output"},
		{"unknown_pin", chipsim.Parts{
			input("out=a"),
			not.NewPart("typo=a, out=o"),
		}, "invalid pin name typo for part Not"},
		{"twice", chipsim.Parts{
			input("out=a"),
			not.NewPart("in=a, in=a, out=o"),
		}, "Not0.in connected more than once"},
		{"not_a_bus", chipsim.Parts{
			input("out=a"),
			not.NewPart("in[0]=a, out=o"),
		}, "pin in of part Not is not a bus"},
		{"out_of_range", chipsim.Parts{
			input("out=a"),
			pass2.NewPart("in[2]=a, out=o"),
		}, "pin in[2] out of range for part Pass2"},
		{"count_mismatch", chipsim.Parts{
			chipsim.InputN(4, func() uint64 { return 0 })("out=a"),
			pass2.NewPart("in=a[0..2], out=o"),
		}, "pin count mismatch in pin mapping"},
		{"partial_bus", chipsim.Parts{
			chipsim.InputN(2, func() uint64 { return 0 })("out=bus"),
			pass2.NewPart("in=bus, out[1]=o[0]"),
			chipsim.OutputN(2, func(uint64) {})("in=o"),
		}, "wire o[1] not connected to any output"},
		{"nil_spec", chipsim.Parts{{}}, "part #0 has no specification"},
		{"mount_panic", chipsim.Parts{
			input("out=a"),
			bad.NewPart("in=a"),
		}, "failed to mount Bad0: pin nope does not exist"},
		{"no_mount", chipsim.Parts{
			noMount.NewPart("in=true"),
		}, "part NoMount has no mount function"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			c, err := chipsim.NewCircuit(1, d.parts...)
			if c != nil {
				c.Dispose()
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), d.err)
		})
	}
}

func TestCircuit_chain(t *testing.T) {
	for _, workers := range []int{1, 2, 0} {
		in, out := true, false
		c, err := chipsim.NewCircuit(workers,
			chipsim.Input(func() bool { return in })("out=a"),
			not.NewPart("in=a, out=b"),
			not.NewPart("in=b, out=c"),
			chipsim.Output(func(b bool) { out = b })("in=c"),
		)
		require.NoError(t, err)
		assert.Equal(t, 4, c.Size())

		c.Init()
		require.NoError(t, c.Settle(0))
		assert.True(t, out)
		in = false
		require.NoError(t, c.Settle(0))
		assert.False(t, out)
		assert.NotZero(t, c.Steps())
		c.Dispose()
	}
}

func TestCircuit_unconnected(t *testing.T) {
	var out bool
	c, err := chipsim.NewCircuit(1,
		not.NewPart("out=o"),
		not.NewPart("in=true"),
		chipsim.Output(func(b bool) { out = b })("in=o"),
	)
	require.NoError(t, err)
	defer c.Dispose()
	require.NoError(t, c.Settle(0))
	assert.True(t, out)
}

func TestCircuit_unstable(t *testing.T) {
	c, err := chipsim.NewCircuit(1, not.NewPart("in=x, out=x"))
	require.NoError(t, err)
	defer c.Dispose()
	err = c.Settle(10)
	assert.ErrorIs(t, err, chipsim.ErrUnstable)
	assert.Equal(t, uint(10), c.Steps())
}

func TestCircuit_init(t *testing.T) {
	var low bool
	watch := &chipsim.PartSpec{
		Name:  "Watch",
		Ports: chipsim.In("we_n"),
		Mount: func(s *chipsim.Socket) []chipsim.Component {
			we := s.Pin("we_n")
			return []chipsim.Component{
				func(c *chipsim.Circuit) {
					if !c.Get(we) {
						low = true
					}
				},
			}
		},
	}
	c, err := chipsim.NewCircuit(1,
		chipsim.Input(func() bool { return true })("out=we"),
		watch.NewPart("we_n=we"),
	)
	require.NoError(t, err)
	defer c.Dispose()
	c.Init()
	require.NoError(t, c.Settle(0))
	assert.False(t, low)
}

func TestCircuit_buses(t *testing.T) {
	data := []struct {
		conns string
		in    uint64
		out   uint64
	}{
		{"in=bus[2..3], out=o", 0x8, 0x2},
		{"in=bus[3..2], out=o", 0x8, 0x1},
		{"in[0]=bus[1], in[1]=bus[0], out=o", 0x1, 0x2},
		{"in[0]=true, in[1]=false, out=o", 0xf, 0x1},
	}
	for _, d := range data {
		t.Run(d.conns, func(t *testing.T) {
			var out uint64
			c, err := chipsim.NewCircuit(1,
				chipsim.InputN(4, func() uint64 { return d.in })("out=bus"),
				pass2.NewPart(d.conns),
				chipsim.OutputN(2, func(v uint64) { out = v })("in=o"),
			)
			require.NoError(t, err)
			defer c.Dispose()
			c.Init()
			require.NoError(t, c.Settle(0))
			assert.Equal(t, d.out, out)
		})
	}
}

func TestSocket_Port(t *testing.T) {
	ports := append(chipsim.In("a[3], b"), chipsim.Out("y[3], z")...)
	buf := &chipsim.PartSpec{
		Name:  "Buf",
		Ports: ports,
		Mount: func(s *chipsim.Socket) []chipsim.Component {
			a, b, y, z := s.Port(ports[0]), s.Port(ports[1]), s.Port(ports[2]), s.Port(ports[3])
			return []chipsim.Component{
				func(c *chipsim.Circuit) {
					c.SetBus(y, c.GetBus(a))
					c.SetBus(z, c.GetBus(b))
				},
			}
		},
	}
	h, err := chipsim.NewHarness(1, buf)
	require.NoError(t, err)
	defer h.Dispose()
	require.NoError(t, h.Set("a", 5))
	require.NoError(t, h.Set("b", 1))
	require.NoError(t, h.Settle())
	assert.Equal(t, []uint64{5, 1, 5, 1}, h.Values())
}

func TestCircuit_netlist(t *testing.T) {
	c, err := chipsim.NewCircuit(1,
		chipsim.Input(func() bool { return false })("out=a"),
		not.NewPart("in=a, out=b"),
		chipsim.InputN(16, func() uint64 { return 0 })("out=d"),
		chipsim.Output(func(bool) {})("in=b"),
	)
	require.NoError(t, err)
	defer c.Dispose()

	nl := c.Netlist()
	var names []string
	for _, inst := range nl.Instances {
		names = append(names, inst.Name)
	}
	assert.Equal(t, []string{"Input0", "Not0", "Input16_0", "Output0"}, names)
	assert.Equal(t, "a", nl.Wires[0])
	assert.Equal(t, "b", nl.Wires[1])
	assert.Equal(t, "d[0]", nl.Wires[2])
	assert.Len(t, nl.Wires, 18)
	assert.Equal(t, chipsim.PinID{Instance: 1, Pin: "out"}, nl.Drivers["b"])
	assert.Equal(t, []chipsim.PinID{{Instance: 1, Pin: "in"}}, nl.Readers["a"])
	assert.Equal(t, "Not0.out", nl.Pin(nl.Drivers["b"]))
}

func TestBits(t *testing.T) {
	assert.Equal(t, uint64(0), chipsim.Mask(0))
	assert.Equal(t, uint64(0xff), chipsim.Mask(8))
	assert.Equal(t, ^uint64(0), chipsim.Mask(64))
	assert.Equal(t, ^uint64(0), chipsim.Mask(100))
}

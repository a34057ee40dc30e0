// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chipsim_test

import (
	"testing"

	"github.com/db47h/chipsim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inc4 outputs its 4 bits input plus one and the carry.
var inc4 = &chipsim.PartSpec{
	Name:  "Inc4",
	Ports: append(chipsim.In("a[4]"), chipsim.Out("s[4], carry")...),
	Mount: func(s *chipsim.Socket) []chipsim.Component {
		a, sum, carry := s.Bus("a", 4), s.Bus("s", 4), s.Pin("carry")
		return []chipsim.Component{
			func(c *chipsim.Circuit) {
				v := c.GetBus(a) + 1
				c.SetBus(sum, v)
				c.Set(carry, v > 0xf)
			},
		}
	},
}

func TestHarness(t *testing.T) {
	for _, workers := range []int{1, 2} {
		h, err := chipsim.NewHarness(workers, inc4)
		require.NoError(t, err)
		assert.Equal(t, inc4, h.Spec())

		for _, a := range []uint64{0, 7, 0xf, 0x1e} {
			require.NoError(t, h.Set("a", a))
			require.NoError(t, h.Settle())
			s, err := h.Get("s")
			require.NoError(t, err)
			carry, err := h.Get("carry")
			require.NoError(t, err)
			a &= 0xf
			assert.Equal(t, (a+1)&0xf, s, "a = %d", a)
			assert.Equal(t, (a+1)>>4, carry, "a = %d", a)
			assert.Equal(t, []uint64{a, (a + 1) & 0xf, (a + 1) >> 4}, h.Values())
		}
		assert.NotZero(t, h.Circuit().Steps())
		h.Dispose()
	}
}

func TestHarness_errors(t *testing.T) {
	_, err := chipsim.NewHarness(1, nil)
	assert.Error(t, err)

	h, err := chipsim.NewHarness(1, inc4)
	require.NoError(t, err)
	defer h.Dispose()
	assert.EqualError(t, h.Set("x", 1), "unknown port x for part Inc4")
	assert.EqualError(t, h.Set("s", 1), "port s of part Inc4 is not an input")
	_, err = h.Get("x")
	assert.Error(t, err)
}

func TestHarness_unstable(t *testing.T) {
	osc := &chipsim.PartSpec{
		Name:  "Osc",
		Ports: chipsim.Out("out"),
		Mount: func(s *chipsim.Socket) []chipsim.Component {
			out := s.Pin("out")
			return []chipsim.Component{
				func(c *chipsim.Circuit) { c.Set(out, !c.Get(out)) },
			}
		},
	}
	h, err := chipsim.NewHarness(1, osc)
	require.NoError(t, err)
	defer h.Dispose()
	h.SetSettleSteps(5)
	assert.ErrorIs(t, h.Settle(), chipsim.ErrUnstable)
	assert.Equal(t, uint(5), h.Circuit().Steps())
}

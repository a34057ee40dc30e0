// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trace

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVCDWriter(t *testing.T) {
	var b bytes.Buffer
	v := NewVCDWriter(&b)
	require.Error(t, v.Sample(0, nil))
	require.NoError(t, v.Declare("SRam", []Signal{{"we_n", 1}, {"addr", 4}}))
	require.Error(t, v.Declare("SRam", nil))

	samples := []struct {
		t  time.Duration
		vs []uint64
	}{
		{0, []uint64{1, 0}},
		{10 * time.Nanosecond, []uint64{1, 5}},
		{10 * time.Nanosecond, []uint64{1, 5}},
		{15 * time.Nanosecond, []uint64{1, 5}},
		{15 * time.Nanosecond, []uint64{0, 5}},
		{20 * time.Microsecond, []uint64{0, 5}},
	}
	for _, s := range samples {
		require.NoError(t, v.Sample(s.t, s.vs))
	}
	assert.Error(t, v.Sample(time.Nanosecond, []uint64{0, 0}))
	assert.Error(t, v.Sample(time.Hour, []uint64{0}))
	require.NoError(t, v.Close())

	assert.Equal(t, `$version chipsim $end
$timescale 1ns $end
$scope module SRam $end
$var wire 1 ! we_n $end
$var wire 4 " addr [3:0] $end
$upscope $end
$enddefinitions $end
#0
$dumpvars
1!
b0 "
$end
#10
b101 "
#15
0!
`, b.String())
}

func TestVCDID(t *testing.T) {
	td := map[int]string{0: "!", 1: `"`, 93: "~", 94: "!!", 95: `"!`}
	for n, id := range td {
		assert.Equal(t, id, vcdID(n), "vcdID(%d)", n)
	}
	seen := make(map[string]bool)
	for n := 0; n < 10000; n++ {
		id := vcdID(n)
		require.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}

func TestCreateVCD(t *testing.T) {
	fs := afero.NewMemMapFs()
	v, err := CreateVCD(fs, "out/SRam.vcd")
	require.NoError(t, err)
	require.NoError(t, v.Declare("top", []Signal{{"a", 1}}))
	require.NoError(t, v.Sample(0, []uint64{1}))
	require.NoError(t, v.Close())
	data, err := afero.ReadFile(fs, "out/SRam.vcd")
	require.NoError(t, err)
	assert.Contains(t, string(data), "$dumpvars\n1!\n$end\n")
}

func TestGTKWSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	g, err := CreateGTKW(fs, "out/SRam.gtkw", "out/SRam.vcd")
	require.NoError(t, err)
	require.NoError(t, g.Declare("SRam", []Signal{{"addr", 16}, {"we_n", 1}}))
	require.NoError(t, g.Sample(0, []uint64{1, 2}))
	require.NoError(t, g.Close())
	require.NoError(t, g.Close())
	data, err := afero.ReadFile(fs, "out/SRam.gtkw")
	require.NoError(t, err)
	assert.Equal(t, `[*] chipsim
[dumpfile] "out/SRam.vcd"
[timestart] 0
@22
SRam.addr[15:0]
@28
SRam.we_n
`, string(data))
}

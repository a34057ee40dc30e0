// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/db47h/chipsim/ic"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(fs, &out)
	// keep the test independent from any .env file in the working directory.
	root.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "none.env"), "-q"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSim(t *testing.T) {
	fs := afero.NewMemMapFs()
	out, err := run(t, fs, "sim", "sram", "-o", "traces")
	require.NoError(t, err)
	assert.Contains(t, out, "sram: SRAMWriteRead done")

	vcd, err := afero.ReadFile(fs, filepath.Join("traces", "SRam.vcd"))
	require.NoError(t, err)
	assert.Contains(t, string(vcd), "$timescale 1ns $end")
	gtkw, err := afero.ReadFile(fs, filepath.Join("traces", "SRam.gtkw"))
	require.NoError(t, err)
	assert.Contains(t, string(gtkw), `[dumpfile] "traces/SRam.vcd"`)
}

func TestSim_sqlite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "trace.sqlite3")
	_, err := run(t, afero.NewMemMapFs(), "sim", "latch", "--db", db)
	require.NoError(t, err)
	ok, err := afero.Exists(afero.NewOsFs(), db)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSim_errors(t *testing.T) {
	_, err := run(t, afero.NewMemMapFs(), "sim", "cpu")
	assert.Error(t, err)
	_, err = run(t, afero.NewMemMapFs(), "sim", "sram", "--max-addr-bits", "1")
	assert.ErrorIs(t, err, ic.ErrInvalidWidth)
	_, err = run(t, afero.NewMemMapFs(), "sim", "sram", "--max-addr-bits", "40")
	assert.Error(t, err)
}

func TestGen(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := run(t, fs, "gen", "latch")
	require.NoError(t, err)
	il, err := afero.ReadFile(fs, filepath.Join("out", "TransparentLatch.il"))
	require.NoError(t, err)
	assert.Contains(t, string(il), "attribute \\blackbox 1\nmodule \\TransparentLatch\n")
	assert.Contains(t, string(il), "attribute \\top 1\nmodule \\TransparentLatch_bench\n")
	assert.Contains(t, string(il), "  cell \\TransparentLatch \\TransparentLatch0\n")

	for _, dev := range []string{"sram", "eeprom"} {
		_, err = run(t, fs, "gen", dev)
		assert.ErrorIs(t, err, ic.ErrFormalNotSupported)
	}
}

func TestVerify(t *testing.T) {
	out, err := run(t, afero.NewMemMapFs(), "verify", "latch", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "TransparentLatch: 256 runs")
	assert.Contains(t, out, "seed 1\n")
	assert.Contains(t, out, `cover "capture sequence"`)

	_, err = run(t, afero.NewMemMapFs(), "verify", "eeprom")
	assert.ErrorIs(t, err, ic.ErrFormalNotSupported)
}

func TestList(t *testing.T) {
	out, err := run(t, afero.NewMemMapFs(), "list")
	require.NoError(t, err)
	assert.Equal(t,
		"eeprom   EEProm           -      16x16 bits EEPROM (28C64)\n"+
			"latch    TransparentLatch verify 16 bits transparent latch (74x373)\n"+
			"sram     SRam             -      16x16 bits static RAM (62xx)\n",
		out)
}

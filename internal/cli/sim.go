// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/db47h/chipsim/sim"
	"github.com/db47h/chipsim/trace"
	"github.com/spf13/cobra"
)

func (a *app) simCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim device",
		Short: "Run the default scenario of a device and write its traces.",
		Long: `Run the default scenario of a device. Port values are written to
<out>/<Base>.vcd along with a GTKWave save file <out>/<Base>.gtkw.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runSim,
	}
	cmd.Flags().String("db", "", "also record the trace in this SQLite database")
	return cmd
}

func (a *app) runSim(cmd *cobra.Command, args []string) (err error) {
	dev, err := sim.Devices.Lookup(args[0])
	if err != nil {
		return err
	}
	spec, err := dev.New(sim.DeviceOptions{MaxAddrBits: a.cfg.MaxAddrBits})
	if err != nil {
		return err
	}

	vcdName := a.outFile(dev.Base, ".vcd")
	vcd, err := trace.CreateVCD(a.fs, vcdName)
	if err != nil {
		return err
	}
	recs := []trace.Recorder{vcd}
	gtkw, err := trace.CreateGTKW(a.fs, a.outFile(dev.Base, ".gtkw"), vcdName)
	if err != nil {
		vcd.Close()
		return err
	}
	recs = append(recs, gtkw)
	if db := getString(cmd, "db"); db != "" {
		sq, err := trace.NewSQLiteRecorder(db)
		if err != nil {
			trace.Multi(recs...).Close()
			return err
		}
		recs = append(recs, sq)
	}
	rec := trace.Multi(recs...)
	defer func() {
		if e := rec.Close(); err == nil {
			err = e
		}
	}()

	res, err := sim.Run(cmd.Context(), spec, dev.Scenario(), sim.Options{
		Workers:  a.cfg.Workers,
		Recorder: rec,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s done at %v, %d steps, %d failed expectations\n",
		dev.Name, res.Scenario, res.Time, res.Steps, len(res.Failures))
	return res.Err()
}

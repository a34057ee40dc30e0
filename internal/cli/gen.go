// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"github.com/db47h/chipsim/ic"
	"github.com/db47h/chipsim/netlist"
	"github.com/db47h/chipsim/sim"
	"github.com/db47h/chipsim/trace"
	"github.com/db47h/chipsim/verify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func (a *app) genCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen device",
		Short: "Write the RTLIL netlist of a device verification bench.",
		Long: `Elaborate the verification bench of a device and write its netlist
to <out>/<Base>.il. Devices without a verification bench fail.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runGen,
	}
}

func (a *app) runGen(cmd *cobra.Command, args []string) (err error) {
	dev, err := sim.Devices.Lookup(args[0])
	if err != nil {
		return err
	}
	bench, err := ic.Formal(dev.Name)
	if err != nil {
		return err
	}
	nl, err := verify.Elaborate(bench)
	if err != nil {
		return err
	}
	name := a.outFile(dev.Base, ".il")
	f, err := trace.Create(a.fs, name)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); err == nil {
			err = e
		}
	}()
	if err = netlist.WriteRTLIL(f, nl); err != nil {
		return err
	}
	log.WithField("file", name).Info("netlist written")
	return nil
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"fmt"
	"sort"

	"github.com/db47h/chipsim/ic"
	"github.com/db47h/chipsim/sim"
	"github.com/db47h/chipsim/verify"
	"github.com/spf13/cobra"
)

func (a *app) verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify device",
		Short: "Run a bounded property check of a device.",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runVerify,
	}
	cmd.Flags().Int("depth", 0, "steps per run (default $CHIPSIM_VERIFY_DEPTH or 32)")
	cmd.Flags().Int("runs", 0, "number of runs (default $CHIPSIM_VERIFY_RUNS or 256)")
	cmd.Flags().Int64("seed", 0, "random seed (default $CHIPSIM_SEED or time based)")
	return cmd
}

func (a *app) runVerify(cmd *cobra.Command, args []string) error {
	dev, err := sim.Devices.Lookup(args[0])
	if err != nil {
		return err
	}
	bench, err := ic.Formal(dev.Name)
	if err != nil {
		return err
	}
	opts := verify.Options{
		Depth:   a.cfg.VerifyDepth,
		Runs:    a.cfg.VerifyRuns,
		Seed:    a.cfg.Seed,
		Workers: a.cfg.Workers,
	}
	if cmd.Flags().Changed("depth") {
		opts.Depth = getInt(cmd, "depth")
	}
	if cmd.Flags().Changed("runs") {
		opts.Runs = getInt(cmd, "runs")
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = getInt64(cmd, "seed")
	}

	r, err := verify.Check(cmd.Context(), bench, opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d runs, %d steps, seed %d\n", r.Bench, r.Runs, r.Steps, r.Seed)
	names := make([]string, 0, len(r.Covers))
	for n := range r.Covers {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(out, "cover %q: %d hits\n", n, r.Covers[n])
	}
	for i := range r.Failures {
		f := &r.Failures[i]
		fmt.Fprintf(out, "%v\n%v\n", f, f.Trace)
	}
	return r.Err()
}

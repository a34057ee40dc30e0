// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package cli implements the chipsim command line.
//
package cli

import (
	"io"
	"os"

	"github.com/db47h/chipsim/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app holds the state shared by all commands.
type app struct {
	fs  afero.Fs
	cfg config.Config
}

// NewRootCmd returns the chipsim root command. Output files are created in
// fs.
//
func NewRootCmd(fs afero.Fs, out io.Writer) *cobra.Command {
	a := &app{fs: fs}
	root := &cobra.Command{
		Use:   "chipsim",
		Short: "Pin-level simulator for memory-mapped IC models.",
		Long: `chipsim simulates behavioral models of a static RAM, an EEPROM and a
transparent latch. It writes value change dumps of scripted scenarios,
emits RTLIL netlists and runs bounded property checks.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(out)
	root.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	root.PersistentFlags().BoolP("quiet", "q", false, "only log warnings and errors")
	root.PersistentFlags().String("env", config.DefaultEnvFile, "environment file to load")
	root.PersistentFlags().StringP("out", "o", "", "output directory (default $"+config.EnvOutDir+" or \"out\")")
	root.PersistentFlags().IntP("workers", "w", 0, "circuit worker goroutines (default $"+config.EnvWorkers+" or 1)")
	root.PersistentFlags().Int("max-addr-bits", 0, "memory address width ceiling (default $"+config.EnvMaxAddrBits+" or 32)")

	root.AddCommand(
		a.simCmd(),
		a.genCmd(),
		a.verifyCmd(),
		a.listCmd(),
	)
	return root
}

// setup loads the configuration, applies command line overrides and sets the
// log level.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	switch {
	case getFlag(cmd, "verbose"):
		log.SetLevel(log.DebugLevel)
	case getFlag(cmd, "quiet"):
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
	cfg, err := config.Load(getString(cmd, "env"))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("out") {
		cfg.OutDir = getString(cmd, "out")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = getInt(cmd, "workers")
	}
	if cmd.Flags().Changed("max-addr-bits") {
		cfg.MaxAddrBits = getInt(cmd, "max-addr-bits")
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	log.WithFields(log.Fields{
		"out":     cfg.OutDir,
		"workers": cfg.Workers,
	}).Debug("configuration loaded")
	return nil
}

// Execute runs the chipsim command line with the process arguments and
// returns the exit code.
//
func Execute() int {
	root := NewRootCmd(afero.NewOsFs(), os.Stdout)
	if err := root.Execute(); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/db47h/chipsim/ic"
	"github.com/db47h/chipsim/sim"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available devices.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, d := range sim.Devices.Devices() {
				formal := "verify"
				if _, err := ic.Formal(d.Name); err != nil {
					formal = "-"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-16s %-6s %s\n", d.Name, d.Base, formal, d.Description)
			}
		},
	}
}

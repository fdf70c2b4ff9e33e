// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvprune/errbudget"
)

func newVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List pruning criteria and the parameters each one requires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, v := range errbudget.Variants() {
				fmt.Fprintf(out, "%-12s %s\n", v, strings.Join(v.RequiredParams(), ", "))
			}
			return nil
		},
	}
}

// SPDX-License-Identifier: MIT

// Package main implements dtkde, a CLI that runs error-budget pruned
// dual-tree kernel density sums on generated data and reports accuracy.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

// envPrefix is the prefix of environment overrides (DTKDE_CRITERION_EPSILON).
const envPrefix = "DTKDE_"

// rootFlags holds persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	verbose    bool
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var rf rootFlags
	root := &cobra.Command{
		Use:   "dtkde",
		Short: "Dual-tree kernel density sums with error-budget pruning",
		Long: `dtkde builds kd-trees over generated query and reference points, runs a
dual-tree Gaussian kernel sum pruned by an error-budget criterion, and compares
the estimates with the exact sums.

Parameters come from (highest precedence first): command-line flags,
DTKDE_* environment variables, the YAML file given by --config, defaults.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&rf.configPath, "config", "", "YAML parameter file")
	root.PersistentFlags().BoolVarP(&rf.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&rf.logFormat, "log-format", "console", "log format: console or json")

	root.AddCommand(newRunCmd(&rf))
	root.AddCommand(newVariantsCmd())

	return root
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "criterion",
	Short: "Criterion - scenario acceptance criteria evaluator",
	Long: `Criterion evaluates the acceptance and failure criteria of driving
scenarios. A scenario document declares entities, traffic intersections,
and two criteria trees; criterion re-evaluates both trees on every
simulation tick until one of them becomes true.

  - Success tree true  -> verdict: succeeded
  - Failure tree true  -> verdict: failed (failure wins ties)
  - Neither            -> keep ticking`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

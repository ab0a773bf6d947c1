// strokesim is the CLI for the stroke pathway simulation: run replications,
// sweep scenarios, and report stored results.
//
// Usage:
//
//	strokesim run [--scenario=<name>] [--param-file=<path>] [--runs=N] [--cores=N]
//	strokesim scenarios [--sweep]
//	strokesim report [--run-id=<id>]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"strokesim/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "strokesim",
	Short: "Discrete-event simulation of an acute stroke pathway",
	Long: "Strokesim models patient flow through an acute stroke unit and a\n" +
		"rehabilitation unit, and derives the bed counts needed to keep\n" +
		"admission delays below a target probability.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

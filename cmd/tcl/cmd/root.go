// Package cmd holds the tcl CLI's cobra command tree: a root command
// plus shell/test/bench subcommands that each build their own Interp
// and hand it a script (§6 "External interfaces").
package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "tcl",
	Short: "A small, embeddable Tcl-dialect interpreter",
	Long: `tcl is the command-line harness for an embeddable Tcl-dialect
interpreter core.

The core itself ships no standard library: no set, if, for, string,
expr, or dict commands. This CLI registers only the handful of host
commands (puts, set, exit) needed to make a shell session or a script
file useful, exactly the way any other embedding application would
register its own. It exists to pin the core's coupling with a real
embedding, not to be a complete Tcl distribution.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "raise the interpreter's log level to trace and print errorInfo on failure")
}

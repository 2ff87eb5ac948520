// Package cli implements the vtterm command tree, a small demonstration
// harness that attaches a vtcore.Terminal to a real PTY.
package cli

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vtterm",
	Short: "vtterm drives a headless terminal emulator against a real PTY",
	Long: `vtterm is a demonstration CLI for vtcore, a headless VT terminal
emulator core. It starts a child process under a pseudo-terminal, feeds its
output through a vtcore.Terminal, and mirrors the session to your own
terminal so you can use it interactively.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log starter/resize/typeahead activity to stderr")
}

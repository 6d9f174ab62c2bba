// Command optisvg is the CLI front-end for the optisvg package: it reads
// SVG/XML files (or stdin), runs the optimisation pipeline, and writes
// the result to files, a directory, or stdout. Each subcommand is its own
// *cobra.Command, wired onto a package-level rootCmd in main().
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "optisvg",
	Short: "Optimise SVG/XML documents for size, without changing how they render.",
}

func main() {
	rootCmd.AddCommand(newOptimiseCmd())
	rootCmd.AddCommand(newServeCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCode* mirror spec.md §6's CLI exit codes.
const (
	exitOK           = 0
	exitOptimiseFail = 1
	exitBadArgs      = 2
)

// argError marks an error that should exit with exitBadArgs rather than
// exitOptimiseFail (invalid flags/config vs. a file that failed to
// optimise).
type argError struct{ err error }

func (e *argError) Error() string { return e.err.Error() }
func (e *argError) Unwrap() error { return e.err }

func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	var ae *argError
	if errors.As(err, &ae) {
		return exitBadArgs
	}
	return exitOptimiseFail
}

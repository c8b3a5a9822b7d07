package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tclforge/tcl/internal/exception"
)

var testCmd = &cobra.Command{
	Use:   "test [script...]",
	Short: "Evaluate each script and report pass/fail by exception code",
	Long: `Each script is evaluated in its own fresh interpreter. A script
that completes without raising an Error exception is reported PASS; any
Error is reported FAIL along with the error message (and errorInfo,
with --verbose). Exit status is 1 if any script failed (§6 "Exit code 0
on success, 1 on any test failure").

This is a thin harness pinning the core's exception protocol to a
process exit code, not the external test-bench suite described as
out-of-scope in the core's own specification.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(_ *cobra.Command, args []string) error {
	failures := 0
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		in := newInterp()
		if _, err := in.Eval(string(src)); err != nil {
			fmt.Printf("FAIL %s: %v\n", path, err)
			if exc, ok := err.(*exception.Exception); ok && verbose && exc.ErrorData != nil {
				fmt.Println(exc.ErrorData.ErrorInfo)
			}
			failures++
			continue
		}
		fmt.Printf("PASS %s\n", path)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d script(s) failed", failures, len(args))
	}
	return nil
}

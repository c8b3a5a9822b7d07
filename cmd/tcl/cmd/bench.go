package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tclforge/tcl/internal/exception"
)

var benchCount int

var benchCmd = &cobra.Command{
	Use:   "bench [script...]",
	Short: "Evaluate each script --count times and report timing",
	Long: `Each script is evaluated --count times against one shared
interpreter, after which the elapsed wall time and the Evaluator's
per-command profile map (§4.6 "profile map: name -> count, nanos") are
printed. Useful for spotting a command whose dispatch cost dominates a
script's running time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().IntVar(&benchCount, "count", 1, "number of times to evaluate each script")
}

func runBench(_ *cobra.Command, args []string) error {
	if benchCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}
	in := newInterp()
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		start := time.Now()
		for i := 0; i < benchCount; i++ {
			if _, err := in.Eval(string(src)); err != nil {
				if exc, ok := err.(*exception.Exception); ok && verbose && exc.ErrorData != nil {
					fmt.Fprintln(os.Stderr, exc.ErrorData.ErrorInfo)
				}
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		elapsed := time.Since(start)

		fmt.Printf("%s: %d run(s) in %s (%s/run)\n", path, benchCount, elapsed, elapsed/time.Duration(benchCount))
	}

	fmt.Println("\nprofile:")
	for name, p := range in.Profile() {
		fmt.Printf("  %-20s count=%-8d nanos=%d\n", name, p.Count, p.Nanos)
	}
	return nil
}

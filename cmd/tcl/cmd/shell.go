package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tclforge/tcl/internal/exception"
	"github.com/tclforge/tcl/internal/interp"
	"github.com/tclforge/tcl/internal/parser"
)

var shellCmd = &cobra.Command{
	Use:   "shell [script...]",
	Short: "Evaluate files, or start an interactive line-mode REPL",
	Long: `With arguments, each is read as a script file and evaluated in
order, sharing one interpreter. With no arguments, tcl reads commands
from standard input, echoing each non-empty top-level result,
exactly the behavior described for an interactive session (§12,
supplemented from the original shell).`,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(_ *cobra.Command, args []string) error {
	in := newInterp()
	if len(args) > 0 {
		for _, path := range args {
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			if _, err := in.Eval(string(src)); err != nil {
				if exc, ok := err.(*exception.Exception); ok && verbose && exc.ErrorData != nil {
					fmt.Fprintln(os.Stderr, exc.ErrorData.ErrorInfo)
				}
				fmt.Fprintf(os.Stderr, "%s: error: %v\n", path, err)
				return err
			}
		}
		return nil
	}
	return repl(in)
}

// repl reads from stdin line by line, accumulating lines until the
// Parser reports the buffered text as a complete command (§4.3
// "completeness check") before evaluating it — an interactive line that
// opens an unbalanced brace keeps prompting rather than erroring.
func repl(in *interp.Interp) error {
	scanner := bufio.NewScanner(os.Stdin)
	var buf strings.Builder
	prompt := "% "
	fmt.Fprint(os.Stderr, prompt)
	for scanner.Scan() {
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(scanner.Text())
		if !parser.Complete(buf.String()) {
			fmt.Fprint(os.Stderr, "> ")
			continue
		}
		src := buf.String()
		buf.Reset()
		v, err := in.Eval(src)
		if err != nil {
			if exc, ok := err.(*exception.Exception); ok && verbose {
				if exc.ErrorData != nil {
					fmt.Fprintln(os.Stderr, exc.ErrorData.ErrorInfo)
				}
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else if v != nil && v.String() != "" {
			fmt.Println(v.String())
		}
		fmt.Fprint(os.Stderr, prompt)
	}
	fmt.Fprintln(os.Stderr)
	return scanner.Err()
}

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/tclforge/tcl/internal/interp"
	"github.com/tclforge/tcl/internal/value"
)

// newInterp builds an Interp the way any embedding application would:
// the core registers nothing beyond proc/return/break/continue/upvar/
// global/rename (§4.7), so this is where the CLI wires up the small
// set of host commands a shell session needs to do anything visible.
func newInterp() *interp.Interp {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.TraceLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	in := interp.New(
		interp.WithEnviron(os.Environ()),
		interp.WithLogger(logger),
	)
	registerHostLibrary(in)
	return in
}

// registerHostLibrary installs the minimal host commands this CLI
// needs: puts for output, set for variable access, exit to leave an
// interactive shell early. A real embedding registers whatever subset
// of string/list/expr/control-flow commands its own scripts need; this
// one stays deliberately small.
func registerHostLibrary(in *interp.Interp) {
	in.RegisterHost("puts", func(in *interp.Interp, words []*value.Value) (*value.Value, error) {
		args := words[1:]
		newline := true
		if len(args) > 0 && args[0].String() == "-nonewline" {
			newline = false
			args = args[1:]
		}
		if len(args) != 1 {
			return nil, fmt.Errorf(`wrong # args: should be "puts ?-nonewline? string"`)
		}
		if newline {
			fmt.Println(args[0].String())
		} else {
			fmt.Print(args[0].String())
		}
		return value.Empty(), nil
	})

	in.RegisterHost("set", func(in *interp.Interp, words []*value.Value) (*value.Value, error) {
		if len(words) < 2 || len(words) > 3 {
			return nil, fmt.Errorf(`wrong # args: should be "set varName ?newValue?"`)
		}
		name := words[1].String()
		if len(words) == 2 {
			return in.Scopes().Get(in.Scopes().Level(), name)
		}
		v := words[2]
		if err := in.Scopes().Set(in.Scopes().Level(), name, v); err != nil {
			return nil, err
		}
		return v, nil
	})

	in.RegisterHost("exit", func(in *interp.Interp, words []*value.Value) (*value.Value, error) {
		code := 0
		if len(words) == 2 {
			n, err := words[1].AsInt()
			if err != nil {
				return nil, err
			}
			code = int(n)
		}
		os.Exit(code)
		return value.Empty(), nil
	})
}

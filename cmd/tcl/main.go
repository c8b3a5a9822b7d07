// Command tcl is a thin CLI around the interpreter core, existing only
// to pin the core's coupling with a real embedding (§6): it registers
// no standard library of its own beyond the handful of commands needed
// to make `shell`/`test`/`bench` useful (puts, set, expr-free arithmetic
// is explicitly out of scope and is left unregistered).
package main

import (
	"fmt"
	"os"

	"github.com/tclforge/tcl/cmd/tcl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

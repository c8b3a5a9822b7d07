package interp

import (
	"sort"
	"strings"

	"github.com/tclforge/tcl/internal/errlib"
	"github.com/tclforge/tcl/internal/value"
)

// DispatchEnsemble is a small helper for host commands that want
// `name subcommand ?arg ...?` dispatch (the pattern behind things like
// `string length` or `dict get`, which remain out of this core's scope
// but whose embedding application will want to register exactly this
// shape). table maps each subcommand name to the CommandFunc that
// handles it; the sub-handler receives words whose first element is
// "<ensembleName> <subcommand>" (the two leading words merged into one)
// followed by the remaining arguments, so it can be written exactly like
// any other top-level command.
func DispatchEnsemble(in *Interp, words []*value.Value, ensembleName string, table map[string]CommandFunc) (*value.Value, error) {
	if len(words) < 2 {
		return nil, errlib.Errorf(`wrong # args: should be "%s subcommand ?arg ...?"`, ensembleName)
	}
	sub := words[1].String()
	fn, ok := table[sub]
	if !ok {
		return nil, errlib.Errorf("unknown subcommand %q, usage:\n%s", sub, joinSubcommandNames(table))
	}
	rest := append([]*value.Value{value.NewString(ensembleName + " " + sub)}, words[2:]...)
	return fn(in, rest)
}

// joinSubcommandNames renders the ensemble's help lines, one sub-table
// entry per line, sorted for deterministic output.
func joinSubcommandNames(table map[string]CommandFunc) string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = "  " + name
	}
	return strings.Join(lines, "\n")
}

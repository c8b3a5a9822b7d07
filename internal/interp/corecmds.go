package interp

import (
	"strconv"
	"strings"

	"github.com/tclforge/tcl/internal/errlib"
	"github.com/tclforge/tcl/internal/exception"
	"github.com/tclforge/tcl/internal/value"
)

// registerCoreCommands wires the seven evaluator-intrinsic commands
// that are part of the core rather than a host-supplied standard
// library: proc/return/break/continue (the result-code protocol) and
// upvar/global/rename (scope and command-table manipulation). Every
// other command — set, list, if, for, string, dict, expr, and the rest
// — is left to the embedding application to register as a host command.
func (in *Interp) registerCoreCommands() {
	in.native["proc"] = coreProc
	in.native["return"] = coreReturn
	in.native["break"] = coreBreak
	in.native["continue"] = coreContinue
	in.native["upvar"] = coreUpvar
	in.native["global"] = coreGlobal
	in.native["rename"] = coreRename
}

// coreReturn implements `return ?-code code? ?-level level? ?value?`.
func coreReturn(in *Interp, words []*value.Value) (*value.Value, error) {
	level := 1
	nextCode := exception.Ok
	result := value.Empty()

	i := 1
	for i < len(words) {
		switch words[i].String() {
		case "-code":
			if i+1 >= len(words) {
				return nil, errlib.Errorf("missing value for -code")
			}
			code, err := parseCompletionCode(words[i+1].String())
			if err != nil {
				return nil, err
			}
			nextCode = code
			i += 2
		case "-level":
			if i+1 >= len(words) {
				return nil, errlib.Errorf("missing value for -level")
			}
			n, err := words[i+1].AsInt()
			if err != nil || n < 0 {
				return nil, errlib.Errorf(`bad -level value %q: must be a non-negative integer`, words[i+1].String())
			}
			level = int(n)
			i += 2
		default:
			if i != len(words)-1 {
				return nil, errlib.Errorf(`wrong # args: should be "return ?-code code? ?-level level? ?value?"`)
			}
			result = words[i]
			i++
		}
	}
	return nil, exception.NewReturn(result, level, nextCode)
}

func parseCompletionCode(s string) (exception.Code, error) {
	switch s {
	case "ok":
		return exception.Ok, nil
	case "error":
		return exception.Error, nil
	case "return":
		return exception.Return, nil
	case "break":
		return exception.Break, nil
	case "continue":
		return exception.Continue, nil
	default:
		return 0, errlib.Errorf(`bad completion code %q: must be ok, error, return, break, or continue`, s)
	}
}

func coreBreak(in *Interp, words []*value.Value) (*value.Value, error) {
	if len(words) != 1 {
		return nil, errlib.Errorf(`wrong # args: should be "break"`)
	}
	return nil, exception.NewBreak()
}

func coreContinue(in *Interp, words []*value.Value) (*value.Value, error) {
	if len(words) != 1 {
		return nil, errlib.Errorf(`wrong # args: should be "continue"`)
	}
	return nil, exception.NewContinue()
}

// coreUpvar implements `upvar ?level? otherVar localVar ?otherVar localVar ...?`.
func coreUpvar(in *Interp, words []*value.Value) (*value.Value, error) {
	args := words[1:]
	curLevel := in.scopes.Level()
	otherLevel := curLevel - 1

	if len(args)%2 == 1 {
		lvl, err := parseLevelSpec(args[0].String(), curLevel)
		if err != nil {
			return nil, err
		}
		otherLevel = lvl
		args = args[1:]
	}
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, errlib.Errorf(`wrong # args: should be "upvar ?level? otherVar localVar ?otherVar localVar ...?"`)
	}
	for i := 0; i < len(args); i += 2 {
		otherName := args[i].String()
		localName := args[i+1].String()
		if err := in.scopes.UpVar(curLevel, localName, otherLevel, otherName); err != nil {
			return nil, err
		}
	}
	return value.Empty(), nil
}

func parseLevelSpec(s string, curLevel int) (int, error) {
	if strings.HasPrefix(s, "#") {
		n, err := strconv.Atoi(s[1:])
		if err != nil {
			return 0, errlib.Errorf(`bad level %q`, s)
		}
		return n, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errlib.Errorf(`bad level %q`, s)
	}
	return curLevel - n, nil
}

// coreGlobal implements `global name ?name ...?`: each name is linked
// to the same name in the global scope. A no-op at the global scope
// itself.
func coreGlobal(in *Interp, words []*value.Value) (*value.Value, error) {
	cur := in.scopes.Level()
	if cur == 0 {
		return value.Empty(), nil
	}
	for _, w := range words[1:] {
		name := w.String()
		if err := in.scopes.UpVar(cur, name, 0, name); err != nil {
			return nil, err
		}
	}
	return value.Empty(), nil
}

// coreRename implements `rename oldName newName`; newName == "" deletes
// the command instead of renaming it.
func coreRename(in *Interp, words []*value.Value) (*value.Value, error) {
	if len(words) != 3 {
		return nil, errlib.Errorf(`wrong # args: should be "rename oldName newName"`)
	}
	oldName := words[1].String()
	newName := words[2].String()

	if p, ok := in.procs[oldName]; ok {
		delete(in.procs, oldName)
		if newName != "" {
			in.procs[newName] = p
		}
		return value.Empty(), nil
	}
	if fn, ok := in.native[oldName]; ok {
		delete(in.native, oldName)
		if newName != "" {
			in.native[newName] = fn
		}
		return value.Empty(), nil
	}
	if fn, ok := in.host[oldName]; ok {
		delete(in.host, oldName)
		if newName != "" {
			in.host[newName] = fn
		}
		return value.Empty(), nil
	}
	return nil, errlib.Errorf(`can't rename %q: command doesn't exist`, oldName)
}

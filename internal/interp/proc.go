package interp

import (
	"strings"

	"github.com/tclforge/tcl/internal/errlib"
	"github.com/tclforge/tcl/internal/exception"
	"github.com/tclforge/tcl/internal/script"
	"github.com/tclforge/tcl/internal/value"
)

// paramSpec is one formal parameter of a procedure: a bare name, or a
// {name default} pair giving it a default value used when the caller
// doesn't supply an actual argument for it.
type paramSpec struct {
	name       string
	hasDefault bool
	def        *value.Value
}

// procedure is a user-defined command created by `proc` (§4.5
// "Procedure invocation").
type procedure struct {
	name    string
	params  []paramSpec
	hasArgs bool // trailing literal "args" soaks up the remaining actuals
	body    *script.Script
}

// coreProc implements `proc name args body`.
func coreProc(in *Interp, words []*value.Value) (*value.Value, error) {
	if len(words) != 4 {
		return nil, errlib.Errorf(`wrong # args: should be "proc name args body"`)
	}
	name := words[1].String()
	params, hasArgs, err := parseFormalParams(words[2])
	if err != nil {
		return nil, err
	}
	bodyScripter, err := words[3].AsScript()
	if err != nil {
		return nil, err
	}
	body, ok := bodyScripter.(*script.Script)
	if !ok {
		return nil, errlib.Errorf("internal error: proc body did not shimmer to a *script.Script")
	}
	in.procs[name] = &procedure{name: name, params: params, hasArgs: hasArgs, body: body}
	return value.Empty(), nil
}

// parseFormalParams parses a proc's argument-list Value into its
// parameter specs. A trailing literal "args" (not itself given a
// default) switches on variadic collection instead of becoming an
// ordinary required parameter.
func parseFormalParams(v *value.Value) ([]paramSpec, bool, error) {
	elems, err := v.AsList()
	if err != nil {
		return nil, false, err
	}
	var params []paramSpec
	for i, e := range elems {
		if sub, err := e.AsList(); err == nil && len(sub) == 2 {
			params = append(params, paramSpec{name: sub[0].String(), hasDefault: true, def: sub[1]})
			continue
		}
		name := e.String()
		if name == "args" && i == len(elems)-1 {
			return params, true, nil
		}
		params = append(params, paramSpec{name: name})
	}
	return params, false, nil
}

// usage builds the `wrong # args: should be "procname ?arg ...?"` message
// (§4.6, §7): required parameters appear bare, defaulted parameters as
// `?name?`, and a trailing variadic "args" as `?arg ...?`.
func (p *procedure) usage() string {
	var b strings.Builder
	b.WriteString(p.name)
	for _, prm := range p.params {
		b.WriteByte(' ')
		if prm.hasDefault {
			b.WriteByte('?')
			b.WriteString(prm.name)
			b.WriteByte('?')
		} else {
			b.WriteString(prm.name)
		}
	}
	if p.hasArgs {
		b.WriteString(" ?arg ...?")
	}
	return b.String()
}

// callProc pushes a fresh scope, binds formals to the actual arguments,
// evaluates the body, and applies the return-level boundary exactly as
// the top-level Eval does — a procedure call is its own protocol
// boundary, so a bare `break` or `continue` escaping an unguarded proc
// body becomes an error right here rather than leaking into whatever
// loop happens to enclose the call site (§4.4, §4.5).
func (in *Interp) callProc(p *procedure, words []*value.Value) (*value.Value, *exception.Exception) {
	level := in.scopes.Push()
	ai := 1 // words[0] is the command name
	for _, prm := range p.params {
		if ai < len(words) {
			if err := in.scopes.Set(level, prm.name, words[ai]); err != nil {
				in.scopes.Pop()
				return nil, errlib.ToException(err)
			}
			ai++
			continue
		}
		if prm.hasDefault {
			if err := in.scopes.Set(level, prm.name, prm.def); err != nil {
				in.scopes.Pop()
				return nil, errlib.ToException(err)
			}
			continue
		}
		in.scopes.Pop()
		return nil, errlib.Errorf(`wrong # args: should be "%s"`, p.usage())
	}
	if p.hasArgs {
		rest := append([]*value.Value(nil), words[ai:]...)
		_ = in.scopes.Set(level, "args", value.NewList(rest))
	} else if ai < len(words) {
		in.scopes.Pop()
		return nil, errlib.Errorf(`wrong # args: should be "%s"`, p.usage())
	}

	val, exc := in.evalCounted(p.body)
	val, exc = in.finalizeBoundary(val, exc)
	in.scopes.Pop()
	if exc != nil {
		if exc.Code == exception.Error {
			in.saveGlobalErrorData(exc)
		}
		return nil, exc
	}
	return val, nil
}

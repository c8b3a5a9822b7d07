// Package interp implements the evaluator: the component that walks a
// parsed Script, resolves each word to a Value, dispatches commands
// through the procedure/native/host lookup chain, and carries the
// result-code and return-level protocols across nested evaluations
// (§4 "Evaluator").
package interp

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tclforge/tcl/internal/errlib"
	"github.com/tclforge/tcl/internal/exception"
	"github.com/tclforge/tcl/internal/scope"
	"github.com/tclforge/tcl/internal/script"
	"github.com/tclforge/tcl/internal/value"
)

// CommandFunc is the signature every native and host command implements.
// Returning a plain error is fine for an ordinary failure — it is
// wrapped into an Error exception automatically (see internal/errlib);
// returning an *exception.Exception directly lets a command raise
// break/continue/return/other result codes.
type CommandFunc func(in *Interp, words []*value.Value) (*value.Value, error)

type profileEntry struct {
	Count int
	Nanos int64
}

// Interp is one interpreter instance: its own scope stack, command
// tables, and recursion/profiling state. It is not safe for concurrent
// use by multiple goroutines.
type Interp struct {
	scopes *scope.Stack

	procs  map[string]*procedure
	native map[string]CommandFunc
	host   map[string]CommandFunc

	numLevels       int
	recursionLimit  int
	continueOnError bool

	logger  zerolog.Logger
	traceID uuid.UUID
	profile map[string]*profileEntry

	pendingEnviron []string
}

// Option configures an Interp at construction time.
type Option func(*Interp)

// WithRecursionLimit overrides the default recursion limit of 1000.
func WithRecursionLimit(n int) Option {
	return func(in *Interp) { in.recursionLimit = n }
}

// WithContinueOnError makes script evaluation proceed to the next
// command after an Error, reporting the last error only if the script's
// final command also errors — used by REPL/batch drivers that want to
// see every failing line rather than stop at the first one.
func WithContinueOnError(b bool) Option {
	return func(in *Interp) { in.continueOnError = b }
}

// WithLogger installs a zerolog.Logger for command-dispatch tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(in *Interp) { in.logger = l }
}

// WithEnviron seeds the global "env" array from a []string of
// "KEY=VALUE" entries, the shape os.Environ() returns.
func WithEnviron(environ []string) Option {
	return func(in *Interp) { in.pendingEnviron = environ }
}

// New builds an Interp with the given options and registers the core
// commands (proc, return, break, continue, upvar, global, rename).
func New(opts ...Option) *Interp {
	in := &Interp{
		scopes:         scope.NewStack(),
		procs:          make(map[string]*procedure),
		native:         make(map[string]CommandFunc),
		host:           make(map[string]CommandFunc),
		recursionLimit: 1000,
		logger:         zerolog.Nop(),
		traceID:        uuid.New(),
		profile:        make(map[string]*profileEntry),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.pendingEnviron != nil {
		scope.InitEnvArray(in.scopes, in.pendingEnviron)
		in.pendingEnviron = nil
	}
	in.registerCoreCommands()
	return in
}

// RegisterHost installs a command under the host table — the lookup
// tier reserved for commands the embedding application supplies (the
// standard library of string/list/expr/control-structure commands is
// intentionally out of scope here and is expected to arrive this way).
func (in *Interp) RegisterHost(name string, fn CommandFunc) {
	in.host[name] = fn
}

// Scopes exposes the variable stack so host commands can implement
// `set`, `unset`, array operations, and the like.
func (in *Interp) Scopes() *scope.Stack { return in.scopes }

// TraceID identifies this interpreter instance in logs.
func (in *Interp) TraceID() uuid.UUID { return in.traceID }

// Profile returns a snapshot of per-command call counts and cumulative
// time, keyed by command name.
func (in *Interp) Profile() map[string]struct {
	Count int
	Nanos int64
} {
	out := make(map[string]struct {
		Count int
		Nanos int64
	}, len(in.profile))
	for name, e := range in.profile {
		out[name] = struct {
			Count int
			Nanos int64
		}{e.Count, e.Nanos}
	}
	return out
}

// Eval parses and evaluates src as a script.
func (in *Interp) Eval(src string) (*value.Value, error) {
	return in.EvalValue(value.NewString(src))
}

// EvalValue evaluates v's string representation as a script, the public
// entry point that applies the full return-level/break/continue
// boundary translation (§4.4): Break, Continue and Other never escape
// this call. What does escape is a clean value, an Error, or a Return
// whose -level has not run out after one decrement (e.g. a top-level
// `return -level 2`).
func (in *Interp) EvalValue(v *value.Value) (*value.Value, error) {
	scripter, err := v.AsScript()
	if err != nil {
		return nil, err
	}
	sc, ok := scripter.(*script.Script)
	if !ok {
		return nil, errlib.Errorf("internal error: value did not shimmer to a *script.Script")
	}
	val, exc := in.evalCounted(sc)
	val, exc = in.finalizeBoundary(val, exc)
	if exc != nil {
		if exc.Code == exception.Error {
			in.saveGlobalErrorData(exc)
		}
		return nil, exc
	}
	return val, nil
}

// EvalBody evaluates sc with recursion-depth tracking but without
// applying the break/continue/return boundary translation, so a host
// command implementing a loop or other control structure can inspect
// the raw *exception.Exception and decide for itself which codes to
// absorb (e.g. a `for` command catching Break) and which to let
// propagate (Error, Return, Other).
func (in *Interp) EvalBody(sc *script.Script) (*value.Value, *exception.Exception) {
	return in.evalCounted(sc)
}

func (in *Interp) evalCounted(sc *script.Script) (*value.Value, *exception.Exception) {
	in.numLevels++
	if in.numLevels > in.recursionLimit {
		in.numLevels--
		return nil, errlib.Errorf("too many nested calls to Interp::eval (infinite loop?)")
	}
	val, exc := in.evalScript(sc)
	in.numLevels--
	if exc != nil && exc.Code == exception.Error {
		in.saveGlobalErrorData(exc)
	}
	return val, exc
}

// finalizeBoundary applies the return-level decrement and, once it
// resolves, translates any result code that cannot legally escape a
// script boundary (Break, Continue, Other) into a plain Error; a
// resolved Return (nextCode Ok) becomes a normal value.
func (in *Interp) finalizeBoundary(val *value.Value, exc *exception.Exception) (*value.Value, *exception.Exception) {
	if exc == nil {
		return val, nil
	}
	if exc.Code == exception.Return {
		exc = exception.StepReturnLevel(exc)
	}
	switch exc.Code {
	case exception.Ok:
		return exc.Value, nil
	case exception.Error, exception.Return:
		return nil, exc
	case exception.Break:
		return nil, errlib.Errorf(`invoked "break" outside of a loop`)
	case exception.Continue:
		return nil, errlib.Errorf(`invoked "continue" outside of a loop`)
	default:
		return nil, errlib.Errorf("unexpected result code")
	}
}

func (in *Interp) saveGlobalErrorData(exc *exception.Exception) {
	if exc.ErrorData == nil {
		return
	}
	_ = in.scopes.Set(0, "errorInfo", value.NewString(exc.ErrorData.ErrorInfo))
	_ = in.scopes.Set(0, "errorCode", exc.ErrorData.ErrorCode)
}

// evalScript walks a Script's commands in order. With continueOnError
// unset, the first command that raises Error, Return, Break, Continue,
// or Other stops the walk immediately; with it set, an Error is
// remembered and evaluation proceeds; a later command that succeeds
// clears it, so the script fails only if its last command errored, and
// then with that command's error (§4.4).
func (in *Interp) evalScript(sc *script.Script) (*value.Value, *exception.Exception) {
	result := value.Empty()
	var pending *exception.Exception

	for _, cmd := range sc.Cmds {
		words, exc := in.evalWordVec(cmd.Words)
		if exc != nil {
			return nil, exc
		}
		if len(words) == 0 {
			continue
		}
		name := words[0].String()
		start := time.Now()
		v, exc := in.dispatch(name, words)
		elapsed := time.Since(start)
		in.recordProfile(name, elapsed)
		in.logger.Trace().
			Str("trace_id", in.traceID.String()).
			Str("command", name).
			Dur("elapsed", elapsed).
			Bool("error", exc != nil).
			Msg("command dispatched")

		if exc != nil {
			if exc.Code == exception.Error {
				if exception.IsNewError(exc) {
					exc.AddErrorInfo("    while executing")
					exc.AddErrorInfo("\"" + listToString(words) + "\"")
				}
				if in.continueOnError {
					pending = exc
					continue
				}
			}
			return nil, exc
		}
		result = v
		pending = nil
	}
	if pending != nil {
		return nil, pending
	}
	return result, nil
}

// evalWordVec resolves a command's words to Values, splicing an
// ExpandWord's list elements into the argument vector in place.
func (in *Interp) evalWordVec(words []script.Word) ([]*value.Value, *exception.Exception) {
	var out []*value.Value
	for _, w := range words {
		if ew, ok := w.(script.ExpandWord); ok {
			v, exc := in.evalWord(ew.Inner)
			if exc != nil {
				return nil, exc
			}
			elems, err := v.AsList()
			if err != nil {
				return nil, errlib.ToException(err)
			}
			out = append(out, elems...)
			continue
		}
		v, exc := in.evalWord(w)
		if exc != nil {
			return nil, exc
		}
		out = append(out, v)
	}
	return out, nil
}

// evalWord resolves a single word to a Value (§4.3 "Word lexing").
func (in *Interp) evalWord(w script.Word) (*value.Value, *exception.Exception) {
	switch w := w.(type) {
	case script.ValueWord:
		return w.Value, nil
	case script.StringWord:
		return value.NewString(w.Text), nil
	case script.VarRefWord:
		v, err := in.scopes.Get(in.scopes.Level(), w.Name)
		if err != nil {
			return nil, errlib.ToException(err)
		}
		return v, nil
	case script.ArrayRefWord:
		idx, exc := in.evalWord(w.Index)
		if exc != nil {
			return nil, exc
		}
		v, err := in.scopes.ElemGet(in.scopes.Level(), w.Name, idx.String())
		if err != nil {
			return nil, errlib.ToException(err)
		}
		return v, nil
	case script.ScriptWord:
		return in.evalCounted(w.Script)
	case script.TokensWord:
		var sb strings.Builder
		for _, t := range w.Tokens {
			v, exc := in.evalWord(t)
			if exc != nil {
				return nil, exc
			}
			sb.WriteString(v.String())
		}
		return value.NewString(sb.String()), nil
	case script.ExpandWord:
		return nil, errlib.Errorf("expansion of expansion is a programming error")
	default:
		return nil, errlib.Errorf("internal error: unknown word type %T", w)
	}
}

// dispatch resolves name to a command in procedure → native → host
// order and invokes it (§4.5 "Command dispatch").
func (in *Interp) dispatch(name string, words []*value.Value) (*value.Value, *exception.Exception) {
	if p, ok := in.procs[name]; ok {
		return in.callProc(p, words)
	}
	if fn, ok := in.native[name]; ok {
		v, err := fn(in, words)
		return v, errlib.ToException(err)
	}
	if fn, ok := in.host[name]; ok {
		v, err := fn(in, words)
		return v, errlib.ToException(err)
	}
	return nil, errlib.Errorf(`unknown command "%s"`, name)
}

func (in *Interp) recordProfile(name string, d time.Duration) {
	e, ok := in.profile[name]
	if !ok {
		e = &profileEntry{}
		in.profile[name] = e
	}
	e.Count++
	e.Nanos += d.Nanoseconds()
}

func listToString(elems []*value.Value) string {
	return value.NewList(elems).String()
}

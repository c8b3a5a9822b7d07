package interp

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tclforge/tcl/internal/exception"
	"github.com/tclforge/tcl/internal/value"
)

// registerTestHostCommands installs the minimal set of commands that
// scenarios in this file need but that belong to the out-of-scope
// standard library in a real embedding (set, incr) — exactly the way a
// host application would register them.
func registerTestHostCommands(in *Interp) {
	in.RegisterHost("set", func(in *Interp, words []*value.Value) (*value.Value, error) {
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
	in.RegisterHost("incr", func(in *Interp, words []*value.Value) (*value.Value, error) {
		name := words[1].String()
		cur, err := in.Scopes().Get(in.Scopes().Level(), name)
		if err != nil {
			return nil, err
		}
		n, err := cur.AsInt()
		if err != nil {
			return nil, err
		}
		nv := value.NewInt(n + 1)
		if err := in.Scopes().Set(in.Scopes().Level(), name, nv); err != nil {
			return nil, err
		}
		return nv, nil
	})
}

func TestEvalLastCommandResult(t *testing.T) {
	in := New()
	registerTestHostCommands(in)
	v, err := in.Eval("set x 1\nset x 2")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.String() != "2" {
		t.Errorf("result = %q, want 2", v.String())
	}
}

func TestProcBasicCallAndReturn(t *testing.T) {
	in := New()
	registerTestHostCommands(in)
	if _, err := in.Eval(`proc addone {x} {
		set y [incr x]
		return $y
	}`); err != nil {
		t.Fatalf("proc definition failed: %v", err)
	}
	v, err := in.Eval(`addone 5`)
	if err != nil {
		t.Fatalf("calling addone: %v", err)
	}
	if v.String() != "6" {
		t.Errorf("addone 5 = %q, want 6", v.String())
	}
}

func TestProcDefaultArgsAndVariadic(t *testing.T) {
	in := New()
	registerTestHostCommands(in)
	if _, err := in.Eval(`proc greet {name {greeting hello} args} {
		return $greeting
	}`); err != nil {
		t.Fatalf("proc definition failed: %v", err)
	}
	v, err := in.Eval(`greet world`)
	if err != nil {
		t.Fatalf("greet world: %v", err)
	}
	if v.String() != "hello" {
		t.Errorf("default greeting = %q, want hello", v.String())
	}
	v2, err := in.Eval(`greet world hi extra1 extra2`)
	if err != nil {
		t.Fatalf("greet world hi: %v", err)
	}
	if v2.String() != "hi" {
		t.Errorf("explicit greeting = %q, want hi", v2.String())
	}
}

func TestProcMissingRequiredArgFails(t *testing.T) {
	in := New()
	if _, err := in.Eval(`proc needs {x y} { return $x }`); err != nil {
		t.Fatalf("proc definition failed: %v", err)
	}
	_, err := in.Eval(`needs 1`)
	if err == nil {
		t.Fatal("expected error for missing required argument")
	}
	want := `wrong # args: should be "needs x y"`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestProcTooManyArgsFails(t *testing.T) {
	in := New()
	if _, err := in.Eval(`proc needs {x y} { return $x }`); err != nil {
		t.Fatalf("proc definition failed: %v", err)
	}
	_, err := in.Eval(`needs 1 2 3`)
	if err == nil {
		t.Fatal("expected error for too many arguments")
	}
	want := `wrong # args: should be "needs x y"`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestProcUsageWithDefaultAndArgs(t *testing.T) {
	in := New()
	if _, err := in.Eval(`proc greet {x {y hi} args} { return $x }`); err != nil {
		t.Fatalf("proc definition failed: %v", err)
	}
	_, err := in.Eval(`greet`)
	if err == nil {
		t.Fatal("expected error for missing required argument")
	}
	want := `wrong # args: should be "greet x ?y? ?arg ...?"`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestReturnLevelProtocol(t *testing.T) {
	in := New()
	if _, err := in.Eval(`proc inner {} { return -level 2 done }`); err != nil {
		t.Fatalf("proc inner: %v", err)
	}
	if _, err := in.Eval(`proc outer {} { inner; return notreached }`); err != nil {
		t.Fatalf("proc outer: %v", err)
	}
	v, err := in.Eval(`outer`)
	if err != nil {
		t.Fatalf("outer: %v", err)
	}
	if v.String() != "done" {
		t.Errorf("outer result = %q, want done (return -level 2 should pass through outer)", v.String())
	}
}

func TestReturnCodeErrorSetsGlobalErrorCodeToNone(t *testing.T) {
	in := New()
	_, err := in.Eval(`return -code error "boom"`)
	if err == nil {
		t.Fatal("expected an error from return -code error")
	}
	if err.Error() != "boom" {
		t.Errorf("error = %q, want boom", err.Error())
	}
	ec, getErr := in.Scopes().Get(0, "errorCode")
	if getErr != nil {
		t.Fatalf("reading global errorCode: %v", getErr)
	}
	if ec.String() != "NONE" {
		t.Errorf("errorCode = %q, want NONE", ec.String())
	}
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	in := New()
	_, err := in.Eval(`break`)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `invoked "break" outside of a loop`) {
		t.Errorf("error = %q, want message about break outside a loop", err.Error())
	}
}

func TestContinueOutsideLoopIsError(t *testing.T) {
	in := New()
	_, err := in.Eval(`continue`)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `invoked "continue" outside of a loop`) {
		t.Errorf("error = %q, want message about continue outside a loop", err.Error())
	}
}

func TestBreakInsideProcBecomesErrorNotLeakedToLoop(t *testing.T) {
	in := New()
	if _, err := in.Eval(`proc f {} { break }`); err != nil {
		t.Fatalf("proc f: %v", err)
	}
	_, err := in.Eval(`f`)
	if err == nil {
		t.Fatal("expected error: break inside a proc body must not leak out as Break")
	}
}

func TestUpvarAndGlobal(t *testing.T) {
	in := New()
	registerTestHostCommands(in)
	if _, err := in.Eval(`proc setit {varname val} {
		upvar 1 $varname v
		set v $val
	}`); err != nil {
		t.Fatalf("proc setit: %v", err)
	}
	if _, err := in.Eval(`set target 0`); err != nil {
		t.Fatalf("set target: %v", err)
	}
	if _, err := in.Eval(`setit target 99`); err != nil {
		t.Fatalf("setit: %v", err)
	}
	v, err := in.Eval(`set target`)
	if err != nil {
		t.Fatalf("reading target: %v", err)
	}
	if v.String() != "99" {
		t.Errorf("target = %q, want 99 (upvar should alias caller's variable)", v.String())
	}

	if _, err := in.Eval(`set g 1`); err != nil {
		t.Fatalf("set g: %v", err)
	}
	if _, err := in.Eval(`proc bumpg {} { global g; incr g }`); err != nil {
		t.Fatalf("proc bumpg: %v", err)
	}
	if _, err := in.Eval(`bumpg`); err != nil {
		t.Fatalf("bumpg: %v", err)
	}
	gv, err := in.Eval(`set g`)
	if err != nil {
		t.Fatalf("reading g: %v", err)
	}
	if gv.String() != "2" {
		t.Errorf("g = %q, want 2", gv.String())
	}
}

func TestScopeIsolationBetweenCalls(t *testing.T) {
	in := New()
	registerTestHostCommands(in)
	if _, err := in.Eval(`proc setlocal {} { set local 1 }`); err != nil {
		t.Fatalf("proc: %v", err)
	}
	if _, err := in.Eval(`setlocal`); err != nil {
		t.Fatalf("setlocal: %v", err)
	}
	if _, err := in.Eval(`set local`); err == nil {
		t.Error("local variable from a proc call should not be visible at global scope")
	}
}

func TestRenameCommand(t *testing.T) {
	in := New()
	if _, err := in.Eval(`proc greet {} { return hi }`); err != nil {
		t.Fatalf("proc greet: %v", err)
	}
	if _, err := in.Eval(`rename greet hello`); err != nil {
		t.Fatalf("rename: %v", err)
	}
	v, err := in.Eval(`hello`)
	if err != nil {
		t.Fatalf("hello: %v", err)
	}
	if v.String() != "hi" {
		t.Errorf("hello result = %q, want hi", v.String())
	}
	if _, err := in.Eval(`greet`); err == nil {
		t.Error("greet should no longer exist after rename")
	}
}

func TestRenameToEmptyDeletes(t *testing.T) {
	in := New()
	if _, err := in.Eval(`proc greet {} { return hi }`); err != nil {
		t.Fatalf("proc greet: %v", err)
	}
	if _, err := in.Eval(`rename greet {}`); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := in.Eval(`greet`); err == nil {
		t.Error("greet should be deleted after rename to empty string")
	}
}

func TestRecursionLimitCatchesInfiniteLoop(t *testing.T) {
	in := New(WithRecursionLimit(20))
	if _, err := in.Eval(`proc loop {} { loop }`); err != nil {
		t.Fatalf("proc loop: %v", err)
	}
	_, err := in.Eval(`loop`)
	if err == nil {
		t.Fatal("expected a recursion-limit error")
	}
}

// recursiveEvalDepth recurses by calling Eval from within a host
// command, so each level consumes exactly one unit of the recursion
// budget regardless of how many Tcl-level call frames it also opens.
func recursiveEvalDepth(in *Interp, n int) (*value.Value, error) {
	in.RegisterHost("recurse", func(in *Interp, words []*value.Value) (*value.Value, error) {
		k, err := words[1].AsInt()
		if err != nil {
			return nil, err
		}
		if k <= 0 {
			return value.NewInt(0), nil
		}
		return in.Eval(fmt.Sprintf("recurse %d", k-1))
	})
	return in.Eval(fmt.Sprintf("recurse %d", n))
}

func TestRecursionLimitBoundary(t *testing.T) {
	in := New(WithRecursionLimit(10))
	if _, err := recursiveEvalDepth(in, 9); err != nil {
		t.Errorf("depth within budget failed: %v", err)
	}
	in2 := New(WithRecursionLimit(10))
	if _, err := recursiveEvalDepth(in2, 11); err == nil {
		t.Error("depth exceeding budget should fail")
	}
}

func TestExpandSplicesListIntoArguments(t *testing.T) {
	in := New()
	var captured []string
	in.RegisterHost("collect", func(in *Interp, words []*value.Value) (*value.Value, error) {
		captured = nil
		for _, w := range words[1:] {
			captured = append(captured, w.String())
		}
		return value.Empty(), nil
	})
	registerTestHostCommands(in)
	if _, err := in.Eval(`set l {a b c}`); err != nil {
		t.Fatalf("set l: %v", err)
	}
	if _, err := in.Eval(`collect {*}$l`); err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(captured) != len(want) {
		t.Fatalf("captured = %v, want %v", captured, want)
	}
	for i := range want {
		if captured[i] != want[i] {
			t.Errorf("captured[%d] = %q, want %q", i, captured[i], want[i])
		}
	}
}

func TestCommandSubstitution(t *testing.T) {
	in := New()
	in.RegisterHost("double", func(in *Interp, words []*value.Value) (*value.Value, error) {
		n, err := words[1].AsInt()
		if err != nil {
			return nil, err
		}
		return value.NewInt(n * 2), nil
	})
	v, err := in.Eval(`double [double 3]`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.String() != "12" {
		t.Errorf("result = %q, want 12", v.String())
	}
}

func TestUnknownCommandIsError(t *testing.T) {
	in := New()
	if _, err := in.Eval(`nonexistent`); err == nil {
		t.Error("expected an error for an unknown command")
	}
}

func TestExceptionSatisfiesError(t *testing.T) {
	var _ error = exception.NewBreak()
}

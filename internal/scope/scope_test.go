package scope

import (
	"testing"

	"github.com/tclforge/tcl/internal/value"
)

func TestSetGetRoundTrip(t *testing.T) {
	st := NewStack()
	if err := st.Set(0, "x", value.NewInt(42)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := st.Get(0, "x")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.String() != "42" {
		t.Errorf("Get(x) = %q, want 42", v.String())
	}
}

func TestGetUndefinedFails(t *testing.T) {
	st := NewStack()
	if _, err := st.Get(0, "nope"); err == nil {
		t.Error("Get of undefined variable should fail")
	}
}

func TestScopeIsolation(t *testing.T) {
	st := NewStack()
	st.Push()
	if err := st.Set(1, "local", value.NewInt(1)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := st.Get(0, "local"); err == nil {
		t.Error("local variable leaked into global scope")
	}
}

func TestUpVarLinksReadsAndWrites(t *testing.T) {
	st := NewStack()
	if err := st.Set(0, "g", value.NewInt(1)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	st.Push()
	if err := st.UpVar(1, "alias", 0, "g"); err != nil {
		t.Fatalf("UpVar: %v", err)
	}
	v, err := st.Get(1, "alias")
	if err != nil {
		t.Fatalf("Get(alias): %v", err)
	}
	if v.String() != "1" {
		t.Fatalf("Get(alias) = %q, want 1", v.String())
	}
	if err := st.Set(1, "alias", value.NewInt(2)); err != nil {
		t.Fatalf("Set(alias): %v", err)
	}
	gv, err := st.Get(0, "g")
	if err != nil {
		t.Fatalf("Get(g): %v", err)
	}
	if gv.String() != "2" {
		t.Errorf("Get(g) after Set(alias) = %q, want 2", gv.String())
	}
}

func TestUpVarRejectsCycle(t *testing.T) {
	st := NewStack()
	st.Push()
	if err := st.UpVar(1, "a", 1, "a"); err == nil {
		t.Error("UpVar to self should fail")
	}
}

func TestUpVarRejectsExistingNonLink(t *testing.T) {
	st := NewStack()
	st.Push()
	if err := st.Set(1, "a", value.NewInt(1)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := st.UpVar(1, "a", 0, "g"); err == nil {
		t.Error("UpVar over an existing scalar should fail")
	}
}

func TestUnsetLinkDoesNotTouchTarget(t *testing.T) {
	st := NewStack()
	if err := st.Set(0, "g", value.NewInt(1)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	st.Push()
	if err := st.UpVar(1, "alias", 0, "g"); err != nil {
		t.Fatalf("UpVar: %v", err)
	}
	if err := st.Unset(1, "alias"); err != nil {
		t.Fatalf("Unset: %v", err)
	}
	if _, err := st.Get(0, "g"); err != nil {
		t.Errorf("target variable should survive unset of its alias: %v", err)
	}
}

func TestArrayElemRoundTrip(t *testing.T) {
	st := NewStack()
	if err := st.ElemSet(0, "arr", "k", value.NewString("v")); err != nil {
		t.Fatalf("ElemSet: %v", err)
	}
	v, err := st.ElemGet(0, "arr", "k")
	if err != nil {
		t.Fatalf("ElemGet: %v", err)
	}
	if v.String() != "v" {
		t.Errorf("ElemGet = %q, want v", v.String())
	}
}

func TestInitEnvArray(t *testing.T) {
	st := NewStack()
	InitEnvArray(st, []string{"HOME=/root", "EMPTY="})
	v, err := st.ElemGet(0, "env", "HOME")
	if err != nil {
		t.Fatalf("ElemGet: %v", err)
	}
	if v.String() != "/root" {
		t.Errorf("env(HOME) = %q, want /root", v.String())
	}
}

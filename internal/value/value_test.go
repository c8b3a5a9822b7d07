package value

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// Property 1 (§8): round-trip list — parsing a list's formatted string
// rep back into elements recovers the same elements by string.
func TestRoundTripList(t *testing.T) {
	cases := [][]string{
		{},
		{"a", "b", "c"},
		{"has space", "{braced}", ""},
		{"nested {list} here"},
	}
	for _, elemStrs := range cases {
		elems := make([]*Value, len(elemStrs))
		for i, s := range elemStrs {
			elems[i] = NewString(s)
		}
		v := NewList(elems)
		formatted := v.String()

		parsed, err := ParseList(formatted)
		if err != nil {
			t.Fatalf("ParseList(%q): %v", formatted, err)
		}
		if len(parsed) != len(elemStrs) {
			t.Fatalf("ParseList(%q) = %d elems, want %d", formatted, len(parsed), len(elemStrs))
		}
		for i := range parsed {
			if parsed[i].String() != elemStrs[i] {
				t.Errorf("ParseList(%q)[%d] = %q, want %q", formatted, i, parsed[i].String(), elemStrs[i])
			}
		}
	}
}

// Property 2 (§8): idempotent string slot — String() called twice on the
// same Value returns the exact same bytes, even after the typed slot is
// later shimmered into something else.
func TestIdempotentStringSlot(t *testing.T) {
	v := NewInt(42)
	first := v.String()
	second := v.String()
	if first != second {
		t.Fatalf("String() not idempotent: %q then %q", first, second)
	}
	// Shimmer into a different typed slot; the cached string must not change.
	if _, err := v.AsList(); err != nil {
		t.Fatalf("AsList: %v", err)
	}
	if v.String() != first {
		t.Errorf("String() changed after shimmering: got %q, want %q", v.String(), first)
	}
}

// Property 3 (§8): typed shimmer safety — for a Value with an int slot,
// as_string(); as_list(); as_int() all yield 5 and do not corrupt v.
func TestTypedShimmerSafety(t *testing.T) {
	v := NewInt(5)
	if s := v.String(); s != "5" {
		t.Fatalf("String() = %q, want 5", s)
	}
	elems, err := v.AsList()
	if err != nil {
		t.Fatalf("AsList: %v", err)
	}
	if len(elems) != 1 || elems[0].String() != "5" {
		t.Fatalf("AsList() = %v, want a single-element list {5}", elems)
	}
	n, err := v.AsInt()
	if err != nil {
		t.Fatalf("AsInt: %v", err)
	}
	if n != 5 {
		t.Errorf("AsInt() = %d, want 5", n)
	}
}

func TestEmptyStringNeedsBraceQuotingInAList(t *testing.T) {
	v := NewList([]*Value{NewString("a"), NewString(""), NewString("b")})
	if got, want := v.String(), "a {} b"; got != want {
		t.Errorf("format = %q, want %q", got, want)
	}
}

func TestCanonicalListFormattingSnapshot(t *testing.T) {
	cases := []struct {
		name  string
		elems []string
	}{
		{"plain", []string{"a", "b", "c"}},
		{"with_space", []string{"hello world", "x"}},
		{"with_braces", []string{"{already}", "x"}},
		{"empty_element", []string{"a", "", "c"}},
	}
	for _, c := range cases {
		elems := make([]*Value, len(c.elems))
		for i, s := range c.elems {
			elems[i] = NewString(s)
		}
		snaps.MatchSnapshot(t, c.name, NewList(elems).String())
	}
}

func TestAsDictRoundTrip(t *testing.T) {
	v := NewString("a 1 b 2")
	d, err := v.AsDict()
	if err != nil {
		t.Fatalf("AsDict: %v", err)
	}
	got, ok := d.Get(NewString("b"))
	if !ok || got.String() != "2" {
		t.Errorf("Get(b) = %v, %v, want 2, true", got, ok)
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
}

func TestAsDictOddElementsFails(t *testing.T) {
	v := NewString("a 1 b")
	if _, err := v.AsDict(); err == nil {
		t.Fatal("expected an error for an odd number of elements")
	}
}

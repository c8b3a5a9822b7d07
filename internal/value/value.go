// Package value implements the interpreter's Value type: an immutable
// datum with a lazily-materialized string representation and a lazily
// re-interpreted typed representation ("shimmering"). This is the most
// delicate piece of the interpreter — every other component operates on
// Values, and the dual-representation cache must never expose a
// partially-initialized slot to a caller within the same goroutine.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies which typed representation a Value currently holds.
type Kind int

const (
	// KindNone means the Value has no typed slot yet — only a string rep.
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindList
	KindDict
	KindScript
	KindVarName
	KindExtern
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindScript:
		return "script"
	case KindVarName:
		return "varname"
	case KindExtern:
		return "extern"
	default:
		return "unknown"
	}
}

// Scripter is implemented by the parser's script tree type (internal/script).
// Value holds it as an opaque interface to avoid an import cycle; the
// parser package is the only thing that constructs one.
type Scripter interface {
	// Commands reports the number of top-level commands. It gives the
	// interface a method so the parser's script type can satisfy it; the
	// evaluator does not call it and reaches the tree by type assertion.
	Commands() int
}

// VarNamer is implemented by the parser's parsed variable-name type.
type VarNamer interface {
	Name() string
	Index() (Word, bool)
}

// Word is the minimal surface of internal/script.Word that value needs in
// order to hold a VarName's index token without importing internal/script
// (which itself depends on value for literal words).
type Word interface {
	IsWord()
}

// Extern is the registrant-supplied pair of functions that let a host type
// participate in the Value string<->typed conversion protocol.
type Extern struct {
	// TypeName is used in coercion-failure error messages.
	TypeName string
	Format   func(data any) string
	Parse    func(s string) (any, error)
}

// externData bundles an Extern's payload with the Extern descriptor itself.
type externData struct {
	desc *Extern
	data any
}

// Value is an immutable logical datum with two lazily-filled slots. At
// least one of the two is populated at all times. Filling the string slot
// from a populated typed slot is a one-shot operation: once set, the
// string never changes thereafter, even if the typed slot is later
// replaced (shimmered) into something else.
type Value struct {
	strSet bool
	str    string

	kind Kind
	b    bool
	i    int64
	f    float64
	list []*Value
	dict *dictRep
	scr  Scripter
	vn   VarNamer
	ext  *externData
}

// Empty is the canonical empty-string Value, used as the default "no
// result yet" value threaded through script evaluation.
func Empty() *Value { return NewString("") }

// NewString constructs a Value whose string slot is immediately populated.
func NewString(s string) *Value {
	return &Value{strSet: true, str: s, kind: KindNone}
}

// NewBool constructs a Value with a bool typed slot; its string slot is
// lazy.
func NewBool(b bool) *Value {
	return &Value{kind: KindBool, b: b}
}

// NewInt constructs a Value with an int typed slot; its string slot is
// lazy.
func NewInt(i int64) *Value {
	return &Value{kind: KindInt, i: i}
}

// NewFloat constructs a Value with a float typed slot; its string slot is
// lazy.
func NewFloat(f float64) *Value {
	return &Value{kind: KindFloat, f: f}
}

// NewList constructs a Value with a list typed slot from already-built
// element Values. The slice is taken by reference: callers must treat the
// element order as shared, immutable storage from this point on (§4.1
// "Ownership").
func NewList(elems []*Value) *Value {
	return &Value{kind: KindList, list: elems}
}

// NewDict constructs a Value with a dict typed slot, preserving insertion
// order of first occurrence for each key as required by §4.2.
func NewDict(keys, vals []*Value) *Value {
	d := newDictRep()
	for i, k := range keys {
		d.set(k, vals[i])
	}
	return &Value{kind: KindDict, dict: d}
}

// NewScript wraps an already-parsed script tree, the cache the parser's
// Parse function populates when a Value's string is re-interpreted as a
// script (§4.3 "Caching").
func NewScript(s Scripter) *Value {
	return &Value{kind: KindScript, scr: s}
}

// NewVarName wraps an already-parsed variable name.
func NewVarName(vn VarNamer) *Value {
	return &Value{kind: KindVarName, vn: vn}
}

// NewExtern constructs a Value wrapping registrant-supplied opaque data,
// formatted and parsed solely by the functions in desc.
func NewExtern(desc *Extern, data any) *Value {
	return &Value{kind: KindExtern, ext: &externData{desc: desc, data: data}}
}

// Kind reports which typed representation, if any, is currently cached.
// KindNone means only the string slot is populated.
func (v *Value) Kind() Kind { return v.kind }

// String materializes and returns the value's canonical string
// representation. The first call that finds the string slot empty formats
// the current typed slot and caches the result; every subsequent call
// (even after the typed slot shimmers into something else) returns the
// exact same bytes, satisfying the "idempotent string slot" property.
func (v *Value) String() string {
	if v.strSet {
		return v.str
	}
	v.str = v.format()
	v.strSet = true
	return v.str
}

func (v *Value) format() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "1"
		}
		return "0"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindList:
		return formatList(v.list)
	case KindDict:
		return formatList(v.dict.flatten())
	case KindExtern:
		return v.ext.desc.Format(v.ext.data)
	default:
		// Script and VarName Values are always constructed from an existing
		// string (§3 "string rep is never computed from the typed form");
		// reaching here with KindNone and no string slot is a construction bug.
		return ""
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// AsBool returns the value's bool typed rep, shimmering the string rep
// into one if necessary.
func (v *Value) AsBool() (bool, error) {
	if v.kind == KindBool {
		return v.b, nil
	}
	b, err := parseBool(v.String())
	if err != nil {
		return false, err
	}
	v.shimmerBool(b)
	return b, nil
}

func (v *Value) shimmerBool(b bool) {
	v.kind = KindBool
	v.b = b
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, errors.Errorf("expected boolean but got %q", s)
	}
}

// AsInt returns the value's int typed rep, shimmering if necessary.
func (v *Value) AsInt() (int64, error) {
	if v.kind == KindInt {
		return v.i, nil
	}
	i, err := parseInt(v.String())
	if err != nil {
		return 0, err
	}
	v.kind = KindInt
	v.i = i
	return i, nil
}

func parseInt(s string) (int64, error) {
	t := strings.TrimSpace(s)
	neg := false
	rest := t
	if strings.HasPrefix(rest, "-") {
		neg = true
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "+") {
		rest = rest[1:]
	}
	base := 10
	if strings.HasPrefix(rest, "0x") || strings.HasPrefix(rest, "0X") {
		base = 16
		rest = rest[2:]
	}
	if rest == "" {
		return 0, errors.Errorf("expected integer but got %q", s)
	}
	n, err := strconv.ParseInt(rest, base, 64)
	if err != nil {
		return 0, errors.Errorf("expected integer but got %q", s)
	}
	if neg {
		n = -n
	}
	return n, nil
}

// AsFloat returns the value's float typed rep, shimmering if necessary.
func (v *Value) AsFloat() (float64, error) {
	if v.kind == KindFloat {
		return v.f, nil
	}
	f, err := parseFloat(v.String())
	if err != nil {
		return 0, err
	}
	v.kind = KindFloat
	v.f = f
	return f, nil
}

func parseFloat(s string) (float64, error) {
	t := strings.TrimSpace(s)
	switch strings.ToLower(t) {
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "nan":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, errors.Errorf("expected floating-point number but got %q", s)
	}
	return f, nil
}

// AsList returns the value's list typed rep (a shared slice handle),
// shimmering by parsing the string rep as Tcl list syntax if necessary.
func (v *Value) AsList() ([]*Value, error) {
	if v.kind == KindList {
		return v.list, nil
	}
	elems, err := ParseList(v.String())
	if err != nil {
		return nil, err
	}
	v.kind = KindList
	v.list = elems
	return elems, nil
}

// AsDict returns the value's dict typed rep, shimmering via the list
// codec (§4.2 "Dict format... Identical to list").
func (v *Value) AsDict() (*Dict, error) {
	if v.kind == KindDict {
		return &Dict{d: v.dict}, nil
	}
	d, err := ParseDict(v.String())
	if err != nil {
		return nil, err
	}
	v.kind = KindDict
	v.dict = d.d
	return d, nil
}

// AsScript returns the value's cached script tree, or an error if none is
// cached and no parse function has been installed. Use SetScriptParser at
// interpreter-construction time to wire the real parser; value itself does
// not depend on internal/parser to avoid an import cycle.
func (v *Value) AsScript() (Scripter, error) {
	if v.kind == KindScript {
		return v.scr, nil
	}
	if scriptParser == nil {
		return nil, errors.New("no script parser installed")
	}
	s, err := scriptParser(v.String())
	if err != nil {
		return nil, err
	}
	v.kind = KindScript
	v.scr = s
	return s, nil
}

// AsVarName returns the value's cached parsed variable name, parsing the
// string rep via the installed parser if necessary.
func (v *Value) AsVarName() (VarNamer, error) {
	if v.kind == KindVarName {
		return v.vn, nil
	}
	if varNameParser == nil {
		return nil, errors.New("no varname parser installed")
	}
	vn, err := varNameParser(v.String())
	if err != nil {
		return nil, err
	}
	v.kind = KindVarName
	v.vn = vn
	return vn, nil
}

// AsExtern returns the wrapped opaque data if the value already holds an
// extern typed rep matching desc, or attempts to parse the string rep with
// desc.Parse. A value can only shimmer into an extern type via the exact
// Extern descriptor that round-trips its string rep; mixing descriptors
// fails rather than silently reinterpreting foreign data.
func (v *Value) AsExtern(desc *Extern) (any, error) {
	if v.kind == KindExtern && v.ext.desc == desc {
		return v.ext.data, nil
	}
	data, err := desc.Parse(v.String())
	if err != nil {
		return nil, errors.Wrapf(err, "expected %s but got %q", desc.TypeName, v.String())
	}
	v.kind = KindExtern
	v.ext = &externData{desc: desc, data: data}
	return data, nil
}

// scriptParser and varNameParser are installed once, at process
// initialization, by the parser package via SetScriptParser/
// SetVarNameParser. They exist purely to break the value<->parser import
// cycle (the parser produces Scripter/VarNamer values that value must be
// able to cache, but value cannot import parser directly since parser
// and the script package's Word types it builds import value).
var (
	scriptParser  func(string) (Scripter, error)
	varNameParser func(string) (VarNamer, error)
)

// SetScriptParser installs the function AsScript uses to parse a string
// into a Scripter on first shimmer. Called once by internal/parser's init.
func SetScriptParser(fn func(string) (Scripter, error)) { scriptParser = fn }

// SetVarNameParser installs the function AsVarName uses to parse a string
// into a VarNamer on first shimmer. Called once by internal/parser's init.
func SetVarNameParser(fn func(string) (VarNamer, error)) { varNameParser = fn }

// Equal reports whether two values are equal by string representation
// (§3 "Equality is by string rep").
func Equal(a, b *Value) bool {
	return a.String() == b.String()
}

// HashString returns the string used to hash a Value in a Go map key or
// similar structure; it is simply the string rep (§3 "Hash is over the
// string rep").
func HashString(v *Value) string { return v.String() }

// GoString supports fmt's %#v / debugger-friendly rendering without
// forcing string materialization semantics on callers that just want a
// diagnostic dump.
func (v *Value) GoString() string {
	return fmt.Sprintf("Value{kind:%s str:%q}", v.kind, v.str)
}

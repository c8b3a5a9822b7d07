// Package script defines the parsed representation of a Tcl-family
// script: an ordered sequence of commands, each an ordered sequence of
// words, with the word-level substitution structure (literals, variable
// references, nested scripts, token concatenation, expansion markers)
// preserved for the evaluator to walk (§3 "Script tree", §4.3).
package script

import "github.com/tclforge/tcl/internal/value"

// Word is one lexical token of a command after quoting rules are applied.
// The concrete types below are the closed set described in §3.
type Word interface {
	IsWord()
	// wordString renders a word back to a debug-friendly surface-syntax
	// approximation; used only by Script.String for tracing/snapshots, not
	// for round-tripping.
	wordString() string
}

// ValueWord is a literal already carried as a *value.Value — the case for
// a brace-quoted word, whose contents are taken verbatim with no further
// substitution.
type ValueWord struct{ Value *value.Value }

func (ValueWord) IsWord() {}
func (w ValueWord) wordString() string { return "{" + w.Value.String() + "}" }

// StringWord is a literal with backslash escapes already decoded: a
// bareword or double-quoted word containing no substitutions (so it can
// be folded to a plain string at parse time), or one literal run inside
// a TokensWord.
type StringWord struct{ Text string }

func (StringWord) IsWord() {}
func (w StringWord) wordString() string { return "\"" + w.Text + "\"" }

// VarRefWord is a scalar variable reference, `$name`.
type VarRefWord struct{ Name string }

func (VarRefWord) IsWord() {}
func (w VarRefWord) wordString() string { return "$" + w.Name }

// ArrayRefWord is an array-element reference, `$name(index)`; Index is
// itself a substitutable token sequence (it may contain nested `$`/`[`).
type ArrayRefWord struct {
	Name  string
	Index Word
}

func (ArrayRefWord) IsWord() {}
func (w ArrayRefWord) wordString() string { return "$" + w.Name + "(" + w.Index.wordString() + ")" }

// ScriptWord is a nested command substitution, `[script]`.
type ScriptWord struct{ Script *Script }

func (ScriptWord) IsWord() {}
func (w ScriptWord) wordString() string { return "[" + w.Script.String() + "]" }

// TokensWord is a sequence of sub-words whose evaluated string reps are
// concatenated to produce the word's final value — the case for a
// double-quoted or bareword token containing more than one substitution or
// a mix of literal runs and substitutions.
type TokensWord struct{ Tokens []Word }

func (TokensWord) IsWord() {}
func (w TokensWord) wordString() string {
	s := ""
	for _, t := range w.Tokens {
		s += t.wordString()
	}
	return s
}

// ExpandWord marks `{*}word`: at evaluation time the inner word's value is
// converted to a list and spliced into the argument vector as separate
// arguments (§4.3 "Expansion prefix").
type ExpandWord struct{ Inner Word }

func (ExpandWord) IsWord() {}
func (w ExpandWord) wordString() string { return "{*}" + w.Inner.wordString() }

// Command is one command's word vector ("WordVec" in §3).
type Command struct {
	Words []Word
}

// Script is an ordered sequence of Commands, produced once by the parser
// and safe to share by reference across repeated evaluations of the same
// proc body or cached Value (§4.3 "Caching").
type Script struct {
	Cmds []Command
}

// Commands reports the number of top-level commands; it exists so
// value.Scripter can be satisfied without value importing this package.
func (s *Script) Commands() int { return len(s.Cmds) }

// String renders a debug approximation of the script tree, good enough
// for trace logging and snapshot tests; it is not guaranteed to
// byte-for-byte round-trip through the parser.
func (s *Script) String() string {
	out := ""
	for i, c := range s.Cmds {
		if i > 0 {
			out += "; "
		}
		for j, w := range c.Words {
			if j > 0 {
				out += " "
			}
			out += w.wordString()
		}
	}
	return out
}

// VarName is a parsed `(name, optional index)` pair (§3 "VarName").
type VarName struct {
	Base  string
	Idx   Word
	HasIx bool
}

// Name returns the variable's base name, satisfying value.VarNamer.
func (vn *VarName) Name() string { return vn.Base }

// Index returns the parsed index word and whether one is present,
// satisfying value.VarNamer.
func (vn *VarName) Index() (value.Word, bool) {
	if !vn.HasIx {
		return nil, false
	}
	return wordAdapter{vn.Idx}, true
}

// wordAdapter lets a script.Word satisfy the minimal value.Word marker
// interface without script depending on value beyond what it already
// does, and without value needing to know script's concrete Word types.
type wordAdapter struct{ w Word }

func (wordAdapter) IsWord() {}

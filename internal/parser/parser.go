// Package parser turns script source text into the tree of *script.Script
// / script.Word values the evaluator walks (§4.3), and parses the plain
// "name" / "name(index)" VarName surface syntax used by scope, upvar, and
// global. It is the sole producer of script.Script and script.VarName
// values and wires itself into internal/value's shimmer hooks so a Value
// can cache a parsed script or variable name without value importing this
// package (see value.SetScriptParser / value.SetVarNameParser).
package parser

import (
	"github.com/tclforge/tcl/internal/script"
	"github.com/tclforge/tcl/internal/value"
)

func init() {
	value.SetScriptParser(func(s string) (value.Scripter, error) {
		sc, err := ParseScript(s)
		if err != nil {
			return nil, err
		}
		return sc, nil
	})
	value.SetVarNameParser(func(s string) (value.VarNamer, error) {
		vn, err := ParseVarName(s)
		if err != nil {
			return nil, err
		}
		return vn, nil
	})
}

// parser holds the scan position over a single source string. It is
// reused across recursive descent into nested scripts ([...]) so that
// position tracking stays a single linear sweep.
type parser struct {
	s string
	i int
	n int
}

// ParseScript parses s as a complete script: an ordered sequence of
// commands separated by unquoted ';' or newline (§3, §4.3).
func ParseScript(s string) (*script.Script, error) {
	p := &parser{s: s, n: len(s)}
	cmds, err := p.parseScript(false)
	if err != nil {
		return nil, err
	}
	return &script.Script{Cmds: cmds}, nil
}

// Complete reports whether s parses as a complete script. Any parse
// failure, whether or not it stems from an unterminated construct, is
// reported as incomplete; this is the simplified rule a REPL uses to
// decide whether to keep reading more input before reporting a real
// syntax error to the user.
func Complete(s string) bool {
	_, err := ParseScript(s)
	return err == nil
}

// ParseVarName parses s as a variable name with an optional array index:
// "name" or "name(index)". The base name runs up to the first '(';
// everything from there to the paren that balances it (tracking nested
// parens, closing at the first one that would go negative) is the index.
// An unterminated '(' falls back to treating the whole string as a plain
// scalar name.
func ParseVarName(s string) (*script.VarName, error) {
	open := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '(' {
			open = i
			break
		}
	}
	if open < 0 {
		return &script.VarName{Base: s}, nil
	}
	depth := 0
	close := -1
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				close = i
			} else {
				depth--
			}
		}
		if close >= 0 {
			break
		}
	}
	if close < 0 {
		return &script.VarName{Base: s}, nil
	}
	return &script.VarName{
		Base:  s[:open],
		Idx:   script.StringWord{Text: s[open+1 : close]},
		HasIx: true,
	}, nil
}

// parseScript parses commands until EOF, or (when nested is true) until
// an unquoted ']' that closes an enclosing command substitution; the
// closing bracket itself is left unconsumed for the caller.
func (p *parser) parseScript(nested bool) ([]script.Command, error) {
	var cmds []script.Command
	for {
		if err := p.skipSeparatorsAndComments(nested); err != nil {
			return nil, err
		}
		if p.atEnd(nested) {
			return cmds, nil
		}
		cmd, err := p.parseCommand(nested)
		if err != nil {
			return nil, err
		}
		if len(cmd.Words) > 0 {
			cmds = append(cmds, cmd)
		}
		if p.atEnd(nested) {
			return cmds, nil
		}
		// Consume the terminator that ended the command, if any;
		// parseCommand only stops at a terminator or atEnd.
		if p.i < p.n && (p.s[p.i] == ';' || p.s[p.i] == '\n') {
			p.i++
		}
	}
}

func (p *parser) atEnd(nested bool) bool {
	if p.i >= p.n {
		return true
	}
	return nested && p.s[p.i] == ']'
}

// skipSeparatorsAndComments consumes whitespace, ';', newlines, and
// '#'-led comment lines between commands.
func (p *parser) skipSeparatorsAndComments(nested bool) error {
	for {
		advanced := false
		for p.i < p.n {
			c := p.s[p.i]
			if c == ' ' || c == '\t' || c == ';' || c == '\n' || c == '\r' {
				p.i++
				advanced = true
				continue
			}
			if c == '\\' && p.i+1 < p.n && p.s[p.i+1] == '\n' {
				p.i += 2
				advanced = true
				continue
			}
			break
		}
		if p.atEnd(nested) {
			return nil
		}
		if p.i < p.n && p.s[p.i] == '#' {
			p.skipComment()
			advanced = true
		}
		if !advanced {
			return nil
		}
	}
}

func (p *parser) skipComment() {
	for p.i < p.n {
		if p.s[p.i] == '\\' && p.i+1 < p.n && p.s[p.i+1] == '\n' {
			p.i += 2
			continue
		}
		if p.s[p.i] == '\n' {
			return
		}
		p.i++
	}
}

// parseCommand parses one command's word vector, stopping at ';', an
// unescaped newline, EOF, or (when nested) ']'.
func (p *parser) parseCommand(nested bool) (script.Command, error) {
	var cmd script.Command
	for {
		p.skipInterWordSpace()
		if p.i >= p.n {
			return cmd, nil
		}
		c := p.s[p.i]
		if c == ';' || c == '\n' || (nested && c == ']') {
			return cmd, nil
		}
		w, err := p.parseWord(nested)
		if err != nil {
			return script.Command{}, err
		}
		cmd.Words = append(cmd.Words, w)
	}
}

// skipInterWordSpace consumes plain spaces/tabs and backslash-newline
// runs between words within a command, without crossing a command
// terminator.
func (p *parser) skipInterWordSpace() {
	for p.i < p.n {
		c := p.s[p.i]
		if c == ' ' || c == '\t' {
			p.i++
			continue
		}
		if c == '\\' && p.i+1 < p.n && p.s[p.i+1] == '\n' {
			p.i += 2
			for p.i < p.n && (p.s[p.i] == ' ' || p.s[p.i] == '\t') {
				p.i++
			}
			continue
		}
		break
	}
}

func (p *parser) wordStop(nested bool) func() bool {
	return func() bool {
		if p.i >= p.n {
			return true
		}
		c := p.s[p.i]
		return c == ' ' || c == '\t' || c == ';' || c == '\n' || (nested && c == ']')
	}
}

// parseWord parses one word, dispatching on its leading character: the
// "{*}" expansion prefix, a whole-word brace quote, a double-quoted
// word, or a substitutable bareword (§4.3 "Word lexing within a
// command").
func (p *parser) parseWord(nested bool) (script.Word, error) {
	if p.hasExpandPrefix() {
		p.i += 3
		inner, err := p.parseWord(nested)
		if err != nil {
			return nil, err
		}
		return script.ExpandWord{Inner: inner}, nil
	}
	if p.i < p.n && p.s[p.i] == '{' {
		return p.parseBraceWord(nested)
	}
	if p.i < p.n && p.s[p.i] == '"' {
		return p.parseQuotedWord(nested)
	}
	return p.parseBareword(nested)
}

func (p *parser) hasExpandPrefix() bool {
	if p.i+3 > p.n || p.s[p.i:p.i+3] != "{*}" {
		return false
	}
	if p.i+3 >= p.n {
		return false
	}
	c := p.s[p.i+3]
	return c != ' ' && c != '\t' && c != '\n' && c != ';'
}

// parseBraceWord parses a whole-word {...} literal: content is taken
// verbatim with no substitution; a backslash only affects brace-depth
// counting, it is not itself decoded (§4.2 "List format", applied
// identically to the single-word case).
func (p *parser) parseBraceWord(nested bool) (script.Word, error) {
	start := p.i
	depth := 0
	p.i++ // consume '{'
	for p.i < p.n {
		switch p.s[p.i] {
		case '{':
			depth++
			p.i++
		case '}':
			if depth == 0 {
				text := p.s[start+1 : p.i]
				p.i++
				if p.i < p.n {
					c := p.s[p.i]
					if c != ' ' && c != '\t' && c != '\n' && c != ';' && !(nested && c == ']') {
						return nil, errExtraAfterBrace()
					}
				}
				return script.ValueWord{Value: value.NewString(text)}, nil
			}
			depth--
			p.i++
		case '\\':
			p.i += 2
		default:
			p.i++
		}
	}
	return nil, errMissingCloseBrace()
}

// parseQuotedWord parses a "..." word, applying backslash decoding and
// $/[ substitution to its contents.
func (p *parser) parseQuotedWord(nested bool) (script.Word, error) {
	p.i++ // consume opening '"'
	pieces, err := p.scanSubst(func() bool {
		return p.i >= p.n || p.s[p.i] == '"'
	})
	if err != nil {
		return nil, err
	}
	if p.i >= p.n {
		return nil, errMissingQuote()
	}
	p.i++ // consume closing '"'
	if p.i < p.n {
		c := p.s[p.i]
		if c != ' ' && c != '\t' && c != '\n' && c != ';' && !(nested && c == ']') {
			return nil, errExtraAfterQuote()
		}
	}
	return combineWords(pieces), nil
}

func (p *parser) parseBareword(nested bool) (script.Word, error) {
	pieces, err := p.scanSubst(p.wordStop(nested))
	if err != nil {
		return nil, err
	}
	return combineWords(pieces), nil
}

// combineWords folds a piece list down to the simplest equivalent Word:
// an empty list becomes an empty literal, a single literal piece is
// returned unwrapped, and anything else is wrapped in TokensWord so the
// evaluator concatenates the evaluated pieces at run time.
func combineWords(pieces []script.Word) script.Word {
	if len(pieces) == 0 {
		return script.StringWord{Text: ""}
	}
	if len(pieces) == 1 {
		return pieces[0]
	}
	return script.TokensWord{Tokens: pieces}
}

// scanSubst scans word content until stop() reports true, decoding
// backslash escapes and splicing in $variable and [script]
// substitutions. It is shared by quoted-word and bareword parsing; the
// two differ only in their stop condition.
func (p *parser) scanSubst(stop func() bool) ([]script.Word, error) {
	var pieces []script.Word
	var buf []byte
	flush := func() {
		if len(buf) > 0 {
			pieces = append(pieces, script.StringWord{Text: string(buf)})
			buf = buf[:0]
		}
	}
	for !stop() {
		c := p.s[p.i]
		switch {
		case c == '\\':
			text, adv := decodeBackslash(p.s[p.i:])
			buf = append(buf, text...)
			p.i += adv
		case c == '$':
			flush()
			w, err := p.parseVarRef()
			if err != nil {
				return nil, err
			}
			pieces = append(pieces, w)
		case c == '[':
			flush()
			w, err := p.parseScriptSubst()
			if err != nil {
				return nil, err
			}
			pieces = append(pieces, w)
		default:
			buf = append(buf, c)
			p.i++
		}
	}
	flush()
	return pieces, nil
}

// parseScriptSubst parses a [...] command substitution.
func (p *parser) parseScriptSubst() (script.Word, error) {
	p.i++ // consume '['
	cmds, err := p.parseScript(true)
	if err != nil {
		return nil, err
	}
	if p.i >= p.n || p.s[p.i] != ']' {
		return nil, errUnbalancedBracket()
	}
	p.i++ // consume ']'
	return script.ScriptWord{Script: &script.Script{Cmds: cmds}}, nil
}

// parseVarRef parses a $name, ${name}, or $name(index) reference. A '$'
// not followed by a valid name (and not opening a "${" form) is taken as
// a literal dollar sign, matching how an ordinary character would be
// handled by the caller.
func (p *parser) parseVarRef() (script.Word, error) {
	p.i++ // consume '$'
	if p.i < p.n && p.s[p.i] == '{' {
		start := p.i + 1
		j := start
		for j < p.n && p.s[j] != '}' {
			j++
		}
		if j >= p.n {
			return script.StringWord{Text: "$"}, nil
		}
		name := p.s[start:j]
		p.i = j + 1
		return script.VarRefWord{Name: name}, nil
	}
	start := p.i
	for p.i < p.n && isNameByte(p.s[p.i]) {
		p.i++
	}
	if p.i == start {
		return script.StringWord{Text: "$"}, nil
	}
	name := p.s[start:p.i]
	if p.i < p.n && p.s[p.i] == '(' {
		p.i++ // consume '('
		idx, err := p.parseIndexWord()
		if err != nil {
			return nil, err
		}
		if p.i >= p.n || p.s[p.i] != ')' {
			return nil, errMissingParen()
		}
		p.i++ // consume ')'
		return script.ArrayRefWord{Name: name, Index: idx}, nil
	}
	return script.VarRefWord{Name: name}, nil
}

// parseIndexWord parses the substitutable token sequence inside a
// $name(...) index, terminating at the ')' that balances the opening
// paren already consumed by the caller.
func (p *parser) parseIndexWord() (script.Word, error) {
	depth := 0
	pieces, err := p.scanSubst(func() bool {
		if p.i >= p.n {
			return true
		}
		switch p.s[p.i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return true
			}
			depth--
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	return combineWords(pieces), nil
}

func isNameByte(b byte) bool {
	return b == '_' || b == ':' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// decodeBackslash decodes a single backslash escape starting at s[0] ==
// '\\', returning the replacement text and the number of input bytes
// consumed. Mirrors internal/value's list-element escaping rules so a
// literal's meaning is identical whether it reaches the interpreter
// through a command word or a list element.
func decodeBackslash(s string) (string, int) {
	if len(s) < 2 {
		return "\\", 1
	}
	switch s[1] {
	case '\n':
		j := 2
		for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			j++
		}
		return " ", j
	case 'n':
		return "\n", 2
	case 't':
		return "\t", 2
	case 'r':
		return "\r", 2
	case '\\':
		return "\\", 2
	case '"':
		return "\"", 2
	case '{':
		return "{", 2
	case '}':
		return "}", 2
	case '$':
		return "$", 2
	case '[':
		return "[", 2
	case ']':
		return "]", 2
	case ';':
		return ";", 2
	case 'x':
		return decodeHexEscape(s, 2, 2)
	case 'u':
		return decodeHexEscape(s, 2, 4)
	default:
		return string(s[1]), 2
	}
}

func decodeHexEscape(s string, markerLen, maxDigits int) (string, int) {
	j := markerLen
	digits := 0
	val := 0
	for j < len(s) && digits < maxDigits && isHexDigit(s[j]) {
		val = val*16 + hexVal(s[j])
		j++
		digits++
	}
	if digits == 0 {
		return string(s[1]), 2
	}
	return string(rune(val)), j
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	default:
		return int(b-'A') + 10
	}
}

package value

import (
	"strings"

	"github.com/pkg/errors"
)

// formatList renders elems in canonical Tcl list syntax: elements
// separated by a single space, each brace-quoted when required (§4.1
// "list → Tcl list format").
func formatList(elems []*Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = formatListElement(e.String())
	}
	return strings.Join(parts, " ")
}

// formatListElement renders a single list element, brace-quoting it if
// bare emission would not round-trip.
func formatListElement(s string) string {
	if needsBraceQuoting(s) {
		return "{" + s + "}"
	}
	return s
}

func needsBraceQuoting(s string) bool {
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, "#") {
		return true
	}
	// A leading '{' or '"' would make the list parser read the element as
	// a quoted word and strip the quoting on the way back.
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "\"") {
		return true
	}
	if strings.ContainsAny(s, " \t\n\r\f\v") {
		return true
	}
	if !bracesBalanced(s) {
		return true
	}
	return false
}

// bracesBalanced reports whether every '{' in s is matched by a later '}'
// at the same nesting depth and the string never goes negative, i.e.
// whether s could be embedded inside an outer pair of braces without
// breaking the outer pair's balance.
func bracesBalanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		case '\\':
			if i+1 < len(s) {
				i++
			}
		}
	}
	return depth == 0
}

// ParseList parses s as whitespace-separated Tcl list syntax (§4.2 "List
// format (parser)").
func ParseList(s string) ([]*Value, error) {
	words, err := splitListWords(s)
	if err != nil {
		return nil, err
	}
	elems := make([]*Value, len(words))
	for i, w := range words {
		elems[i] = NewString(w)
	}
	return elems, nil
}

// splitListWords tokenizes s into raw word strings following list-parsing
// rules: brace-quoted words preserve content verbatim (no substitution,
// nested balanced braces allowed, may span newlines); double-quoted words
// have backslash escapes decoded but no $/[ substitution; barewords run to
// the next unquoted whitespace with backslash-newline collapsing to a
// single space.
func splitListWords(s string) ([]string, error) {
	var words []string
	i, n := 0, len(s)

	skipWS := func() {
		for i < n && isListSpace(s[i]) {
			i++
		}
	}

	for {
		skipWS()
		if i >= n {
			break
		}
		switch s[i] {
		case '{':
			start := i
			depth := 0
			i++
			for i < n {
				switch s[i] {
				case '{':
					depth++
					i++
				case '}':
					if depth == 0 {
						word := s[start+1 : i]
						i++
						words = append(words, word)
						goto wordDone
					}
					depth--
					i++
				case '\\':
					i += 2
				default:
					i++
				}
			}
			return nil, errors.New("missing close-brace")
		wordDone:
			if i < n && !isListSpace(s[i]) {
				return nil, errors.New("extra characters after close-brace")
			}
			continue
		case '"':
			start := i
			i++
			var sb strings.Builder
			for i < n && s[i] != '"' {
				if s[i] == '\\' {
					r, adv := decodeBackslash(s[i:])
					sb.WriteString(r)
					i += adv
					continue
				}
				sb.WriteByte(s[i])
				i++
			}
			if i >= n {
				_ = start
				return nil, errors.New("missing \"")
			}
			i++ // closing quote
			words = append(words, sb.String())
			continue
		default:
			start := i
			var sb strings.Builder
			depth := 0
			for i < n && (depth > 0 || !isListSpace(s[i])) {
				switch s[i] {
				case '{':
					depth++
					sb.WriteByte(s[i])
					i++
				case '}':
					depth--
					sb.WriteByte(s[i])
					i++
				case '\\':
					r, adv := decodeBackslash(s[i:])
					sb.WriteString(r)
					i += adv
				default:
					sb.WriteByte(s[i])
					i++
				}
			}
			if depth != 0 {
				return nil, errors.New("missing close-brace")
			}
			_ = start
			words = append(words, sb.String())
		}
	}
	return words, nil
}

func isListSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// decodeBackslash decodes a single backslash escape starting at s[0]=='\\'
// and returns the replacement text plus the number of input bytes
// consumed. Backslash-newline collapses to a single space (§4.2).
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
	case 'x':
		return decodeHexEscape(s, 2, 2)
	case 'u':
		return decodeHexEscape(s, 2, 4)
	default:
		return string(s[1]), 2
	}
}

// decodeHexEscape decodes up to maxDigits hex digits starting at offset
// prefixLen into s (after the \x or \u marker), returning the decoded
// rune and total bytes consumed including the marker.
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

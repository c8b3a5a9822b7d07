package parser

// Error is a parse failure. Incomplete is true when the failure is of the
// kind more input could resolve (an unterminated brace, quote, or
// bracket) — kept for diagnostics, though the REPL completeness check
// itself (see Complete) simply treats any parse error as "not yet
// complete", per spec.
type Error struct {
	Msg        string
	Incomplete bool
}

func (e *Error) Error() string { return e.Msg }

func errMissingCloseBrace() error {
	return &Error{Msg: "missing close-brace", Incomplete: true}
}

func errMissingQuote() error {
	return &Error{Msg: "missing \"", Incomplete: true}
}

func errExtraAfterBrace() error {
	return &Error{Msg: "extra characters after close-brace", Incomplete: false}
}

func errUnbalancedBracket() error {
	return &Error{Msg: "unbalanced open bracket", Incomplete: true}
}

func errExtraAfterQuote() error {
	return &Error{Msg: "extra characters after close-quote", Incomplete: false}
}

func errMissingParen() error {
	return &Error{Msg: "missing )", Incomplete: true}
}

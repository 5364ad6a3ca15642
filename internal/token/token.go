package token

import "tbl/internal/source"

// Token is a single lexical unit: its kind, the literal text it covers, and
// its source span.
type Token struct {
	Kind Kind
	Text string
	Span source.Span
}

// Is reports whether the token has the given kind.
func (t Token) Is(k Kind) bool {
	return t.Kind == k
}

// IsEOF reports whether the token is the end-of-file sentinel.
func (t Token) IsEOF() bool {
	return t.Kind == Eof
}

package token

// Kind identifies the lexical category of a Token.
type Kind uint8

const (
	// Invalid marks a token the lexer could not classify.
	Invalid Kind = iota
	// Eof marks the end of the source input. Next() returns Eof forever after.
	Eof

	// Hash is '#', opening a table declaration or a table reference.
	Hash
	// Identifier is an ASCII identifier matching [A-Za-z_][A-Za-z0-9_-]*.
	Identifier
	// Number is a decimal weight, lexed as a string and parsed to f64 later.
	Number
	// Colon separates a rule's weight from its body.
	Colon
	// LeftBracket is '[', opening a table's flag list.
	LeftBracket
	// RightBracket is ']', closing a table's flag list.
	RightBracket
	// LeftBrace is '{', opening an expression.
	LeftBrace
	// RightBrace is '}', closing an expression.
	RightBrace
	// Pipe is '|', separating a table reference from its modifiers.
	Pipe
	// DiceLiteral matches `[digits]*d digits`, e.g. "d6" or "2d10".
	DiceLiteral
	// Text is a run of literal rule-body text up to the next '{' or newline.
	Text
	// Newline marks the end of a logical source line.
	Newline
	// ExportKeyword is the literal "export", recognized only inside a
	// table's flag list ('[' ... ']').
	ExportKeyword
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case Eof:
		return "Eof"
	case Hash:
		return "Hash"
	case Identifier:
		return "Identifier"
	case Number:
		return "Number"
	case Colon:
		return "Colon"
	case LeftBracket:
		return "LeftBracket"
	case RightBracket:
		return "RightBracket"
	case LeftBrace:
		return "LeftBrace"
	case RightBrace:
		return "RightBrace"
	case Pipe:
		return "Pipe"
	case DiceLiteral:
		return "DiceLiteral"
	case Text:
		return "Text"
	case Newline:
		return "Newline"
	case ExportKeyword:
		return "ExportKeyword"
	default:
		return "Unknown"
	}
}

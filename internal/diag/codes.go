package diag

import "fmt"

// Code identifies the category of a diagnostic. Ranges follow the kind of
// error: lex 1000s, syntax 2000s, validation 3000s, generation 4000s. The
// lexer itself reports SynUnknownFlag and SynMalformedDice.
type Code uint16

const (
	// UnknownCode is the zero value; it carries no phase. The CLI uses it
	// for a file that could not be read.
	UnknownCode Code = 0

	// Lexical diagnostics.
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexBadNumber                Code = 1003
	LexUnterminatedExpression   Code = 1004
	LexStrayBrace               Code = 1005
	LexTokenTooLong             Code = 1006
	LexUnsupportedReference     Code = 1007

	// Syntax (parser) diagnostics.
	SynInfo                 Code = 2000
	SynMissingHash          Code = 2001
	SynMissingColon         Code = 2002
	SynNegativeWeight       Code = 2003
	SynZeroWeight           Code = 2004
	SynUnknownFlag          Code = 2005
	SynUnknownModifier      Code = 2006
	SynMalformedDice        Code = 2007
	SynEmptyTable           Code = 2008
	SynDuplicateTableInFile Code = 2009
	SynBadIdentifier        Code = 2010
	SynUnexpectedToken      Code = 2011

	// Validation (collection) diagnostics.
	ValInfo               Code = 3000
	ValDuplicateTable     Code = 3001
	ValInvalidReference   Code = 3002

	// Generation (runtime) diagnostics.
	GenInfo                    Code = 4000
	GenUnknownTable            Code = 4001
	GenRecursionLimitExceeded  Code = 4002
	GenEmptyTableAtSampleTime  Code = 4003
)

var codeTitle = map[Code]string{
	UnknownCode:                 "unknown error",
	LexInfo:                     "lexical note",
	LexUnknownChar:              "unexpected character",
	LexUnterminatedBlockComment: "unterminated block comment",
	LexBadNumber:                "malformed number",
	LexUnterminatedExpression:   "unterminated expression",
	LexStrayBrace:               "stray brace",
	LexTokenTooLong:             "token too long",
	LexUnsupportedReference:     "unsupported reference syntax",
	SynInfo:                     "syntax note",
	SynMissingHash:              "missing table declaration",
	SynMissingColon:             "missing colon",
	SynNegativeWeight:           "negative weight",
	SynZeroWeight:               "zero weight",
	SynUnknownFlag:              "unknown flag",
	SynUnknownModifier:          "unknown modifier",
	SynMalformedDice:            "malformed dice literal",
	SynEmptyTable:               "empty table",
	SynDuplicateTableInFile:     "duplicate table id",
	SynBadIdentifier:            "invalid identifier",
	SynUnexpectedToken:          "unexpected token",
	ValInfo:                     "validation note",
	ValDuplicateTable:           "duplicate table",
	ValInvalidReference:         "invalid table reference",
	GenInfo:                     "generation note",
	GenUnknownTable:             "unknown table",
	GenRecursionLimitExceeded:   "recursion limit exceeded",
	GenEmptyTableAtSampleTime:   "empty table at sample time",
}

// ID renders the stable, phase-prefixed string form of a code, e.g. "LEX1001".
func (c Code) ID() string {
	switch n := int(c); {
	case n >= 1000 && n < 2000:
		return fmt.Sprintf("LEX%04d", n)
	case n >= 2000 && n < 3000:
		return fmt.Sprintf("SYN%04d", n)
	case n >= 3000 && n < 4000:
		return fmt.Sprintf("VAL%04d", n)
	case n >= 4000 && n < 5000:
		return fmt.Sprintf("GEN%04d", n)
	default:
		return "E0000"
	}
}

// Title returns a short human-readable category label for the code.
func (c Code) Title() string {
	if t, ok := codeTitle[c]; ok {
		return t
	}
	return codeTitle[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s] %s", c.ID(), c.Title())
}

package tokenizer

import "errors"

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedAtom    = errors.New("unterminated quoted atom")
	ErrInvalidNumber       = errors.New("invalid number format")
	ErrInvalidCharLiteral  = errors.New("invalid character literal")
	ErrUnknownEncoding     = errors.New("unknown source encoding")
	ErrMalformedSource     = errors.New("malformed source text")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	WHITESPACE
	COMMENT // % line comment

	// Values
	ATOM     // plain and quoted atoms, reserved words
	VARIABLE // Name, _Name, _
	INTEGER  // 42, 16#ff, 1_000
	FLOAT    // 1.5, 2.0e-3
	STRING   // "text"
	CHAR     // $a, $\n

	// Structure
	OPERATOR     // symbolic and word operators
	PUNCTUATION  // ( ) [ ] { } << >> , ; | || # . : <- <= -> ...
	MACRO_MARKER // ? and ??
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case COMMENT:
		return "COMMENT"
	case ATOM:
		return "ATOM"
	case VARIABLE:
		return "VARIABLE"
	case INTEGER:
		return "INTEGER"
	case FLOAT:
		return "FLOAT"
	case STRING:
		return "STRING"
	case CHAR:
		return "CHAR"
	case OPERATOR:
		return "OPERATOR"
	case PUNCTUATION:
		return "PUNCTUATION"
	case MACRO_MARKER:
		return "MACRO_MARKER"
	default:
		return "UNKNOWN"
	}
}

// IsTrivia reports whether the token type carries no grammatical meaning.
func (t TokenType) IsTrivia() bool {
	return t == WHITESPACE || t == COMMENT
}

// Position represents a position in the source code
type Position struct {
	Line   int
	Column int
	Offset int
}

// Before reports whether p is located before o in the source.
func (p Position) Before(o Position) bool {
	return p.Offset < o.Offset
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position // first character
	End      Position // just past the last character

	// Reserved is set for ATOM tokens that are Erlang reserved words
	// (catch, case, end, ...). They can never be used as plain atoms.
	Reserved bool
}

// String returns the string representation of Token
func (t Token) String() string {
	if t.Reserved {
		return t.Type.String() + "(reserved): " + t.Value
	}
	return t.Type.String() + ": " + t.Value
}

// Is reports whether the token has the given type and text.
func (t Token) Is(tokenType TokenType, value string) bool {
	return t.Type == tokenType && t.Value == value
}
